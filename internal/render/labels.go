package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/string-art-mcp/internal/nails"
)

const (
	labelPoints = 5.0 // at scale 1
	labelOffset = 6.0 // layout pixels between a nail and its label
)

var labelColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}

func labelFace(scale float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    labelPoints * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawLabels writes the index of every nth nail next to it, pushed away from
// the layout center so the numbers sit outside the thread area. Labels that
// fall off the canvas are clipped.
func drawLabels(img *image.RGBA, layout *nails.Layout, scale float64, every int) error {
	face, err := labelFace(scale)
	if err != nil {
		return err
	}
	defer face.Close()

	cx, cy := float64(layout.Width())/2, float64(layout.Height())/2
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{Dst: img, Src: image.NewUniform(labelColor), Face: face}

	for i := 0; i < layout.Count(); i += every {
		p := layout.Nail(i)
		dx, dy := p.X-cx, p.Y-cy
		if n := math.Hypot(dx, dy); n > 0 {
			dx, dy = dx/n, dy/n
		}
		x := (p.X + dx*labelOffset) * scale
		y := (p.Y + dy*labelOffset) * scale

		text := strconv.Itoa(i)
		width := d.MeasureString(text).Ceil()
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(x) - width/2),
			Y: fixed.I(int(y) + ascent/2),
		}
		d.DrawString(text)
	}
	return nil
}
