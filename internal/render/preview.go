package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

// Preview defaults.
const (
	DefaultPreviewScale   = 2.0
	MaxPreviewScale       = 8.0
	MaxPreviewPixels      = 1 << 26
	DefaultStrokeWidth    = 0.5
	DefaultThreadOpacity  = 0.25
	DefaultBackground     = "#FFFFFF"
	previewChannelOpacity = 0.2
)

// channelHex is the thread color of each channel in the preview.
var channelHex = [4]string{
	engine.Cyan:    "#00FFFF",
	engine.Magenta: "#FF00FF",
	engine.Yellow:  "#FFD700",
	engine.Black:   "#000000",
}

// Thread is one continuous path drawn in a single color.
type Thread struct {
	Sequence []int
	// Color is "#RRGGBB"; alpha comes from Opacity.
	Color   string
	Opacity float64
}

// GrayThreads wraps a grayscale sequence as a single black thread.
func GrayThreads(seq []int) []Thread {
	return []Thread{{Sequence: seq, Color: "#000000", Opacity: DefaultThreadOpacity}}
}

// ColorThreads returns one thread per non-empty channel in display order.
// Nil order means CMYK.
func ColorThreads(cs *engine.ColorSequences, order []engine.Channel) []Thread {
	if len(order) == 0 {
		order = engine.Channels[:]
	}
	var threads []Thread
	for _, ch := range order {
		seq := cs.Sequence(ch)
		if len(seq) == 0 {
			continue
		}
		threads = append(threads, Thread{Sequence: seq, Color: channelHex[ch], Opacity: previewChannelOpacity})
	}
	return threads
}

// PreviewOptions controls the simulated raster.
type PreviewOptions struct {
	// Scale multiplies the layout's pixel size. Zero selects
	// DefaultPreviewScale.
	Scale float64

	// StrokeWidth is the line width in layout pixels.
	StrokeWidth float64

	// Background is "#RRGGBB" or "#RRGGBBAA".
	Background string

	// ShowNails marks every nail with a small gray dot.
	ShowNails bool

	// LabelEvery prints the index of every nth nail beside it. Zero
	// disables labels.
	LabelEvery int
}

// PreviewResult contains the rendered preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Segments    int    `json:"segments"`
}

// Render draws threads over a blank canvas the size of the layout times the
// scale. Each segment is composited separately, so crossings darken the way
// overlapping thread does. It returns the image and the number of segments
// drawn.
func Render(layout *nails.Layout, threads []Thread, opts PreviewOptions) (*image.RGBA, int, error) {
	if layout == nil {
		return nil, 0, errNoLayout
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultPreviewScale
	}
	if scale > MaxPreviewScale {
		return nil, 0, fmt.Errorf("preview scale must be at most %g, got %g", MaxPreviewScale, scale)
	}
	strokeW := opts.StrokeWidth
	if strokeW <= 0 {
		strokeW = DefaultStrokeWidth
	}
	bgHex := opts.Background
	if bgHex == "" {
		bgHex = DefaultBackground
	}
	bg, err := parseHexColor(bgHex)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid background color %q: %w", bgHex, err)
	}

	fw, fh := float64(layout.Width())*scale, float64(layout.Height())*scale
	if fw*fh > MaxPreviewPixels {
		return nil, 0, fmt.Errorf("preview of %.0fx%.0f exceeds %d pixels", fw, fh, MaxPreviewPixels)
	}
	width, height := int(fw), int(fh)
	if width <= 0 || height <= 0 {
		return nil, 0, fmt.Errorf("preview size %dx%d is empty", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bgc := color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: bg.A}
	draw.Draw(img, img.Bounds(), image.NewUniform(bgc), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	dasher.SetStroke(fixed.Int26_6(strokeW*scale*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)

	segments := 0
	for _, th := range threads {
		c, err := threadColor(th)
		if err != nil {
			return nil, 0, err
		}
		dasher.SetColor(c)
		for i := 0; i+1 < len(th.Sequence); i++ {
			a, b := th.Sequence[i], th.Sequence[i+1]
			if !inRange(a, layout.Count()) || !inRange(b, layout.Count()) {
				continue
			}
			pa, pb := layout.Nail(a), layout.Nail(b)
			dasher.Start(rasterx.ToFixedP(pa.X*scale, pa.Y*scale))
			dasher.Line(rasterx.ToFixedP(pb.X*scale, pb.Y*scale))
			dasher.Stop(false)
			dasher.Draw()
			dasher.Clear()
			segments++
		}
	}

	if opts.ShowNails {
		drawNails(img, layout, scale)
	}
	if opts.LabelEvery > 0 {
		if err := drawLabels(img, layout, scale, opts.LabelEvery); err != nil {
			return nil, 0, err
		}
	}
	return img, segments, nil
}

// RenderPreview renders threads and encodes the result as base64 PNG.
func RenderPreview(layout *nails.Layout, threads []Thread, opts PreviewOptions) (*PreviewResult, error) {
	img, segments, err := Render(layout, threads, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PreviewResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Segments:    segments,
	}, nil
}

func threadColor(th Thread) (color.NRGBA, error) {
	c, err := parseHexColor(th.Color)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid thread color %q: %w", th.Color, err)
	}
	opacity := th.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = DefaultThreadOpacity
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(opacity*255 + 0.5)}, nil
}

// drawNails marks each nail with a 3x3 gray dot.
func drawNails(img *image.RGBA, layout *nails.Layout, scale float64) {
	dot := color.RGBA{R: 153, G: 153, B: 153, A: 255}
	bounds := img.Bounds()
	for _, p := range layout.Points() {
		cx, cy := int(p.X*scale), int(p.Y*scale)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if image.Pt(cx+dx, cy+dy).In(bounds) {
					img.SetRGBA(cx+dx, cy+dy, dot)
				}
			}
		}
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
