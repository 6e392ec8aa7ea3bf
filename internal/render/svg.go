package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

const (
	// SVGMargin is the blank border around the nails, in pixels.
	SVGMargin = 20

	grayOpacity  = "1.0"
	colorOpacity = "0.8"
	nailRadius   = "0.3"
	nailFill     = "#999"
)

// strokeGroup is one <g> of thread lines sharing a stroke.
type strokeGroup struct {
	id      string
	stroke  string
	opacity string
	seq     []int
}

// WriteSVG writes the grayscale diagram: one black group of lines plus the
// nails.
func WriteSVG(w io.Writer, seq []int, job Job) error {
	if job.Layout == nil {
		return errNoLayout
	}
	title := fmt.Sprintf("String Art - %d connections", len(seq))
	desc := fmt.Sprintf("Generated string art with %d nails in %s layout", job.Layout.Count(), job.Layout.Kind())
	groups := []strokeGroup{{id: "Black", stroke: "black", opacity: grayOpacity, seq: seq}}
	return writeSVG(w, job, title, desc, groups)
}

// WriteColorSVG writes one group per channel in display order. Channels with
// an empty sequence get no group.
func WriteColorSVG(w io.Writer, cs *engine.ColorSequences, job Job) error {
	if job.Layout == nil {
		return errNoLayout
	}
	if cs == nil {
		return errors.New("no color sequences to render")
	}
	title := fmt.Sprintf("Color String Art - %d total connections", cs.Total)
	desc := fmt.Sprintf("Generated color string art with %d nails in %s layout (CMYK mode)", job.Layout.Count(), job.Layout.Kind())

	var groups []strokeGroup
	for _, ch := range job.order() {
		seq := cs.Sequence(ch)
		if len(seq) == 0 {
			continue
		}
		groups = append(groups, strokeGroup{
			id:      ch.DisplayName(),
			stroke:  ch.SVGColor(),
			opacity: colorOpacity,
			seq:     seq,
		})
	}
	return writeSVG(w, job, title, desc, groups)
}

// PaperScale returns the mm-per-pixel factor that fits the canvas of a
// width x height image inside the paper box.
func PaperScale(width, height int, paperW, paperH float64) float64 {
	sw := float64(width + 2*SVGMargin)
	sh := float64(height + 2*SVGMargin)
	return min(paperW/sw, paperH/sh)
}

func writeSVG(w io.Writer, job Job, title, desc string, groups []strokeGroup) error {
	l := job.Layout
	viewW := l.Width() + 2*SVGMargin
	viewH := l.Height() + 2*SVGMargin

	paperW, paperH := job.paper()
	scale := PaperScale(l.Width(), l.Height(), paperW, paperH)
	// Stroke width is in viewBox units, so divide out the scale to keep the
	// physical thread thickness.
	strokeWidth := fmt.Sprintf("%f", job.threadMM()/scale)

	pts := svgPoints(l)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startunit(int(float64(viewW)*scale), int(float64(viewH)*scale), "mm",
		fmt.Sprintf(`viewBox="0 0 %d %d"`, viewW, viewH))
	canvas.Title(title)
	canvas.Desc(desc)

	for _, g := range groups {
		canvas.Group(
			fmt.Sprintf(`id="%s"`, g.id),
			fmt.Sprintf(`stroke="%s"`, g.stroke),
			fmt.Sprintf(`stroke-width="%s"`, strokeWidth),
			fmt.Sprintf(`stroke-opacity="%s"`, g.opacity),
		)
		for i := 0; i+1 < len(g.seq); i++ {
			a, b := g.seq[i], g.seq[i+1]
			if !inRange(a, len(pts)) || !inRange(b, len(pts)) {
				continue
			}
			canvas.Line(pts[a].x, pts[a].y, pts[b].x, pts[b].y, fmt.Sprintf(`id="%d-%d"`, a, b))
		}
		canvas.Gend()
	}

	canvas.Group(`id="Nails"`, fmt.Sprintf(`fill="%s"`, nailFill), `stroke="none"`)
	for i, p := range pts {
		// svgo's Circle takes an integer radius; nails need a fractional one.
		fmt.Fprintf(canvas.Writer, "<circle id=\"nail-%d\" cx=\"%d\" cy=\"%d\" r=\"%s\">\n<title>Nail %d</title>\n</circle>\n",
			i, p.x, p.y, nailRadius, i)
	}
	canvas.Gend()
	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

type svgPoint struct{ x, y int }

// svgPoints truncates nail positions to whole pixels inside the margin.
func svgPoints(l *nails.Layout) []svgPoint {
	pts := make([]svgPoint, l.Count())
	for i := range pts {
		p := l.Nail(i)
		pts[i] = svgPoint{x: int(p.X) + SVGMargin, y: int(p.Y) + SVGMargin}
	}
	return pts
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
