package render

import (
	"time"

	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

// Paper defaults in millimeters.
const (
	DefaultPaperWidth  = 609.6
	DefaultPaperHeight = 914.4
	DefaultThreadMM    = 0.1
	DefaultThread      = "0.1mm"
)

// Job describes one generation for the text and SVG headers.
type Job struct {
	// Input is the source image path as given by the user.
	Input string

	// Generated is printed in the text header. Zero means time.Now.
	Generated time.Time

	// Layout is the nail layout the sequences were built against.
	Layout *nails.Layout

	Contrast float64

	// Thread is the thread size label, e.g. "0.2mm". ThreadMM is its value;
	// zero selects DefaultThreadMM.
	Thread   string
	ThreadMM float64

	// Order is the color display order. Nil means CMYK.
	Order []engine.Channel

	// StringsPerColor is the per-channel cap of a color run.
	StringsPerColor int

	// PaperWidth and PaperHeight bound the SVG's physical size in mm. Zero
	// selects the 609.6x914.4 default.
	PaperWidth  float64
	PaperHeight float64
}

func (j Job) generated() time.Time {
	if j.Generated.IsZero() {
		return time.Now()
	}
	return j.Generated
}

func (j Job) thread() string {
	if j.Thread == "" {
		return DefaultThread
	}
	return j.Thread
}

func (j Job) threadMM() float64 {
	if j.ThreadMM <= 0 {
		return DefaultThreadMM
	}
	return j.ThreadMM
}

func (j Job) order() []engine.Channel {
	if len(j.Order) == 0 {
		return engine.Channels[:]
	}
	return j.Order
}

func (j Job) paper() (float64, float64) {
	w, h := j.PaperWidth, j.PaperHeight
	if w <= 0 || h <= 0 {
		return DefaultPaperWidth, DefaultPaperHeight
	}
	return w, h
}

func layoutName(l *nails.Layout) string {
	if l.Kind() == nails.Rectangular {
		return "Rectangular"
	}
	return "Circular"
}
