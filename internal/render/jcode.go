package render

import (
	"fmt"
	"io"
	"time"

	"github.com/JoshPattman/jcode"

	"github.com/ironsheep/string-art-mcp/internal/nails"
)

// JCodeOptions places the plot on the machine.
type JCodeOptions struct {
	// Height is the plotted height of the image in machine units.
	Height float64
	// YStart is the Y position of the bottom of the image.
	YStart float64
	// Speed is the toolhead speed in units/s.
	Speed float64
	// PathDelay is how long to wait after lowering and before raising the pen.
	PathDelay time.Duration
}

// DefaultJCodeOptions matches a small desktop plotter.
func DefaultJCodeOptions() JCodeOptions {
	return JCodeOptions{
		Height:    8.0,
		YStart:    8.0,
		Speed:     5.0,
		PathDelay: time.Second,
	}
}

// JCode traces every thread as one continuous pen-down path. The image is
// centered on X=0 and flipped so nail Y grows upward.
func JCode(layout *nails.Layout, threads []Thread, opts JCodeOptions) ([]jcode.Instruction, error) {
	if layout == nil {
		return nil, errNoLayout
	}
	if opts.Height <= 0 || opts.Speed <= 0 {
		return nil, fmt.Errorf("plot height and speed must be positive, got %g and %g", opts.Height, opts.Speed)
	}

	h := float64(layout.Height())
	scaleFactor := opts.Height / h
	xOffset := -scaleFactor * float64(layout.Width()) / 2
	waypoint := func(p nails.Point) jcode.Waypoint {
		return jcode.Waypoint{
			XPos: p.X*scaleFactor + xOffset,
			YPos: (h-p.Y)*scaleFactor + opts.YStart,
		}
	}

	code := []jcode.Instruction{jcode.Speed{Speed: opts.Speed}}
	for _, th := range threads {
		penDown := false
		for _, nail := range th.Sequence {
			if !inRange(nail, layout.Count()) {
				continue
			}
			code = append(code, waypoint(layout.Nail(nail)))
			if !penDown {
				code = append(code, jcode.Delay{Duration: opts.PathDelay}, jcode.Pen{Mode: jcode.PenDown})
				penDown = true
			}
		}
		if penDown {
			code = append(code, jcode.Delay{Duration: opts.PathDelay}, jcode.Pen{Mode: jcode.PenUp})
		}
	}
	return code, nil
}

// WriteJCode encodes the program built by JCode.
func WriteJCode(w io.Writer, layout *nails.Layout, threads []Thread, opts JCodeOptions) error {
	code, err := JCode(layout, threads, opts)
	if err != nil {
		return err
	}
	if err := jcode.NewEncoder(w).Write(code...); err != nil {
		return fmt.Errorf("failed to encode jcode: %w", err)
	}
	return nil
}
