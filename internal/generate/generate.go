// Package generate runs one complete string-art job: prepare the source
// image, lay out the nails, build the sequences and hand them to the
// renderers. The MCP server and the stringart command both go through it.
package generate

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/ironsheep/string-art-mcp/internal/config"
	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/field"
	"github.com/ironsheep/string-art-mcp/internal/imaging"
	"github.com/ironsheep/string-art-mcp/internal/nails"
	"github.com/ironsheep/string-art-mcp/internal/render"
)

// ErrNoConnections is returned when a color run produced no sequences.
var ErrNoConnections = errors.New("failed to generate color string art")

// Artwork is the outcome of one job.
type Artwork struct {
	Settings config.Settings
	Layout   *nails.Layout

	// Width and Height are the processing dimensions.
	Width  int
	Height int

	// Strategy is the strategy the grayscale run actually used.
	Strategy engine.Strategy

	// Exactly one of Gray and Color is set.
	Gray  *engine.Result
	Color *engine.ColorSequences

	// Darkness summarizes the prepared fields, keyed "gray" or by channel
	// name.
	Darkness map[string]field.Stats

	Generated time.Time
}

// FromImage prepares img and runs the engine with s. The settings must
// already be valid; they are validated again and the error returned as is.
func FromImage(img image.Image, s config.Settings, logger *log.Logger) (*Artwork, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	prep, err := imaging.Prepare(img, s.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	art := &Artwork{
		Settings:  s,
		Layout:    nails.New(s.Layout, prep.Width, prep.Height, s.Nails),
		Width:     prep.Width,
		Height:    prep.Height,
		Generated: time.Now(),
		Darkness:  darknessStats(prep),
	}
	if logger != nil {
		logger.Printf("Image prepared: %dx%d, %d nails placed", art.Width, art.Height, art.Layout.Count())
	}

	if s.Color {
		art.Strategy = engine.Default
		art.Color, err = engine.BuildColor(prep.Channels, art.Layout, engine.ColorOptions{
			StringsPerColor: s.StringsPerColor,
			Contrast:        s.Contrast,
			Logger:          logger,
			Sequential:      s.Sequential,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate color string art: %w", err)
		}
		if art.Color.Empty() {
			return nil, ErrNoConnections
		}
		return art, nil
	}

	art.Strategy = s.EffectiveStrategy()
	if logger != nil && art.Strategy != s.Strategy {
		logger.Printf("Using coverage strategy %d (%s) instead of %d", int(art.Strategy), art.Strategy, int(s.Strategy))
	}
	art.Gray, err = engine.Build(prep.Darkness, art.Layout, engine.Options{
		MaxStrings: s.MaxStrings,
		Strategy:   art.Strategy,
		Contrast:   s.Contrast,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate string art: %w", err)
	}
	return art, nil
}

func darknessStats(prep *imaging.Prepared) map[string]field.Stats {
	out := make(map[string]field.Stats, 4)
	if !prep.Color {
		out["gray"] = prep.Darkness.Stats()
		return out
	}
	for _, ch := range engine.Channels {
		if f := prep.Channels[ch]; f != nil {
			out[ch.String()] = f.Stats()
		}
	}
	return out
}

// Connections is the total sequence length.
func (a *Artwork) Connections() int {
	if a.Color != nil {
		return a.Color.Total
	}
	if a.Gray != nil {
		return len(a.Gray.Sequence)
	}
	return 0
}

// Job returns the renderer header data for input.
func (a *Artwork) Job(input string) render.Job {
	threadMM, _ := config.ThreadMM(a.Settings.Thread)
	return render.Job{
		Input:           input,
		Generated:       a.Generated,
		Layout:          a.Layout,
		Contrast:        a.Settings.Contrast,
		Thread:          a.Settings.Thread,
		ThreadMM:        threadMM,
		Order:           a.Settings.Order(),
		StringsPerColor: engine.ClampStringsPerColor(a.Settings.StringsPerColor),
		PaperWidth:      a.Settings.PaperWidth,
		PaperHeight:     a.Settings.PaperHeight,
	}
}

// Threads returns the sequences as preview/plotter threads.
func (a *Artwork) Threads() []render.Thread {
	if a.Color != nil {
		return render.ColorThreads(a.Color, a.Settings.Order())
	}
	return render.GrayThreads(a.Gray.Sequence)
}

// WriteInstructions writes the text listing for the artwork.
func (a *Artwork) WriteInstructions(w io.Writer, input string) error {
	if a.Color != nil {
		return render.WriteColorInstructions(w, a.Color, a.Job(input))
	}
	return render.WriteInstructions(w, a.Gray.Sequence, a.Job(input))
}

// WriteSVG writes the diagram for the artwork.
func (a *Artwork) WriteSVG(w io.Writer, input string) error {
	if a.Color != nil {
		return render.WriteColorSVG(w, a.Color, a.Job(input))
	}
	return render.WriteSVG(w, a.Gray.Sequence, a.Job(input))
}
