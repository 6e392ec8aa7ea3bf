// Package config holds the validated settings of one string-art generation.
//
// Both the MCP server and the stringart command fill a Settings from their
// own inputs, call Validate, and hand it to the engine and renderers. The
// caller-side strategy remap and the descriptive output filename suffix live
// here so the two surfaces stay in step.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

// Defaults and limits.
const (
	DefaultNails    = 400
	MinNails        = 50
	MaxNails        = 1000
	MaxDimension    = 4096
	DefaultThread   = "0.1mm"
	DefaultPaperW   = 609.6
	DefaultPaperH   = 914.4
	LogLevelEnvVar  = "STRING_ART_LOG_LEVEL"
	debugLogLevel   = "debug"
	threadUnit      = "mm"
	paperSeparators = "xX"
)

// ThreadSizes lists the accepted thread thicknesses.
var ThreadSizes = []string{"0.1mm", "0.2mm", "0.3mm", "0.5mm"}

// PaperPresets maps paper names to their size in millimeters.
var PaperPresets = map[string][2]float64{
	"default": {DefaultPaperW, DefaultPaperH},
	"a4":      {210, 297},
	"a3":      {297, 420},
}

// Settings is one generation request.
type Settings struct {
	Nails      int        `json:"nails"`
	MaxStrings int        `json:"max_strings"`
	Layout     nails.Kind `json:"layout"`
	Contrast   float64    `json:"contrast"`

	// Strategy is the requested coverage strategy. See EffectiveStrategy.
	Strategy engine.Strategy `json:"strategy"`

	Color           bool   `json:"color"`
	ColorOrder      string `json:"color_order"`
	StringsPerColor int    `json:"strings_per_color"`

	// Sequential builds the color channels one at a time.
	Sequential bool `json:"sequential"`

	// Thread is the thread thickness, one of ThreadSizes.
	Thread string `json:"thread"`

	// PaperWidth and PaperHeight are the physical SVG size limits in mm.
	PaperWidth  float64 `json:"paper_width"`
	PaperHeight float64 `json:"paper_height"`
}

// Default returns the settings used when nothing is specified: 400 circular
// nails, unbounded strings, contrast 0.5, grayscale, 0.1mm thread on
// 609.6x914.4mm paper.
func Default() Settings {
	return Settings{
		Nails:           DefaultNails,
		Layout:          nails.Circular,
		Contrast:        engine.DefaultContrast,
		Strategy:        engine.Default,
		ColorOrder:      engine.DefaultColorOrder,
		StringsPerColor: engine.DefaultStringsPerColor,
		Thread:          DefaultThread,
		PaperWidth:      DefaultPaperW,
		PaperHeight:     DefaultPaperH,
	}
}

// Validate checks every field and reports all problems at once.
func (s Settings) Validate() error {
	var errs []error
	if s.Nails < MinNails || s.Nails > MaxNails {
		errs = append(errs, fmt.Errorf("number of nails must be between %d and %d, got %d", MinNails, MaxNails, s.Nails))
	}
	if s.MaxStrings < 0 {
		errs = append(errs, fmt.Errorf("max strings must be 0 (unlimited) or positive, got %d", s.MaxStrings))
	}
	if s.Layout != nails.Circular && s.Layout != nails.Rectangular {
		errs = append(errs, fmt.Errorf("unknown layout %d", int(s.Layout)))
	}
	if s.Contrast < 0 || s.Contrast > engine.MaxContrast {
		errs = append(errs, fmt.Errorf("contrast factor must be between 0.0 and %.1f, got %g", engine.MaxContrast, s.Contrast))
	}
	if !s.Strategy.Valid() {
		errs = append(errs, fmt.Errorf("coverage strategy must be 0-3, got %d", int(s.Strategy)))
	}
	if _, err := engine.ParseColorOrder(s.ColorOrder); err != nil {
		errs = append(errs, err)
	}
	if s.StringsPerColor < 1 || s.StringsPerColor > engine.MaxStringsPerColor {
		errs = append(errs, fmt.Errorf("strings per color must be between 1 and %d, got %d", engine.MaxStringsPerColor, s.StringsPerColor))
	}
	if _, err := ThreadMM(s.Thread); err != nil {
		errs = append(errs, err)
	}
	if s.PaperWidth <= 0 || s.PaperHeight <= 0 {
		errs = append(errs, fmt.Errorf("paper size must be positive, got %gx%g", s.PaperWidth, s.PaperHeight))
	}
	return errors.Join(errs...)
}

// EffectiveStrategy is the strategy a grayscale run actually uses: unbounded
// runs always use Default, and bounded runs that asked for Default get
// Adaptive.
func (s Settings) EffectiveStrategy() engine.Strategy {
	return engine.ResolveStrategy(s.Strategy, s.MaxStrings)
}

// Order returns the parsed display order, falling back to CMYK when
// ColorOrder is invalid.
func (s Settings) Order() []engine.Channel {
	order, err := engine.ParseColorOrder(s.ColorOrder)
	if err != nil {
		return engine.Channels[:]
	}
	return order
}

// Suffix builds the descriptive filename suffix, e.g.
// "-n400-s2000-c-0.8-t0.2-cs1" or "-n400-s0-c-0.8-t0.1-spc2500-CMYK".
func (s Settings) Suffix() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-n%d-s%d", s.Nails, s.MaxStrings)
	if s.Layout == nails.Rectangular {
		b.WriteString("-r")
	} else {
		b.WriteString("-c")
	}
	fmt.Fprintf(&b, "-%.1f-t%s", s.Contrast, strings.TrimSuffix(s.Thread, threadUnit))
	if s.Color {
		fmt.Fprintf(&b, "-spc%d-%s", s.StringsPerColor, engine.FormatColorOrder(s.Order()))
	} else {
		fmt.Fprintf(&b, "-cs%d", int(s.EffectiveStrategy()))
	}
	return b.String()
}

// ThreadMM converts a thread size such as "0.2mm" to millimeters.
func ThreadMM(thread string) (float64, error) {
	for _, t := range ThreadSizes {
		if t == thread {
			return strconv.ParseFloat(strings.TrimSuffix(t, threadUnit), 64)
		}
	}
	return 0, fmt.Errorf("thread thickness must be one of %s, got %q", strings.Join(ThreadSizes, ", "), thread)
}

// ParsePaperSize accepts "WxH" in millimeters ("609.6x914.4") or a preset
// name ("A4", "A3", "default").
func ParsePaperSize(s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	if p, ok := PaperPresets[strings.ToLower(s)]; ok {
		return p[0], p[1], nil
	}

	idx := strings.IndexAny(s, paperSeparators)
	if idx <= 0 || idx == len(s)-1 {
		return 0, 0, fmt.Errorf("paper size must look like 609.6x914.4, got %q", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSuffix(s[:idx], threadUnit), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid paper width %q: %w", s[:idx], err)
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(s[idx+1:], threadUnit), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid paper height %q: %w", s[idx+1:], err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("paper size must be positive, got %gx%g", w, h)
	}
	return w, h, nil
}

// DebugEnabled reports whether STRING_ART_LOG_LEVEL asks for debug logging.
func DebugEnabled() bool {
	return strings.EqualFold(os.Getenv(LogLevelEnvVar), debugLogLevel)
}
