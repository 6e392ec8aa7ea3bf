package engine

import (
	"fmt"
	"log"
	"sync"

	"github.com/ironsheep/string-art-mcp/internal/field"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

const (
	// DefaultStringsPerColor is the per-channel cap used when none is set.
	DefaultStringsPerColor = 2500
	// MaxStringsPerColor is the largest accepted per-channel cap.
	MaxStringsPerColor = 2500
)

// ColorOptions configures BuildColor.
type ColorOptions struct {
	// StringsPerColor caps each channel's sequence. Values <= 0 select
	// DefaultStringsPerColor; larger values are clamped to MaxStringsPerColor.
	StringsPerColor int

	Contrast float64
	Logger   *log.Logger

	// Sequential runs the channels one after another on the calling
	// goroutine instead of concurrently.
	Sequential bool
}

// ColorSequences holds one sequence per CMYK channel.
type ColorSequences struct {
	Cyan    []int `json:"cyan"`
	Magenta []int `json:"magenta"`
	Yellow  []int `json:"yellow"`
	Black   []int `json:"black"`

	// Total is the sum of the four sequence lengths.
	Total int `json:"total"`

	// Stops records why each channel's run ended, indexed by Channel.
	Stops [4]StopReason `json:"-"`
}

// Sequence returns the sequence of one channel.
func (cs *ColorSequences) Sequence(ch Channel) []int {
	switch ch {
	case Cyan:
		return cs.Cyan
	case Magenta:
		return cs.Magenta
	case Yellow:
		return cs.Yellow
	case Black:
		return cs.Black
	default:
		return nil
	}
}

// Empty reports whether no channel produced a sequence.
func (cs *ColorSequences) Empty() bool {
	return cs.Total == 0
}

func (cs *ColorSequences) set(ch Channel, seq []int) {
	switch ch {
	case Cyan:
		cs.Cyan = seq
	case Magenta:
		cs.Magenta = seq
	case Yellow:
		cs.Yellow = seq
	case Black:
		cs.Black = seq
	}
}

// ClampStringsPerColor applies the per-channel cap policy.
func ClampStringsPerColor(n int) int {
	if n <= 0 {
		return DefaultStringsPerColor
	}
	return min(n, MaxStringsPerColor)
}

// BuildColor runs the Default strategy once per channel, each run with its
// own coverage field. channels is indexed by Channel. A nil channel means the
// source was not prepared in color mode: the returned bundle is empty and the
// error wraps ErrNotColorPrepared.
func BuildColor(channels [4]*field.Field, layout *nails.Layout, opts ColorOptions) (*ColorSequences, error) {
	out := &ColorSequences{}
	for _, ch := range Channels {
		if channels[ch] == nil {
			return out, fmt.Errorf("%w: missing %s channel", ErrNotColorPrepared, ch)
		}
		if !channels[ch].SameSize(channels[Cyan]) {
			return out, fmt.Errorf("%w: %s is %dx%d, cyan is %dx%d", ErrFieldMismatch, ch,
				channels[ch].Width(), channels[ch].Height(), channels[Cyan].Width(), channels[Cyan].Height())
		}
	}

	base := Options{
		MaxStrings: ClampStringsPerColor(opts.StringsPerColor),
		Strategy:   Default,
		Contrast:   opts.Contrast,
		Logger:     opts.Logger,
	}
	if err := validate(channels[Cyan], layout, base); err != nil {
		return out, err
	}

	var results [4]*Result
	var errs [4]error
	runChannel := func(ch Channel) {
		if base.Logger != nil {
			base.Logger.Printf("Generating %s strings (max %d)", ch.DisplayName(), base.MaxStrings)
		}
		results[ch], errs[ch] = Build(channels[ch], layout, base)
	}

	if opts.Sequential {
		for _, ch := range Channels {
			runChannel(ch)
		}
	} else {
		var wg sync.WaitGroup
		for _, ch := range Channels {
			wg.Add(1)
			go func(ch Channel) {
				defer wg.Done()
				runChannel(ch)
			}(ch)
		}
		wg.Wait()
	}

	for _, ch := range Channels {
		if errs[ch] != nil {
			return &ColorSequences{}, fmt.Errorf("failed to build %s channel: %w", ch, errs[ch])
		}
		out.set(ch, results[ch].Sequence)
		out.Stops[ch] = results[ch].Stop
		out.Total += len(results[ch].Sequence)
	}
	return out, nil
}
