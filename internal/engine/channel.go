package engine

import (
	"fmt"
	"strings"
)

// Channel is one of the four CMYK thread colors.
type Channel int

const (
	Cyan Channel = iota
	Magenta
	Yellow
	Black
)

// Channels lists every channel in execution order.
var Channels = [4]Channel{Cyan, Magenta, Yellow, Black}

// DefaultColorOrder is the display order used when none is configured.
const DefaultColorOrder = "CMYK"

var channelInfo = [4]struct {
	letter  byte
	name    string
	display string
	svg     string
}{
	Cyan:    {'C', "cyan", "CYAN", "cyan"},
	Magenta: {'M', "magenta", "MAGENTA", "magenta"},
	Yellow:  {'Y', "yellow", "YELLOW", "gold"},
	Black:   {'K', "black", "BLACK", "black"},
}

func (c Channel) valid() bool { return c >= Cyan && c <= Black }

// Letter returns the single-letter channel code (C, M, Y or K).
func (c Channel) Letter() string {
	if !c.valid() {
		return "?"
	}
	return string(channelInfo[c].letter)
}

// String returns the lower-case channel name.
func (c Channel) String() string {
	if !c.valid() {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelInfo[c].name
}

// DisplayName returns the upper-case name used in instructions and SVG groups.
func (c Channel) DisplayName() string {
	if !c.valid() {
		return strings.ToUpper(c.String())
	}
	return channelInfo[c].display
}

// SVGColor returns the stroke color used when drawing the channel. Yellow is
// drawn as gold so it stays visible on white paper.
func (c Channel) SVGColor() string {
	if !c.valid() {
		return "black"
	}
	return channelInfo[c].svg
}

// ParseColorOrder validates a display order such as "CMYK" or "kymc". The
// order must name each of C, M, Y and K exactly once.
func ParseColorOrder(s string) ([]Channel, error) {
	order := strings.ToUpper(strings.TrimSpace(s))
	if len(order) != 4 {
		return nil, fmt.Errorf("color order must be 4 letters from C, M, Y, K, got %q", s)
	}

	seen := make(map[Channel]bool, 4)
	out := make([]Channel, 0, 4)
	for i := 0; i < len(order); i++ {
		ch, ok := channelFromLetter(order[i])
		if !ok {
			return nil, fmt.Errorf("invalid color %q in order %q (use C, M, Y, K)", order[i], s)
		}
		if seen[ch] {
			return nil, fmt.Errorf("color %q appears twice in order %q", order[i], s)
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return out, nil
}

// FormatColorOrder is the inverse of ParseColorOrder.
func FormatColorOrder(order []Channel) string {
	var b strings.Builder
	for _, ch := range order {
		b.WriteString(ch.Letter())
	}
	return b.String()
}

func channelFromLetter(l byte) (Channel, bool) {
	for _, ch := range Channels {
		if channelInfo[ch].letter == l {
			return ch, true
		}
	}
	return Cyan, false
}
