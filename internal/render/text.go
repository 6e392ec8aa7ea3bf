package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/string-art-mcp/internal/engine"
)

// TimestampFormat is how the text header prints the generation time.
const TimestampFormat = "2006-01-02 15:04:05"

// sequenceRow is how many nail indices the listing prints per line.
const sequenceRow = 20

var errNoLayout = errors.New("render job has no layout")

// WriteInstructions writes the grayscale nail connection listing.
func WriteInstructions(w io.Writer, seq []int, job Job) error {
	if job.Layout == nil {
		return errNoLayout
	}
	n := job.Layout.Count()

	var b bytes.Buffer
	header(&b, "String Art Generator - Nail Connection List")
	fmt.Fprintf(&b, "Generated: %s\n", job.generated().Format(TimestampFormat))
	fmt.Fprintf(&b, "Input image: %s\n", job.Input)
	fmt.Fprintf(&b, "Layout: %s\n", layoutName(job.Layout))
	fmt.Fprintf(&b, "Total nails: %d\n", n)
	fmt.Fprintf(&b, "Number of connections: %d\n", len(seq))
	fmt.Fprintf(&b, "Contrast factor: %g\n", job.Contrast)
	fmt.Fprintf(&b, "Thread thickness: %s\n", job.thread())
	b.WriteString("\n")

	b.WriteString("Nail sequence (follow this order to create string art):\n")
	writeSequence(&b, seq)
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "1. Arrange %d nails in a %s\n", n, job.Layout.Kind().Shape())
	fmt.Fprintf(&b, "2. Number them 0 to %d going clockwise\n", n-1)
	b.WriteString("3. Connect the nails with BLACK thread in the sequence shown above\n")
	b.WriteString("4. Pull thread tight between each connection\n")
	b.WriteString("5. Use OPAQUE thread - threads are NOT transparent!\n")

	_, err := w.Write(b.Bytes())
	return err
}

// WriteColorInstructions writes the CMYK listing. Channels appear in the
// job's display order; channels with an empty sequence are left out.
func WriteColorInstructions(w io.Writer, cs *engine.ColorSequences, job Job) error {
	if job.Layout == nil {
		return errNoLayout
	}
	if cs == nil {
		return errors.New("no color sequences to render")
	}
	n := job.Layout.Count()
	order := job.order()
	orderText := engine.FormatColorOrder(order)

	var b bytes.Buffer
	header(&b, "Color String Art Generator - CMYK Nail Connection Instructions")
	fmt.Fprintf(&b, "Generated: %s\n", job.generated().Format(TimestampFormat))
	fmt.Fprintf(&b, "Input image: %s\n", job.Input)
	b.WriteString("Mode: Color (CMYK separation)\n")
	fmt.Fprintf(&b, "Layout: %s\n", layoutName(job.Layout))
	fmt.Fprintf(&b, "Total nails: %d\n", n)
	fmt.Fprintf(&b, "Strings per color: %d\n", job.StringsPerColor)
	fmt.Fprintf(&b, "Color order: %s\n", orderText)
	fmt.Fprintf(&b, "Total connections: %d\n", cs.Total)
	for _, ch := range engine.Channels {
		fmt.Fprintf(&b, "  - %s: %d strings\n", label(ch), len(cs.Sequence(ch)))
	}
	fmt.Fprintf(&b, "Contrast factor: %g\n", job.Contrast)
	fmt.Fprintf(&b, "Thread thickness: %s\n", job.thread())
	b.WriteString("\n")

	b.WriteString("Color String Art Instructions:\n")
	fmt.Fprintf(&b, "1. Arrange %d nails in a %s\n", n, job.Layout.Kind().Shape())
	fmt.Fprintf(&b, "2. Number them 0 to %d going clockwise\n", n-1)
	b.WriteString("3. You will need FOUR different colored threads: CYAN, MAGENTA, YELLOW, BLACK\n")
	fmt.Fprintf(&b, "4. Follow each color sequence in the specified order (%s)\n", orderText)
	b.WriteString("5. Pull thread tight between each connection\n")
	b.WriteString("6. Use OPAQUE threads - threads are NOT transparent!\n")
	b.WriteString("\n")

	for _, ch := range order {
		seq := cs.Sequence(ch)
		if len(seq) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s Thread Sequence (%d connections):\n", ch.DisplayName(), len(seq))
		writeSequence(&b, seq)
		b.WriteString("\n\n")
	}

	b.WriteString("Construction Tips:\n")
	fmt.Fprintf(&b, "* Follow the color order: %s\n", orderText)
	b.WriteString("* It's recommended to start with darker colors first\n")
	b.WriteString("* Each color contributes to the final image - all are important!\n")
	b.WriteString("* Use high-quality, opaque threads for best results\n")

	_, err := w.Write(b.Bytes())
	return err
}

func header(b *bytes.Buffer, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n")
}

// writeSequence prints comma-separated indices, breaking the line after
// every sequenceRow entries.
func writeSequence(b *bytes.Buffer, seq []int) {
	for i, nail := range seq {
		b.WriteString(strconv.Itoa(nail))
		if i < len(seq)-1 {
			b.WriteString(",")
		}
		if (i+1)%sequenceRow == 0 {
			b.WriteString("\n")
		}
	}
}

// label is the channel name with a capital first letter ("Cyan").
func label(ch engine.Channel) string {
	name := ch.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
