package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/string-art-mcp/internal/config"
	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/generate"
	"github.com/ironsheep/string-art-mcp/internal/imaging"
	"github.com/ironsheep/string-art-mcp/internal/nails"
	"github.com/ironsheep/string-art-mcp/internal/render"
)

var imageExts = []string{".png", ".jpg", ".jpeg", ".bmp"}

func main() {
	fs := flag.NewFlagSet("stringart", flag.ExitOnError)
	fs.Usage = func() { usage(fs) }

	def := config.Default()
	numNails := fs.Int("n", def.Nails, fmt.Sprintf("Number of nails (%d-%d)", config.MinNails, config.MaxNails))
	maxStrings := fs.Int("s", 0, "Maximum number of strings (0=unlimited)")
	output := fs.String("o", "", "Output filename base (parameters are appended); defaults to the input path")
	circular := fs.Bool("c", false, "Use circular layout (default)")
	rectangular := fs.Bool("r", false, "Use rectangular layout")
	contrast := fs.Float64("contrast", def.Contrast, "Contrast adjustment (0.0-2.0)")
	thread := fs.String("thread", def.Thread, "Thread thickness ("+strings.Join(config.ThreadSizes, ",")+")")
	strategy := fs.Int("coverage-strategy", 0, "Coverage strategy (0=default, 1=adaptive, 2=dynamic, 3=exploration)")
	colorMode := fs.Bool("color", false, "Generate color string art with CMYK separation")
	colorOrder := fs.String("color-order", engine.DefaultColorOrder, "Display order of the color channels, e.g. MYKC")
	sequential := fs.Bool("sequential", false, "Build the color channels one at a time instead of in parallel")
	perColor := fs.Int("strings-per-color", engine.DefaultStringsPerColor, fmt.Sprintf("Strings per color channel in color mode (max %d)", engine.MaxStringsPerColor))
	paperSize := fs.String("paper-size", fmt.Sprintf("%gx%g", config.DefaultPaperW, config.DefaultPaperH), "Paper size in mm (WxH, or A4, A3)")
	writePNG := fs.Bool("png", false, "Also write a PNG preview")
	writeJCode := fs.Bool("jcode", false, "Also write a pen-plotter JCode program")
	labelEvery := fs.Int("label-every", 10, "Label every nth nail in the PNG preview (0 = no labels)")
	plotHeight := fs.Float64("plot-height", render.DefaultJCodeOptions().Height, "The height of the plot in machine units")
	quiet := fs.Bool("q", false, "Do not print engine progress")

	// The input may come before or after the options.
	args := os.Args[1:]
	inputFile := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		inputFile, args = args[0], args[1:]
	}
	fs.Parse(args)
	if inputFile == "" {
		inputFile = fs.Arg(0)
	}

	if inputFile == "" {
		failf("Error: Image file needed\nUse -h for more information")
	}
	if _, err := os.Stat(inputFile); err != nil {
		failf("Error: Image could not be found: %s", inputFile)
	}
	if !isImage(inputFile) {
		failf("Error: Filename is not an image (png, jpg, jpeg, bmp): %s", inputFile)
	}
	if *circular && *rectangular {
		failf("Error: -c and -r cannot be combined")
	}

	st := config.Settings{
		Nails:           *numNails,
		MaxStrings:      *maxStrings,
		Layout:          nails.Circular,
		Contrast:        *contrast,
		Color:           *colorMode,
		ColorOrder:      strings.ToUpper(*colorOrder),
		StringsPerColor: *perColor,
		Sequential:      *sequential,
		Thread:          *thread,
	}
	if *rectangular {
		st.Layout = nails.Rectangular
	}
	var err error
	if st.Strategy, err = engine.ParseStrategy(*strategy); err != nil {
		failf("Error: %v", err)
	}
	st.PaperWidth, st.PaperHeight, err = config.ParsePaperSize(*paperSize)
	if err != nil {
		failf("Error: %v", err)
	}
	if err := st.Validate(); err != nil {
		failf("Error: %v", err)
	}

	base := *output
	if base == "" {
		base = inputFile
	}
	base += st.Suffix()

	printSession(st, inputFile, base)

	img, err := imaging.NewImageCache().Load(inputFile)
	if err != nil {
		failf("Error: Cannot load image: %s\n%v", inputFile, err)
	}
	fmt.Printf("Image loaded successfully: %dx%d pixels\n\n", img.Bounds().Dx(), img.Bounds().Dy())

	logger := log.New(os.Stdout, "", 0)
	if *quiet {
		logger = log.New(io.Discard, "", 0)
	}

	fmt.Println("Processing...")
	if st.Color {
		fmt.Println("Color mode enabled - performing CMYK separation")
		fmt.Printf("Color mode: Generating %d strings per channel\n", engine.ClampStringsPerColor(st.StringsPerColor))
	} else if eff := st.EffectiveStrategy(); eff != st.Strategy {
		if st.MaxStrings == 0 {
			fmt.Printf("Note: Coverage strategy %d requires limited strings. Using default strategy 0 for unlimited strings.\n", int(st.Strategy))
		} else {
			fmt.Printf("Note: Using coverage strategy %d (%s) for limited strings instead of default strategy 0.\n", int(eff), eff)
		}
	}

	art, err := generate.FromImage(img, st, logger)
	if err != nil {
		failf("Error: %v", err)
	}

	if err := saveFile(base+".txt", func(w io.Writer) error { return art.WriteInstructions(w, inputFile) }); err != nil {
		failf("Error: could not save text instructions: %v", err)
	}
	fmt.Printf("[+] Text instructions saved to: %s.txt\n", base)

	if err := saveFile(base+".svg", func(w io.Writer) error { return art.WriteSVG(w, inputFile) }); err != nil {
		failf("Error: could not save SVG: %v", err)
	}
	fmt.Printf("[+] SVG diagram saved to: %s.svg\n", base)

	if *writePNG {
		preview, _, err := render.Render(art.Layout, art.Threads(), render.PreviewOptions{ShowNails: true, LabelEvery: *labelEvery})
		if err != nil {
			failf("Error: could not render preview: %v", err)
		}
		if err := saveImage(preview, base+".png"); err != nil {
			failf("Error: could not save preview: %v", err)
		}
		fmt.Printf("[+] Preview saved to: %s.png\n", base)
	}

	if *writeJCode {
		opts := render.DefaultJCodeOptions()
		opts.Height = *plotHeight
		if err := saveFile(base+".jcode", func(w io.Writer) error {
			return render.WriteJCode(w, art.Layout, art.Threads(), opts)
		}); err != nil {
			failf("Error: could not save JCode: %v", err)
		}
		fmt.Printf("[+] JCode saved to: %s.jcode\n", base)
	}

	printSummary(art)
}

func failf(f string, args ...any) {
	fmt.Printf(f+"\n", args...)
	os.Exit(1)
}

func isImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}

func saveFile(to string, write func(io.Writer) error) (err error) {
	outFile, err := os.Create(to)
	if err != nil {
		return errors.Join(errors.New("could not create output file"), err)
	}
	defer func() {
		if cerr := outFile.Close(); cerr != nil {
			err = errors.Join(err, errors.New("could not close output file"), cerr)
		}
	}()
	return write(outFile)
}

func saveImage(img image.Image, to string) error {
	return saveFile(to, func(w io.Writer) error { return png.Encode(w, img) })
}

func printSession(st config.Settings, input, base string) {
	fmt.Println("================== String Art Generator ==================")
	fmt.Println("Converting image to nail-and-string art instructions...")
	fmt.Println()
	fmt.Println("Session Details:")
	fmt.Printf("  Input image: %s\n", input)
	fmt.Printf("  Output files: %s.txt\n", base)
	fmt.Printf("                %s.svg\n", base)
	fmt.Printf("  Layout type: %s\n", layoutTitle(st.Layout))
	fmt.Printf("  Number of nails: %d\n", st.Nails)
	if st.MaxStrings > 0 {
		fmt.Printf("  Max strings: %d\n", st.MaxStrings)
	} else {
		fmt.Println("  Max strings: unlimited")
	}
	fmt.Printf("  Contrast factor: %g\n", st.Contrast)
	fmt.Printf("  Thread thickness: %s\n", st.Thread)
	fmt.Println()
}

func printSummary(art *generate.Artwork) {
	fmt.Println()
	if art.Color != nil {
		fmt.Println("=================== COLOR SUCCESS! ===================")
		fmt.Println("Color string art generation completed successfully!")
		fmt.Printf("Total nail connections: %d\n", art.Color.Total)
		for _, ch := range engine.Channels {
			fmt.Printf("  %s: %d strings\n", capitalize(ch.String()), len(art.Color.Sequence(ch)))
		}
		fmt.Println()
		fmt.Println("Files created successfully! You can now:")
		fmt.Println("* Open the .txt file for step-by-step CMYK instructions")
		fmt.Println("* View the .svg file in a web browser for colored thread visualization")
		return
	}

	fmt.Println("=================== SUCCESS! ===================")
	fmt.Println("String art generation completed successfully!")
	fmt.Printf("Total nail connections: %d\n", art.Connections())
	fmt.Printf("Stopped by: %s after %d iterations\n", art.Gray.Stop, art.Gray.Iterations)
	fmt.Println()
	fmt.Println("Files created successfully! You can now:")
	fmt.Println("* Open the .txt file for step-by-step instructions")
	fmt.Println("* View the .svg file in a web browser for visualization")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func layoutTitle(k nails.Kind) string {
	if k == nails.Rectangular {
		return "Rectangular"
	}
	return "Circular"
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "String Art Generator - Convert images to nail-and-string art instructions")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: stringart <image_file> [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Output files are named after the input with every parameter appended:")
	fmt.Fprintln(out, "  Grayscale: image.png-n400-s2000-c-0.8-t0.2-cs1.txt")
	fmt.Fprintln(out, "  Color:     image.png-n400-s0-c-0.8-t0.1-spc2500-CMYK.txt")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  stringart image.png -n 400 -s 2000")
	fmt.Fprintln(out, "  stringart photo.png -color -color-order MYKC -strings-per-color 1500")
	fmt.Fprintln(out, "  stringart portrait.png -color -png -jcode")
}
