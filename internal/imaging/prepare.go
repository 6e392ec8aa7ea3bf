package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/string-art-mcp/internal/field"
)

// MaxShortSide is the largest short side an image is processed at.
const MaxShortSide = 400

// Luminance weights used to reduce color to gray (ITU-R BT.601).
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// ProcessingSize returns the dimensions ResizeForProcessing produces for a
// width x height image: unchanged when the short side is at most
// MaxShortSide, otherwise scaled so the short side is MaxShortSide with each
// dimension truncated.
func ProcessingSize(width, height int) (int, int) {
	short := min(width, height)
	if short <= MaxShortSide {
		return width, height
	}
	scale := float64(MaxShortSide) / float64(short)
	return int(float64(width) * scale), int(float64(height) * scale)
}

// ResizeForProcessing caps the short side of img at MaxShortSide using
// bilinear resampling. Images that are already small enough are returned as
// they are.
func ResizeForProcessing(img image.Image) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	nw, nh := ProcessingSize(w, h)
	if nw == w && nh == h {
		return img
	}
	return imaging.Resize(img, nw, nh, imaging.Linear)
}

// PrepareGray converts img to a darkness field: luminance with BT.601
// weights, then darkness = (255 - gray) / 255. Transparent pixels are
// flattened onto white paper first, matching Separate.
func PrepareGray(img image.Image) (*field.Field, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	lum := effect.GrayscaleWithWeights(flatten(img), lumaR, lumaG, lumaB)
	f, err := field.FromGray(grayPlane(lum))
	if err != nil {
		return nil, fmt.Errorf("failed to build darkness field: %w", err)
	}
	return f, nil
}

// flatten composites img over an opaque white canvas of the same size.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	paper := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(paper, img, image.Pt(0, 0), 1.0)
}

// grayPlane keeps one channel of an opaque grayscale RGBA image, whose
// three color channels are equal.
func grayPlane(rgba *image.RGBA) *image.Gray {
	b := rgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.Gray{Y: rgba.RGBAAt(b.Min.X+x, b.Min.Y+y).R})
		}
	}
	return out
}

// CMYK is an ink separation with every component in [0, 255].
type CMYK struct {
	C, M, Y, K uint8
}

// Separate converts one color to CMYK ink amounts. Pure black is all key.
// Each component is truncated to 8 bits. Fully transparent pixels are
// treated as white paper.
func Separate(c color.Color) CMYK {
	rgb, ok := colorful.MakeColor(c)
	if !ok {
		return CMYK{}
	}

	k := 1.0 - max(rgb.R, rgb.G, rgb.B)
	if k >= 1.0 {
		return CMYK{K: 255}
	}

	cy := (1.0 - rgb.R - k) / (1.0 - k)
	mg := (1.0 - rgb.G - k) / (1.0 - k)
	ye := (1.0 - rgb.B - k) / (1.0 - k)
	return CMYK{
		C: uint8(cy * 255),
		M: uint8(mg * 255),
		Y: uint8(ye * 255),
		K: uint8(k * 255),
	}
}

// PrepareColor separates img into four darkness fields indexed cyan,
// magenta, yellow, black. A channel's darkness is its ink amount / 255.
func PrepareColor(img image.Image) ([4]*field.Field, error) {
	var out [4]*field.Field
	b := img.Bounds()
	if b.Empty() {
		return out, ErrEmptyImage
	}

	for i := range out {
		f, err := field.New(b.Dx(), b.Dy())
		if err != nil {
			return [4]*field.Field{}, fmt.Errorf("failed to allocate channel field: %w", err)
		}
		out[i] = f
	}

	c, m, y, k := out[0].Raw(), out[1].Raw(), out[2].Raw(), out[3].Raw()
	w := b.Dx()
	for py := 0; py < b.Dy(); py++ {
		for px := 0; px < w; px++ {
			ink := Separate(img.At(b.Min.X+px, b.Min.Y+py))
			idx := py*w + px
			c[idx] = float64(ink.C) / 255.0
			m[idx] = float64(ink.M) / 255.0
			y[idx] = float64(ink.Y) / 255.0
			k[idx] = float64(ink.K) / 255.0
		}
	}
	return out, nil
}

// Prepared is a source image ready for the engine.
type Prepared struct {
	// Width and Height are the processing dimensions; nail layouts must be
	// built for them.
	Width  int
	Height int

	// Darkness is set in grayscale mode.
	Darkness *field.Field

	// Channels is set in color mode, indexed cyan, magenta, yellow, black.
	Channels [4]*field.Field

	Color bool
}

// Prepare resizes img for processing and converts it to darkness fields.
func Prepare(img image.Image, colorMode bool) (*Prepared, error) {
	resized := ResizeForProcessing(img)
	p := &Prepared{
		Width:  resized.Bounds().Dx(),
		Height: resized.Bounds().Dy(),
		Color:  colorMode,
	}

	var err error
	if colorMode {
		p.Channels, err = PrepareColor(resized)
	} else {
		p.Darkness, err = PrepareGray(resized)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
