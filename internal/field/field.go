// Package field provides the scalar pixel grids the string-art engine works on.
//
// A Field is a width x height grid of float64 values stored row-major in a
// gonum dense matrix (rows = y, columns = x). The same type backs both the
// read-only darkness field an image is turned into and the mutable coverage
// field a single path-build run accumulates thread density in.
package field

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyField is returned when a field would have no pixels.
var ErrEmptyField = errors.New("field dimensions must be positive")

// Field is a width x height grid of scalar values.
type Field struct {
	width  int
	height int
	m      *mat.Dense
}

// New returns a zero-filled field.
func New(width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyField, width, height)
	}
	return &Field{
		width:  width,
		height: height,
		m:      mat.NewDense(height, width, nil),
	}, nil
}

// FromValues wraps a row-major slice of width*height values. The slice is
// copied, so later changes to values do not affect the field.
func FromValues(width, height int, values []float64) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyField, width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("field needs %d values for %dx%d, got %d", width*height, width, height, len(values))
	}
	data := make([]float64, len(values))
	copy(data, values)
	return &Field{
		width:  width,
		height: height,
		m:      mat.NewDense(height, width, data),
	}, nil
}

// Uniform returns a field with every pixel set to v.
func Uniform(width, height int, v float64) (*Field, error) {
	f, err := New(width, height)
	if err != nil {
		return nil, err
	}
	f.Fill(v)
	return f, nil
}

// FromGray converts an 8-bit grayscale image into a darkness field where
// black is 1 and white is 0: darkness = (255 - gray) / 255.
func FromGray(img *image.Gray) (*Field, error) {
	b := img.Bounds()
	f, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	data := f.Raw()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			data[y*f.width+x] = (255.0 - float64(g)) / 255.0
		}
	}
	return f, nil
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// At returns the value at (x, y). It panics outside the field.
func (f *Field) At(x, y int) float64 { return f.m.At(y, x) }

// Fill sets every pixel to v.
func (f *Field) Fill(v float64) {
	data := f.Raw()
	for i := range data {
		data[i] = v
	}
}

// Raw exposes the row-major backing slice; index = y*Width() + x.
// Hot loops in the engine read and write through it directly.
func (f *Field) Raw() []float64 {
	return f.m.RawMatrix().Data
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := mat.DenseCopyOf(f.m)
	return &Field{width: f.width, height: f.height, m: c}
}

// SameSize reports whether g has the same dimensions as f.
func (f *Field) SameSize(g *Field) bool {
	return g != nil && f.width == g.width && f.height == g.height
}

// Stats summarizes the distribution of values in a field.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// NonZero is the fraction of pixels with a value above zero.
	NonZero float64 `json:"non_zero"`
}

// Stats computes summary statistics over all pixels.
func (f *Field) Stats() Stats {
	data := f.Raw()
	mean, std := stat.MeanStdDev(data, nil)
	nonZero := 0
	for _, v := range data {
		if v > 0 {
			nonZero++
		}
	}
	return Stats{
		Mean:    mean,
		StdDev:  std,
		Min:     floats.Min(data),
		Max:     floats.Max(data),
		NonZero: float64(nonZero) / float64(len(data)),
	}
}
