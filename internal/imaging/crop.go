package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a half-open pixel rectangle in source-image coordinates.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// IsZero reports whether r is the zero Region, which callers treat as "no crop".
func (r Region) IsZero() bool {
	return r == Region{}
}

// RegionNames lists the names CropNamed accepts.
var RegionNames = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// CropRegion narrows img to r before it is prepared. The result's bounds start
// at (0,0).
func CropRegion(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	x1, y1 := bounds.Min.X+r.X1, bounds.Min.Y+r.Y1
	x2, y2 := bounds.Min.X+r.X2, bounds.Min.Y+r.Y2

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Dx(), bounds.Dy())
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// NamedRegion resolves a region name against a width x height image.
// "center" is the middle half in each direction.
func NamedRegion(name string, w, h int) (Region, error) {
	midX := w / 2
	midY := h / 2

	switch name {
	case "top-left":
		return Region{0, 0, midX, midY}, nil
	case "top-right":
		return Region{midX, 0, w, midY}, nil
	case "bottom-left":
		return Region{0, midY, midX, h}, nil
	case "bottom-right":
		return Region{midX, midY, w, h}, nil
	case "top-half":
		return Region{0, 0, w, midY}, nil
	case "bottom-half":
		return Region{0, midY, w, h}, nil
	case "left-half":
		return Region{0, 0, midX, h}, nil
	case "right-half":
		return Region{midX, 0, w, h}, nil
	case "center":
		qW := w / 4
		qH := h / 4
		return Region{qW, qH, w - qW, h - qH}, nil
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}
}

// CropNamed crops img to one of the RegionNames.
func CropNamed(img image.Image, name string) (image.Image, error) {
	r, err := NamedRegion(name, img.Bounds().Dx(), img.Bounds().Dy())
	if err != nil {
		return nil, err
	}
	return CropRegion(img, r)
}
