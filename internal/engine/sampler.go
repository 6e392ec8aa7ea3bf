package engine

import (
	"image"
	"math"

	"github.com/ironsheep/string-art-mcp/internal/nails"
)

const (
	// ScoreDensity is the samples-per-pixel multiplier used when scoring.
	ScoreDensity = 1.2

	// MarkDensity is the samples-per-pixel multiplier used when marking
	// coverage. It is denser than scoring so marked lines have no gaps.
	MarkDensity = 1.5

	// minSegmentLength is the shortest segment that produces any samples.
	minSegmentLength = 1.0
)

// sampleCount returns how many evenly spaced samples a segment of the given
// length gets, or 0 when the segment is too short to be a line.
func sampleCount(length, density float64) int {
	if length < minSegmentLength {
		return 0
	}
	return max(2, int(math.Round(length*density)))
}

// forEachSample calls fn with the row-major pixel index of every in-bounds
// sample along a->b. Samples are t = i/(n-1) for i in [0, n), truncated
// toward zero; out-of-bounds samples are skipped. It returns the number of
// in-bounds samples visited.
func forEachSample(a, b nails.Point, density float64, width, height int, fn func(idx int)) int {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(float64(dx*dx) + float64(dy*dy))

	n := sampleCount(length, density)
	if n == 0 {
		return 0
	}

	visited := 0
	last := float64(n - 1)
	for i := 0; i < n; i++ {
		t := float64(i) / last
		fx := a.X + float64(t*dx)
		fy := a.Y + float64(t*dy)
		// Truncation, not floor: values in (-1, 0) land on pixel 0.
		x := int(fx)
		y := int(fy)
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		fn(y*width + x)
		visited++
	}
	return visited
}

// SampleLine returns the in-bounds pixel samples along a->b for a field of
// the given size, in order from a to b. Duplicate pixels are kept: a pixel
// sampled twice is scored and marked twice.
func SampleLine(a, b nails.Point, density float64, width, height int) []image.Point {
	var pts []image.Point
	forEachSample(a, b, density, width, height, func(idx int) {
		pts = append(pts, image.Point{X: idx % width, Y: idx / width})
	})
	return pts
}
