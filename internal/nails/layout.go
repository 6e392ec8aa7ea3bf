// Package nails generates the nail positions a thread is strung between.
//
// A Layout is an ordered list of 2D coordinates in pixel space. The index of a
// nail is its ID, and nail 0 is always where a thread path starts. Layouts are
// a pure function of (kind, width, height, count), so renderers can rebuild
// exactly the same coordinates the engine used from those four values alone.
//
// # Coordinate System
//
// Coordinates follow the image convention used throughout the module:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package nails

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects how nails are arranged around the image.
type Kind int

const (
	// Circular places nails evenly on a circle centered on the image.
	Circular Kind = iota
	// Rectangular distributes nails along the four sides of the image.
	Rectangular
)

const (
	// CircleInset is the distance between the circle and the short image side.
	CircleInset = 10.0

	// RectMargin is the inset of the rectangular frame from every image edge.
	RectMargin = 15
)

// String returns the lower-case name of the layout kind.
func (k Kind) String() string {
	switch k {
	case Circular:
		return "circular"
	case Rectangular:
		return "rectangular"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Shape returns the noun used in build instructions ("circle" or "rectangle").
func (k Kind) Shape() string {
	if k == Rectangular {
		return "rectangle"
	}
	return "circle"
}

// ParseKind accepts "circular", "c", "rectangular" or "r" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circular", "circle", "c", "":
		return Circular, nil
	case "rectangular", "rectangle", "rect", "r":
		return Rectangular, nil
	default:
		return Circular, fmt.Errorf("unknown layout: %q (want circular or rectangular)", s)
	}
}

// Point is a nail position in sub-pixel precision.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is an immutable, ordered set of nail positions for one image size.
type Layout struct {
	kind      Kind
	width     int
	height    int
	requested int
	radius    float64
	points    []Point
}

// New builds a layout of the given kind. See NewCircular and NewRectangular.
func New(kind Kind, width, height, count int) *Layout {
	if kind == Rectangular {
		return NewRectangular(width, height, count)
	}
	return NewCircular(width, height, count)
}

// NewCircular places count nails on a circle of radius min(width,height)/2-10
// centered at (width/2, height/2). Nail i sits at angle 2*pi*i/count,
// measured clockwise from the positive X axis in image coordinates.
func NewCircular(width, height, count int) *Layout {
	centerX := float64(width / 2)
	centerY := float64(height / 2)
	radius := float64(min(width, height))/2.0 - CircleInset

	points := make([]Point, 0, max(count, 0))
	for i := 0; i < count; i++ {
		angle := 2.0 * math.Pi * float64(i) / float64(count)
		// Explicit conversions stop the compiler from fusing into FMA, which
		// would make coordinates differ between architectures.
		points = append(points, Point{
			X: centerX + float64(radius*math.Cos(angle)),
			Y: centerY + float64(radius*math.Sin(angle)),
		})
	}

	return &Layout{
		kind:      Circular,
		width:     width,
		height:    height,
		requested: count,
		radius:    radius,
		points:    points,
	}
}

// NewRectangular distributes count/4 nails per side, walking top (left to
// right), right (top to bottom), bottom (right to left) and left (bottom to
// top). Adjacent sides share their corner nail, so the layout holds
// 4*(count/4)-4 nails when count >= 8. The remainder of count/4 is dropped and
// callers must cope with Count() < count.
func NewRectangular(width, height, count int) *Layout {
	perSide := count / 4
	margin := float64(RectMargin)
	step := float64(max(1, perSide-1))
	spanX := float64(width - 2*RectMargin)
	spanY := float64(height - 2*RectMargin)
	right := float64(width - RectMargin)
	bottom := float64(height - RectMargin)

	points := make([]Point, 0, max(count, 0))
	add := func(x, y float64) {
		if len(points) < count {
			points = append(points, Point{X: x, Y: y})
		}
	}

	for i := 0; i < perSide; i++ {
		add(margin+float64(i)*spanX/step, margin)
	}
	for i := 1; i < perSide; i++ {
		add(right, margin+float64(i)*spanY/step)
	}
	for i := perSide - 2; i >= 0; i-- {
		add(margin+float64(i)*spanX/step, bottom)
	}
	for i := perSide - 2; i > 0; i-- {
		add(margin, margin+float64(i)*spanY/step)
	}

	return &Layout{
		kind:      Rectangular,
		width:     width,
		height:    height,
		requested: count,
		points:    points,
	}
}

// Kind returns the layout kind.
func (l *Layout) Kind() Kind { return l.kind }

// Width returns the image width the layout was built for.
func (l *Layout) Width() int { return l.width }

// Height returns the image height the layout was built for.
func (l *Layout) Height() int { return l.height }

// Requested returns the nail count asked for, which may exceed Count.
func (l *Layout) Requested() int { return l.requested }

// Count returns the number of nails actually placed.
func (l *Layout) Count() int { return len(l.points) }

// Radius returns the circle radius for circular layouts and 0 otherwise.
func (l *Layout) Radius() float64 { return l.radius }

// Nail returns the position of nail i. It panics if i is out of range.
func (l *Layout) Nail(i int) Point { return l.points[i] }

// Points returns a copy of all nail positions in index order.
func (l *Layout) Points() []Point {
	out := make([]Point, len(l.points))
	copy(out, l.points)
	return out
}

// Distance returns the Euclidean distance between nails a and b.
func (l *Layout) Distance(a, b int) float64 {
	dx := l.points[b].X - l.points[a].X
	dy := l.points[b].Y - l.points[a].Y
	return math.Sqrt(float64(dx*dx) + float64(dy*dy))
}
