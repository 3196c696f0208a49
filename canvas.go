package shade

import (
	"fmt"
	"math"
)

// Range is a closed interval [Low, High] of data-space values.
type Range struct {
	Low, High float64
}

// Span returns High - Low.
func (r Range) Span() float64 {
	return r.High - r.Low
}

// Contains reports whether v lies within the closed range.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

func (r Range) valid() bool {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return false
	}
	return r.Low < r.High
}

// Canvas declares the geometry of an aggregation grid: its resolution in
// cells and the data-space ranges those cells cover.
//
// A Canvas is an immutable value. The affine mapping it defines from data
// space to cell coordinates depends only on its four fields, so aggregates
// built from equal canvases can be merged cell by cell.
type Canvas struct {
	width  int
	height int
	x      Range
	y      Range
}

// NewCanvas creates a canvas of width x height cells covering xr on the
// x axis and yr on the y axis.
//
// It returns an error wrapping ErrInvalidRange if either resolution is not
// positive or either range is not finite with Low < High.
func NewCanvas(width, height int, xr, yr Range) (Canvas, error) {
	if width <= 0 || height <= 0 {
		return Canvas{}, fmt.Errorf("%w: resolution %dx%d must be positive", ErrInvalidRange, width, height)
	}
	if !xr.valid() {
		return Canvas{}, fmt.Errorf("%w: x range [%g, %g]", ErrInvalidRange, xr.Low, xr.High)
	}
	if !yr.valid() {
		return Canvas{}, fmt.Errorf("%w: y range [%g, %g]", ErrInvalidRange, yr.Low, yr.High)
	}
	return Canvas{width: width, height: height, x: xr, y: yr}, nil
}

// Width returns the number of cell columns.
func (c Canvas) Width() int { return c.width }

// Height returns the number of cell rows.
func (c Canvas) Height() int { return c.height }

// XRange returns the data-space x range.
func (c Canvas) XRange() Range { return c.x }

// YRange returns the data-space y range.
func (c Canvas) YRange() Range { return c.y }

// Cells returns width*height.
func (c Canvas) Cells() int { return c.width * c.height }

// Project maps a data-space point to the cell containing it.
//
//	col = floor((x - x.Low) / (x.High - x.Low) * width)
//
// clamped to [0, width-1], and likewise for row and y. Points outside the
// ranges land on the nearest edge cell. NaN coordinates project to cell 0.
func (c Canvas) Project(x, y float64) (col, row int) {
	return project(x, c.x, c.width), project(y, c.y, c.height)
}

// Contains reports whether (x, y) lies inside the canvas ranges.
func (c Canvas) Contains(x, y float64) bool {
	return c.x.Contains(x) && c.y.Contains(y)
}

// Index returns the flat cell index of (col, row) in row-major order.
func (c Canvas) Index(col, row int) int {
	return row*c.width + col
}

// Equal reports whether two canvases have identical geometry.
func (c Canvas) Equal(o Canvas) bool {
	return c.width == o.width && c.height == o.height && c.x == o.x && c.y == o.y
}

// Compatible returns an error wrapping ErrShapeMismatch unless c and o
// have identical geometry.
func (c Canvas) Compatible(o Canvas) error {
	if c.Equal(o) {
		return nil
	}
	return fmt.Errorf("%w: canvas %v vs %v", ErrShapeMismatch, c, o)
}

// String implements fmt.Stringer.
func (c Canvas) String() string {
	return fmt.Sprintf("%dx%d x[%g,%g] y[%g,%g]", c.width, c.height, c.x.Low, c.x.High, c.y.Low, c.y.High)
}

func project(v float64, r Range, n int) int {
	f := math.Floor((v - r.Low) / (r.High - r.Low) * float64(n))
	switch {
	case f >= float64(n):
		return n - 1
	case f > 0:
		return int(f)
	default:
		// Also catches NaN.
		return 0
	}
}
