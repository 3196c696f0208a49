package shade

import (
	"fmt"
	"math"
	"slices"
)

// DType is the element type of an aggregate.
type DType uint8

const (
	// Uint32 aggregates hold counts. Zero means "no data".
	Uint32 DType = iota
	// Float64 aggregates hold values. NaN means "no data".
	Float64
	// Bool aggregates hold flags. False means "no data".
	Bool
)

// String implements fmt.Stringer.
func (d DType) String() string {
	switch d {
	case Uint32:
		return "uint32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("DType(%d)", d)
	}
}

// Aggregate is the immutable result of aggregating records onto a canvas:
// a dense (height, width) grid, or (height, width, categories) for
// count_cat, stored row-major with row 0 at the low end of the y range.
//
// The accumulator state is kept alongside the finished values so that
// aggregates of the same canvas and reduction can be merged exactly.
type Aggregate struct {
	canvas     Canvas
	reduction  Reduction
	categories []string
	acc        *accumulator

	floats []float64 // Float64 aggregates, finished values
}

func newAggregate(cv Canvas, r Reduction, categories []string, acc *accumulator) *Aggregate {
	agg := &Aggregate{canvas: cv, reduction: r, categories: categories, acc: acc}
	if r.DType() == Float64 {
		agg.floats = acc.floats()
	}
	return agg
}

// Canvas returns the canvas the aggregate was built on.
func (a *Aggregate) Canvas() Canvas { return a.canvas }

// Reduction returns the reduction that produced the aggregate.
func (a *Aggregate) Reduction() Reduction { return a.reduction }

// DType returns the element type.
func (a *Aggregate) DType() DType { return a.reduction.DType() }

// Width returns the number of columns.
func (a *Aggregate) Width() int { return a.canvas.width }

// Height returns the number of rows.
func (a *Aggregate) Height() int { return a.canvas.height }

// Depth returns the number of categories, or 0 for two-dimensional aggregates.
func (a *Aggregate) Depth() int {
	if a.reduction.kind == ReduceCountCat {
		return len(a.categories)
	}
	return 0
}

// Categories returns the category labels of a count_cat aggregate.
func (a *Aggregate) Categories() []string { return slices.Clone(a.categories) }

// At returns the value of cell (col, row) as a float64. Counts and flags
// are converted; for count_cat the total over all categories is returned.
func (a *Aggregate) At(col, row int) float64 {
	return a.value(a.canvas.Index(col, row))
}

// CatAt returns the count of category k in cell (col, row) of a count_cat
// aggregate. It returns 0 when k is not a category index or the aggregate
// is not count_cat.
func (a *Aggregate) CatAt(col, row, k int) uint32 {
	if a.reduction.kind != ReduceCountCat || k < 0 || k >= a.acc.depth {
		return 0
	}
	return a.acc.counts[a.canvas.Index(col, row)*a.acc.depth+k]
}

// Masked reports whether cell (col, row) holds no data: NaN for float
// aggregates, zero for counts, false for flags.
//
// Zero is the only "no data" marker for counts, so a count aggregate
// cannot distinguish an empty cell from a cell whose count is zero.
func (a *Aggregate) Masked(col, row int) bool {
	return a.masked(a.canvas.Index(col, row))
}

func (a *Aggregate) value(i int) float64 {
	switch a.reduction.kind {
	case ReduceCount:
		return float64(a.acc.counts[i])
	case ReduceCountCat:
		return float64(a.total(i))
	case ReduceAny:
		if a.acc.flags[i] {
			return 1
		}
		return 0
	default:
		return a.floats[i]
	}
}

func (a *Aggregate) masked(i int) bool {
	switch a.reduction.kind {
	case ReduceCount:
		return a.acc.counts[i] == 0
	case ReduceCountCat:
		return a.total(i) == 0
	case ReduceAny:
		return !a.acc.flags[i]
	default:
		return math.IsNaN(a.floats[i])
	}
}

func (a *Aggregate) total(i int) uint32 {
	var t uint32
	for _, c := range a.acc.counts[i*a.acc.depth : (i+1)*a.acc.depth] {
		t += c
	}
	return t
}

// Values returns the cell values row-major as float64, with the same
// conversions as At.
func (a *Aggregate) Values() []float64 {
	out := make([]float64, a.canvas.Cells())
	for i := range out {
		out[i] = a.value(i)
	}
	return out
}

// Mask returns the per-cell "no data" flags row-major.
func (a *Aggregate) Mask() []bool {
	out := make([]bool, a.canvas.Cells())
	for i := range out {
		out[i] = a.masked(i)
	}
	return out
}

// Uint32s returns a copy of the counts of a count or count_cat aggregate,
// or nil for other reductions. count_cat counts are laid out with the
// category index varying fastest.
func (a *Aggregate) Uint32s() []uint32 {
	if a.DType() != Uint32 {
		return nil
	}
	return slices.Clone(a.acc.counts)
}

// Float64s returns a copy of the values of a floating aggregate, or nil.
func (a *Aggregate) Float64s() []float64 {
	return slices.Clone(a.floats)
}

// Bools returns a copy of the flags of an any aggregate, or nil.
func (a *Aggregate) Bools() []bool {
	return slices.Clone(a.acc.flags)
}

// Equal reports whether a and b have the same geometry, reduction and
// cell values. NaN cells compare equal to NaN cells.
func (a *Aggregate) Equal(b *Aggregate) bool {
	if a.compatible(b) != nil {
		return false
	}
	if !slices.Equal(a.acc.counts, b.acc.counts) || !slices.Equal(a.acc.flags, b.acc.flags) {
		return false
	}
	return slices.EqualFunc(a.floats, b.floats, func(x, y float64) bool {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	})
}

func (a *Aggregate) compatible(b *Aggregate) error {
	if err := a.canvas.Compatible(b.canvas); err != nil {
		return err
	}
	if a.reduction != b.reduction {
		return fmt.Errorf("%w: reduction %v vs %v", ErrShapeMismatch, a.reduction, b.reduction)
	}
	if !slices.Equal(a.categories, b.categories) {
		return fmt.Errorf("%w: categories %q vs %q", ErrShapeMismatch, a.categories, b.categories)
	}
	return nil
}

// Merge combines aggregates built on identical canvases with the same
// reduction, as if their records had been aggregated together. It returns
// an error wrapping ErrShapeMismatch otherwise, or when an input is nil.
// The inputs are unchanged.
func Merge(aggs ...*Aggregate) (*Aggregate, error) {
	if len(aggs) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", ErrShapeMismatch)
	}
	for i, b := range aggs {
		if b == nil {
			return nil, fmt.Errorf("%w: aggregate %d is nil", ErrShapeMismatch, i)
		}
	}
	first := aggs[0]
	acc := first.acc.clone()
	for _, b := range aggs[1:] {
		if err := first.compatible(b); err != nil {
			return nil, err
		}
		acc.merge(b.acc)
	}
	return newAggregate(first.canvas, first.reduction, first.categories, acc), nil
}
