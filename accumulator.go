package shade

import (
	"math"
)

// accumulator is the per-cell state of one reduction: an arena of
// fixed-size slots addressed by cell index (times depth for per-category
// state). Only the slices the reduction needs are allocated.
//
// All updates are exact, so accumulators filled from disjoint batches can be
// merged in any grouping and order with bit-identical results.
type accumulator struct {
	kind  ReductionKind
	cells int
	depth int

	counts []uint32   // count, count_cat, and n for sum/mean/var/std
	sums   []exactSum // Σx for sum/mean/var/std
	sumsq  []exactSum // Σx² for var/std
	vals   []float64  // min/max, NaN when empty
	flags  []bool     // any
}

func newAccumulator(kind ReductionKind, cells, depth int) *accumulator {
	a := &accumulator{kind: kind, cells: cells, depth: depth}
	switch kind {
	case ReduceCount:
		a.counts = make([]uint32, cells)
	case ReduceCountCat:
		a.counts = make([]uint32, cells*depth)
	case ReduceAny:
		a.flags = make([]bool, cells)
	case ReduceSum, ReduceMean:
		a.counts = make([]uint32, cells)
		a.sums = make([]exactSum, cells)
	case ReduceVar, ReduceStd:
		a.counts = make([]uint32, cells)
		a.sums = make([]exactSum, cells)
		a.sumsq = make([]exactSum, cells)
	case ReduceMin, ReduceMax:
		a.vals = make([]float64, cells)
	}
	a.reset()
	return a
}

// reset restores every slot to the reduction's identity.
func (a *accumulator) reset() {
	clear(a.counts)
	clear(a.flags)
	for i := range a.sums {
		a.sums[i].reset()
	}
	for i := range a.sumsq {
		a.sumsq[i].reset()
	}
	fill(a.vals, math.NaN())
}

// add folds the hits of one batch into the accumulator. vals holds the
// batch's values and codes its category codes, both indexed by
// hit.rec - lo; either may be nil when the reduction does not read them.
//
// The reduction kind is switched on once per batch.
func (a *accumulator) add(hits []hit, lo int, vals []float64, codes []int32) {
	switch a.kind {
	case ReduceCount:
		for _, h := range hits {
			a.counts[h.cell]++
		}
	case ReduceAny:
		for _, h := range hits {
			a.flags[h.cell] = true
		}
	case ReduceCountCat:
		d := int32(a.depth)
		for _, h := range hits {
			code := codes[h.rec-lo]
			if code < 0 || code >= d {
				continue
			}
			a.counts[h.cell*a.depth+int(code)]++
		}
	case ReduceSum, ReduceMean:
		for _, h := range hits {
			v := vals[h.rec-lo]
			if math.IsNaN(v) {
				continue
			}
			a.counts[h.cell]++
			a.sums[h.cell].add(v)
		}
	case ReduceVar, ReduceStd:
		for _, h := range hits {
			v := vals[h.rec-lo]
			if math.IsNaN(v) {
				continue
			}
			a.counts[h.cell]++
			a.sums[h.cell].add(v)
			a.sumsq[h.cell].addProduct(v, v)
		}
	case ReduceMin:
		for _, h := range hits {
			v := vals[h.rec-lo]
			if cur := a.vals[h.cell]; math.IsNaN(cur) || v < cur {
				a.vals[h.cell] = v
			}
		}
	case ReduceMax:
		for _, h := range hits {
			v := vals[h.rec-lo]
			if cur := a.vals[h.cell]; math.IsNaN(cur) || v > cur {
				a.vals[h.cell] = v
			}
		}
	}
}

// merge folds o into a. Both must have the same kind and shape.
func (a *accumulator) merge(o *accumulator) {
	for i, c := range o.counts {
		a.counts[i] += c
	}
	for i, f := range o.flags {
		a.flags[i] = a.flags[i] || f
	}
	for i := range o.sums {
		a.sums[i].merge(&o.sums[i])
	}
	for i := range o.sumsq {
		a.sumsq[i].merge(&o.sumsq[i])
	}
	switch a.kind {
	case ReduceMin:
		for i, v := range o.vals {
			if cur := a.vals[i]; math.IsNaN(cur) || v < cur {
				a.vals[i] = v
			}
		}
	case ReduceMax:
		for i, v := range o.vals {
			if cur := a.vals[i]; math.IsNaN(cur) || v > cur {
				a.vals[i] = v
			}
		}
	}
}

func (a *accumulator) clone() *accumulator {
	return &accumulator{
		kind:   a.kind,
		cells:  a.cells,
		depth:  a.depth,
		counts: cloneSlice(a.counts),
		sums:   cloneSums(a.sums),
		sumsq:  cloneSums(a.sumsq),
		vals:   cloneSlice(a.vals),
		flags:  cloneSlice(a.flags),
	}
}

// floats returns the finished per-cell values of a floating reduction.
// Sums are rounded once here, so they do not depend on how the records
// were split into batches.
func (a *accumulator) floats() []float64 {
	out := make([]float64, a.cells)
	switch a.kind {
	case ReduceMin, ReduceMax:
		copy(out, a.vals)
	case ReduceSum, ReduceMean, ReduceVar, ReduceStd:
		for i, n := range a.counts {
			if n == 0 {
				out[i] = math.NaN()
				continue
			}
			out[i] = a.finish(i, float64(n))
		}
	}
	return out
}

// finish returns the value of non-empty cell i holding n values.
func (a *accumulator) finish(i int, n float64) float64 {
	sum := a.sums[i].value()
	switch a.kind {
	case ReduceSum:
		return sum
	case ReduceMean:
		return sum / n
	}
	// n·Σx² - (Σx)², evaluated without cancellation error.
	var num exactSum
	num.addProduct(n, a.sumsq[i].value())
	num.addProduct(-sum, sum)
	v := max(num.value()/n/n, 0)
	if a.kind == ReduceStd {
		v = math.Sqrt(v)
	}
	return v
}

func fill[T any](s []T, v T) {
	for i := range s {
		s[i] = v
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

func cloneSums(s []exactSum) []exactSum {
	if s == nil {
		return nil
	}
	out := make([]exactSum, len(s))
	for i := range s {
		out[i] = s[i].clone()
	}
	return out
}
