package shade

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// CustomFunc is a caller-supplied transform. It receives the offset cell
// values and the mask (true = no data) and returns the transformed values;
// entries for masked cells are ignored. Errors are returned unchanged by
// Render and Colorize.
type CustomFunc func(values []float64, mask []bool) ([]float64, error)

type howKind uint8

const (
	howLinear howKind = iota
	howLog
	howCbrt
	howEqHist
	howCustom
)

// How is the scalar transform applied to aggregate values before they are
// mapped onto a colormap.
type How struct {
	kind howKind
	name string
	fn   CustomFunc
}

// Transforms.
var (
	// Linear leaves values unchanged.
	Linear = How{kind: howLinear, name: "linear"}
	// Log applies ln(1+x).
	Log = How{kind: howLog, name: "log"}
	// Cbrt applies the cube root.
	Cbrt = How{kind: howCbrt, name: "cbrt"}
	// EqHist replaces each value by its empirical CDF among the unmasked
	// cells, spreading colors evenly over the occupied cells regardless of
	// the value distribution.
	EqHist = How{kind: howEqHist, name: "eq_hist"}
)

// Custom wraps fn as a transform.
func Custom(name string, fn CustomFunc) How {
	return How{kind: howCustom, name: name, fn: fn}
}

// ParseHow returns the built-in transform called name.
func ParseHow(name string) (How, error) {
	for _, h := range []How{Linear, Log, Cbrt, EqHist} {
		if h.name == name {
			return h, nil
		}
	}
	return How{}, fmt.Errorf("%w: %q", ErrUnknownHow, name)
}

// String implements fmt.Stringer.
func (h How) String() string { return h.name }

// apply transforms the unmasked entries of values in place.
func (h How) apply(values []float64, mask []bool) ([]float64, error) {
	switch h.kind {
	case howLinear:
	case howLog:
		for i, v := range values {
			if !mask[i] {
				values[i] = math.Log1p(v)
			}
		}
	case howCbrt:
		for i, v := range values {
			if !mask[i] {
				values[i] = math.Cbrt(v)
			}
		}
	case howEqHist:
		eqHist(values, mask)
	case howCustom:
		out, err := h.fn(values, mask)
		if err != nil {
			return nil, err
		}
		if len(out) != len(values) {
			return nil, fmt.Errorf("shade: transform %q returned %d values, want %d", h.name, len(out), len(values))
		}
		return out, nil
	}
	return values, nil
}

// applySpan transforms the endpoints of an explicit span, already offset
// so that span.Low is 0.
func (h How) applySpan(span Range) (Range, error) {
	vals, err := h.apply([]float64{span.Low, span.High}, []bool{false, false})
	if err != nil {
		return Range{}, err
	}
	return Range{Low: vals[0], High: vals[1]}, nil
}

// eqHist replaces each unmasked value by the fraction of unmasked values
// less than or equal to it.
func eqHist(values []float64, mask []bool) {
	sorted := make([]float64, 0, len(values))
	for i, v := range values {
		if !mask[i] {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return
	}
	slices.Sort(sorted)
	n := float64(len(sorted))
	for i, v := range values {
		if mask[i] {
			continue
		}
		le := sort.Search(len(sorted), func(j int) bool { return sorted[j] > v })
		values[i] = float64(le) / n
	}
}
