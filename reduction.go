package shade

import (
	"fmt"
	"strings"
)

// ReductionKind identifies a per-cell reduction operator.
type ReductionKind uint8

const (
	// ReduceCount counts the records touching a cell.
	ReduceCount ReductionKind = iota
	// ReduceAny marks cells touched by at least one record.
	ReduceAny
	// ReduceSum adds the non-NaN values of a column.
	ReduceSum
	// ReduceMean averages the non-NaN values of a column.
	ReduceMean
	// ReduceMin keeps the smallest non-NaN value of a column.
	ReduceMin
	// ReduceMax keeps the largest non-NaN value of a column.
	ReduceMax
	// ReduceVar computes the population variance of a column.
	ReduceVar
	// ReduceStd computes the population standard deviation of a column.
	ReduceStd
	// ReduceCountCat counts records per category of a categorical column.
	ReduceCountCat
)

var reductionNames = [...]string{
	ReduceCount:    "count",
	ReduceAny:      "any",
	ReduceSum:      "sum",
	ReduceMean:     "mean",
	ReduceMin:      "min",
	ReduceMax:      "max",
	ReduceVar:      "var",
	ReduceStd:      "std",
	ReduceCountCat: "count_cat",
}

// String implements fmt.Stringer.
func (k ReductionKind) String() string {
	if int(k) < len(reductionNames) {
		return reductionNames[k]
	}
	return fmt.Sprintf("ReductionKind(%d)", k)
}

// Reduction is an associative, commutative per-cell update rule together
// with the column it reads. The zero value is Count().
type Reduction struct {
	kind   ReductionKind
	column string
}

// Count returns a reduction counting records per cell.
func Count() Reduction { return Reduction{kind: ReduceCount} }

// Any returns a reduction marking cells touched by any record.
func Any() Reduction { return Reduction{kind: ReduceAny} }

// Sum returns a reduction adding the non-NaN values of column.
func Sum(column string) Reduction { return Reduction{kind: ReduceSum, column: column} }

// Mean returns a reduction averaging the non-NaN values of column.
func Mean(column string) Reduction { return Reduction{kind: ReduceMean, column: column} }

// Min returns a reduction keeping the smallest value of column.
func Min(column string) Reduction { return Reduction{kind: ReduceMin, column: column} }

// Max returns a reduction keeping the largest value of column.
func Max(column string) Reduction { return Reduction{kind: ReduceMax, column: column} }

// Var returns a reduction computing the population variance of column.
func Var(column string) Reduction { return Reduction{kind: ReduceVar, column: column} }

// Std returns a reduction computing the population standard deviation of column.
func Std(column string) Reduction { return Reduction{kind: ReduceStd, column: column} }

// CountCat returns a reduction counting records per category of the
// categorical column. Its aggregates have a third, category dimension.
func CountCat(column string) Reduction { return Reduction{kind: ReduceCountCat, column: column} }

// ParseReduction builds a reduction from a name such as "count" or
// "mean" and an optional column.
func ParseReduction(name, column string) (Reduction, error) {
	for k, n := range reductionNames {
		if strings.EqualFold(n, name) {
			r := Reduction{kind: ReductionKind(k), column: column}
			if r.needsColumn() && column == "" {
				return Reduction{}, fmt.Errorf("%w: %s needs a column", ErrUnsupportedReduction, n)
			}
			return r, nil
		}
	}
	return Reduction{}, fmt.Errorf("%w: unknown reduction %q", ErrUnsupportedReduction, name)
}

// Kind returns the reduction operator.
func (r Reduction) Kind() ReductionKind { return r.kind }

// Column returns the column read by the reduction, or "" for count and any.
func (r Reduction) Column() string { return r.column }

// String implements fmt.Stringer.
func (r Reduction) String() string {
	if r.column == "" {
		return r.kind.String() + "()"
	}
	return fmt.Sprintf("%s(%s)", r.kind, r.column)
}

func (r Reduction) needsColumn() bool {
	return r.kind != ReduceCount && r.kind != ReduceAny
}

// DType returns the element type of aggregates produced by r.
func (r Reduction) DType() DType {
	switch r.kind {
	case ReduceCount, ReduceCountCat:
		return Uint32
	case ReduceAny:
		return Bool
	default:
		return Float64
	}
}

// Named pairs a reduction with the name its aggregate is returned under.
type Named struct {
	Name      string
	Reduction Reduction
}

// Summary is a set of named reductions computed together in a single pass
// over the records.
type Summary []Named

// NewSummary builds a summary, checking that names are unique and
// non-empty.
func NewSummary(named ...Named) (Summary, error) {
	seen := make(map[string]bool, len(named))
	for _, n := range named {
		if n.Name == "" {
			return nil, fmt.Errorf("%w: summary entry without a name", ErrUnsupportedReduction)
		}
		if seen[n.Name] {
			return nil, fmt.Errorf("%w: duplicate summary name %q", ErrUnsupportedReduction, n.Name)
		}
		seen[n.Name] = true
	}
	return Summary(named), nil
}
