package shade

import (
	"fmt"
)

// ColumnKind identifies the element type of a Column.
type ColumnKind uint8

const (
	// KindFloat is a numeric column read as float64.
	KindFloat ColumnKind = iota
	// KindCategorical is a column of category codes with a fixed category list.
	KindCategorical
)

// String implements fmt.Stringer.
func (k ColumnKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("ColumnKind(%d)", k)
	}
}

// Column is a named column of a Source.
type Column interface {
	Name() string
	Kind() ColumnKind
	Len() int
}

// FloatColumn is a numeric column. Floats returns the values of rows
// [lo, hi); the caller must not modify the returned slice.
type FloatColumn interface {
	Column
	Floats(lo, hi int) []float64
}

// CategoricalColumn is a column of category codes. Codes returns the
// codes of rows [lo, hi); a negative code marks a missing category.
// Codes index into Categories.
type CategoricalColumn interface {
	Column
	Codes(lo, hi int) []int32
	Categories() []string
}

// Source supplies records to the aggregator as named columns of equal
// length. Implementations must allow concurrent reads of disjoint row
// ranges.
type Source interface {
	Len() int
	Column(name string) (Column, error)
}

// Table is an in-memory Source.
type Table struct {
	n       int
	columns []Column
	byName  map[string]Column
}

// NewTable creates a table from columns of equal length.
// Column names must be unique.
func NewTable(cols ...Column) (*Table, error) {
	t := &Table{byName: make(map[string]Column, len(cols))}
	for i, c := range cols {
		if i == 0 {
			t.n = c.Len()
		} else if c.Len() != t.n {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShapeMismatch, c.Name(), c.Len(), t.n)
		}
		if _, dup := t.byName[c.Name()]; dup {
			return nil, fmt.Errorf("shade: duplicate column %q", c.Name())
		}
		t.byName[c.Name()] = c
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// Column returns the named column or an error wrapping ErrColumnNotFound.
func (t *Table) Column(name string) (Column, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return c, nil
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

type floatColumn struct {
	name string
	vals []float64
}

// Floats returns a float column backed by vals. The slice is not copied.
func Floats(name string, vals []float64) FloatColumn {
	return &floatColumn{name: name, vals: vals}
}

func (c *floatColumn) Name() string                { return c.name }
func (c *floatColumn) Kind() ColumnKind            { return KindFloat }
func (c *floatColumn) Len() int                    { return len(c.vals) }
func (c *floatColumn) Floats(lo, hi int) []float64 { return c.vals[lo:hi:hi] }

type categoricalColumn struct {
	name       string
	codes      []int32
	categories []string
}

// Categorical returns a categorical column from labels. Categories are
// numbered in order of first appearance; the empty label is treated as a
// missing category.
func Categorical(name string, labels []string) CategoricalColumn {
	index := make(map[string]int32)
	c := &categoricalColumn{name: name, codes: make([]int32, len(labels))}
	for i, l := range labels {
		if l == "" {
			c.codes[i] = -1
			continue
		}
		code, ok := index[l]
		if !ok {
			code = int32(len(c.categories))
			index[l] = code
			c.categories = append(c.categories, l)
		}
		c.codes[i] = code
	}
	return c
}

// CategoricalCodes returns a categorical column from precomputed codes.
// Codes outside [0, len(categories)) are treated as missing.
func CategoricalCodes(name string, codes []int32, categories []string) CategoricalColumn {
	return &categoricalColumn{name: name, codes: codes, categories: categories}
}

func (c *categoricalColumn) Name() string             { return c.name }
func (c *categoricalColumn) Kind() ColumnKind         { return KindCategorical }
func (c *categoricalColumn) Len() int                 { return len(c.codes) }
func (c *categoricalColumn) Codes(lo, hi int) []int32 { return c.codes[lo:hi:hi] }
func (c *categoricalColumn) Categories() []string     { return c.categories }

// floatColumnOf looks up name in src and asserts it is numeric.
func floatColumnOf(src Source, name, role string) (FloatColumn, error) {
	c, err := src.Column(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	fc, ok := c.(FloatColumn)
	if !ok || c.Kind() != KindFloat {
		return nil, fmt.Errorf("%w: %s column %q is %s, want float", ErrUnsupportedReduction, role, name, c.Kind())
	}
	return fc, nil
}

// categoricalColumnOf looks up name in src and asserts it is categorical.
func categoricalColumnOf(src Source, name, role string) (CategoricalColumn, error) {
	c, err := src.Column(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	cc, ok := c.(CategoricalColumn)
	if !ok || c.Kind() != KindCategorical {
		return nil, fmt.Errorf("%w: %s column %q is %s, want categorical", ErrUnsupportedReduction, role, name, c.Kind())
	}
	return cc, nil
}
