package shade

import "errors"

// Sentinel errors returned by shade. Errors carrying more context wrap one
// of these with fmt.Errorf, so callers should match with errors.Is.
var (
	// ErrInvalidRange is returned by NewCanvas when a range is empty,
	// inverted or not finite, or when the resolution is not positive, and
	// by Render and Colorize for such a WithSpan range.
	ErrInvalidRange = errors.New("shade: invalid range")

	// ErrShapeMismatch is returned when aggregates or images built for
	// different canvases (or different reductions) are combined.
	ErrShapeMismatch = errors.New("shade: shape mismatch")

	// ErrUnsupportedReduction is returned at aggregation start when a
	// reduction or glyph is asked to read a column of the wrong kind.
	ErrUnsupportedReduction = errors.New("shade: unsupported reduction")

	// ErrColumnNotFound is returned when a glyph or reduction names a
	// column the source does not have.
	ErrColumnNotFound = errors.New("shade: column not found")

	// ErrColorKey is returned by Colorize when a category has no color.
	ErrColorKey = errors.New("shade: missing category color")

	// ErrInvalidMask is returned for spread masks that are empty or not
	// odd-sized squares.
	ErrInvalidMask = errors.New("shade: invalid spread mask")

	// ErrUnknownHow is returned by ParseHow for unrecognised names.
	ErrUnknownHow = errors.New("shade: unknown transform")
)
