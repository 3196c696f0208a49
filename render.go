package shade

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// Render colors an aggregate through cmap.
//
// For every cell, in order:
//  1. Mask: NaN (float), 0 (count) and false (any) cells hold no data and
//     become fully transparent.
//  2. Transform: how is applied to value - offset, where offset is the
//     smallest unmasked value (or the low end of WithSpan, after clipping
//     values to the span).
//  3. Map: the transformed values are rescaled linearly from their observed
//     range (or the transformed WithSpan range) onto [0, 1] and looked up
//     in cmap. A range of a single value maps to 1.
//
// Unmasked pixels get the alpha set by WithAlpha (default 255), scaled by
// the colormap color's own alpha. A WithSpan range that is empty, inverted
// or not finite is an error wrapping ErrInvalidRange.
func Render(agg *Aggregate, cmap Colormap, how How, opts ...RenderOption) (*Image, error) {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mask := agg.Mask()
	t, err := normalize(agg.Values(), mask, how, o.span)
	if err != nil {
		return nil, err
	}

	img := NewImage(agg.Width(), agg.Height())
	for i, m := range mask {
		if m {
			continue
		}
		c := toNRGBA(cmap.Map(t[i]))
		c.A = uint8(uint16(c.A) * uint16(o.alpha) / 255)
		img.data[i*4+0] = c.R
		img.data[i*4+1] = c.G
		img.data[i*4+2] = c.B
		img.data[i*4+3] = c.A
	}
	return img, nil
}

// normalize runs the mask/transform/map steps shared by Render and
// Colorize. It returns values in [0, 1] for unmasked cells and marks cells
// the transform turned into NaN as masked.
func normalize(values []float64, mask []bool, how How, span *Range) ([]float64, error) {
	if span != nil && !span.valid() {
		return nil, fmt.Errorf("%w: span [%g, %g]", ErrInvalidRange, span.Low, span.High)
	}
	var offset float64
	if span != nil {
		offset = span.Low
		for i, v := range values {
			if !mask[i] {
				values[i] = min(max(v, span.Low), span.High)
			}
		}
	} else if lo, _, ok := unmaskedBounds(values, mask); ok {
		offset = lo
	}
	for i := range values {
		if !mask[i] {
			values[i] -= offset
		}
	}

	values, err := how.apply(values, mask)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if !mask[i] && math.IsNaN(v) {
			mask[i] = true
		}
	}

	var lo, hi float64
	if span != nil && how.kind != howEqHist {
		s, err := how.applySpan(Range{Low: 0, High: span.High - span.Low})
		if err != nil {
			return nil, err
		}
		lo, hi = s.Low, s.High
	} else {
		var ok bool
		if lo, hi, ok = unmaskedBounds(values, mask); !ok {
			return values, nil
		}
	}

	Logger().Debug("shade: normalize", "how", how.String(), "offset", offset, "low", lo, "high", hi)

	sc := scale.Linear{Min: lo, Max: hi}
	for i, v := range values {
		if mask[i] {
			continue
		}
		if lo == hi {
			values[i] = 1
			continue
		}
		values[i] = min(max(sc.Map(v), 0), 1)
	}
	return values, nil
}

// unmaskedBounds returns the extremes of the unmasked values.
func unmaskedBounds(values []float64, mask []bool) (lo, hi float64, ok bool) {
	kept := make([]float64, 0, len(values))
	for i, v := range values {
		if !mask[i] {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return 0, 0, false
	}
	lo, hi = stats.Bounds(kept)
	return lo, hi, true
}
