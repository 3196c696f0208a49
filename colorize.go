package shade

import (
	"fmt"
	"image/color"
	"math"
)

// Colorize renders a count_cat aggregate by mixing category colors.
//
// Each cell's color is the count-weighted mean of the colors in key for the
// categories present in it. Its alpha follows the cell's total count
// through the same mask/transform/map steps as Render, landing between
// WithMinAlpha (default 40) and WithAlpha (default 255). Cells with no
// records are fully transparent.
//
// It returns an error wrapping ErrUnsupportedReduction for aggregates that
// are not count_cat, ErrColorKey when a category has no color in key, and
// ErrInvalidRange for a bad WithSpan range.
func Colorize(agg *Aggregate, key map[string]color.Color, how How, opts ...RenderOption) (*Image, error) {
	if agg.reduction.kind != ReduceCountCat {
		return nil, fmt.Errorf("%w: colorize needs count_cat, got %v", ErrUnsupportedReduction, agg.reduction)
	}
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	colors := make([]color.NRGBA, len(agg.categories))
	for k, name := range agg.categories {
		c, ok := key[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColorKey, name)
		}
		colors[k] = toNRGBA(c)
	}

	mask := agg.Mask()
	t, err := normalize(agg.Values(), mask, how, o.span)
	if err != nil {
		return nil, err
	}

	depth := agg.acc.depth
	lo, hi := float64(o.minAlpha), float64(o.alpha)
	img := NewImage(agg.Width(), agg.Height())
	for i, m := range mask {
		if m {
			continue
		}
		var r, g, b, total float64
		for k, n := range agg.acc.counts[i*depth : (i+1)*depth] {
			w := float64(n)
			r += w * float64(colors[k].R)
			g += w * float64(colors[k].G)
			b += w * float64(colors[k].B)
			total += w
		}
		p := img.data[i*4 : i*4+4]
		p[0] = uint8(clamp255(math.Round(r / total)))
		p[1] = uint8(clamp255(math.Round(g / total)))
		p[2] = uint8(clamp255(math.Round(b / total)))
		p[3] = uint8(clamp255(math.Round(lo + (hi-lo)*t[i])))
	}
	return img, nil
}
