package shade

import (
	"fmt"
	"math"

	"github.com/gogpu/shade/internal/blend"
	"github.com/gogpu/shade/internal/filter"
)

// Shape is the shape of the structuring mask used by Spread.
type Shape uint8

const (
	// Circle covers offsets with dx² + dy² <= px².
	Circle Shape = iota
	// Square covers offsets with |dx|, |dy| <= px.
	Square
)

// Compose selects how overlapping pixels are combined by Spread and Stack.
type Compose = blend.Mode

// Compositing modes.
const (
	ComposeOver     = blend.Over
	ComposeAdd      = blend.Add
	ComposeSaturate = blend.Saturate
	ComposeSource   = blend.Source
)

func (o spreadOptions) structuringMask(px int) (filter.Mask, error) {
	if o.mask != nil {
		m, err := filter.NewMask(o.mask)
		if err != nil {
			return filter.Mask{}, fmt.Errorf("%w: %v", ErrInvalidMask, err)
		}
		return m, nil
	}
	if px < 0 {
		return filter.Mask{}, fmt.Errorf("%w: negative radius %d", ErrInvalidMask, px)
	}
	if o.shape == Square {
		return filter.Square(px), nil
	}
	return filter.Disk(px), nil
}

// Spread enlarges every non-transparent pixel to the mask around it, so
// isolated points stay visible. Output pixel p is the composite, in raster
// order of the sources, of every source pixel whose mask covers p.
//
// The mask is a disk of radius px by default; see WithShape and WithMask.
// Overlaps are painted over each other unless WithCompose says otherwise.
func Spread(img *Image, px int, opts ...SpreadOption) (*Image, error) {
	o := defaultSpreadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m, err := o.structuringMask(px)
	if err != nil {
		return nil, err
	}
	return spread(img, m, o.compose), nil
}

func spread(img *Image, m filter.Mask, mode Compose) *Image {
	out := NewImage(img.width, img.height)
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			src := img.Pixel(col, row)
			if src.A == 0 {
				continue
			}
			for _, off := range m.Offsets {
				c, r := col+off[0], row+off[1]
				if c < 0 || c >= img.width || r < 0 || r >= img.height {
					continue
				}
				out.SetPixel(c, r, blend.Composite(src, out.Pixel(c, r), mode))
			}
		}
	}
	return out
}

// Dynspread spreads by the largest radius px <= WithMaxPx (default 3) for
// which the fraction of non-transparent pixels having another
// non-transparent pixel within 2*px stays below WithThreshold (default
// 0.5). Sparse images are spread more than dense ones, without a fixed
// radius.
func Dynspread(img *Image, opts ...SpreadOption) (*Image, error) {
	o := defaultSpreadOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxPx < 0 {
		return nil, fmt.Errorf("%w: negative max radius %d", ErrInvalidMask, o.maxPx)
	}
	if o.threshold < 0 || o.threshold > 1 {
		return nil, fmt.Errorf("shade: dynspread threshold %g outside [0, 1]", o.threshold)
	}

	px := 0
	for px < o.maxPx && density(img, 2*(px+1)) < o.threshold {
		px++
	}
	Logger().Debug("shade: dynspread", "px", px, "threshold", o.threshold, "max_px", o.maxPx)

	return Spread(img, px, opts...)
}

// density returns the fraction of non-transparent pixels that have
// another non-transparent pixel within a square window of the given
// radius. An empty image has infinite density.
func density(img *Image, radius int) float64 {
	var total, crowded int
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			if !img.Opaque(col, row) {
				continue
			}
			total++
			if hasNeighbour(img, col, row, radius) {
				crowded++
			}
		}
	}
	if total == 0 {
		return math.Inf(1)
	}
	return float64(crowded) / float64(total)
}

func hasNeighbour(img *Image, col, row, radius int) bool {
	for r := max(row-radius, 0); r <= min(row+radius, img.height-1); r++ {
		for c := max(col-radius, 0); c <= min(col+radius, img.width-1); c++ {
			if (c != col || r != row) && img.Opaque(c, r) {
				return true
			}
		}
	}
	return false
}
