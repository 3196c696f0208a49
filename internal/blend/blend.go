// Package blend composites straight-alpha colors.
//
// Channels are converted to [0, 1], combined, and rounded back to 8 bits.
// All operators treat a fully transparent source as a no-op.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
package blend

import (
	"image/color"
	"math"
)

// Mode selects how a source pixel is combined with a destination pixel.
type Mode uint8

const (
	// Over paints the source over the destination (painter's algorithm).
	Over Mode = iota
	// Add sums the premultiplied colors, clamping alpha at 1.
	Add
	// Saturate adds the source only up to the destination's remaining
	// transparency, so earlier pixels keep precedence.
	Saturate
	// Source replaces the destination with the source.
	Source
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Over:
		return "over"
	case Add:
		return "add"
	case Saturate:
		return "saturate"
	case Source:
		return "source"
	default:
		return "unknown"
	}
}

// Composite combines src onto dst.
func Composite(src, dst color.NRGBA, mode Mode) color.NRGBA {
	if src.A == 0 {
		return dst
	}
	switch mode {
	case Source:
		return src
	case Add:
		return add(src, dst)
	case Saturate:
		return saturate(src, dst)
	default:
		return over(src, dst)
	}
}

func over(src, dst color.NRGBA) color.NRGBA {
	sa, da := unit(src.A), unit(dst.A)
	inv := 1 - sa
	outA := sa + da*inv
	return mix(src, sa, dst, da*inv, outA)
}

func add(src, dst color.NRGBA) color.NRGBA {
	sa, da := unit(src.A), unit(dst.A)
	outA := math.Min(sa+da, 1)
	return mix(src, sa, dst, da, outA)
}

func saturate(src, dst color.NRGBA) color.NRGBA {
	sa, da := unit(src.A), unit(dst.A)
	f := math.Min(sa, 1-da)
	if f <= 0 {
		return dst
	}
	return mix(src, f, dst, da, da+f)
}

// mix returns (src*ws + dst*wd) / outA with alpha outA. The weights are
// the premultiplying factors of each side.
func mix(src color.NRGBA, ws float64, dst color.NRGBA, wd, outA float64) color.NRGBA {
	if outA <= 0 {
		return color.NRGBA{}
	}
	norm := ws + wd
	ch := func(s, d uint8) uint8 {
		return byte8((unit(s)*ws + unit(d)*wd) / norm)
	}
	return color.NRGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: byte8(outA),
	}
}

func unit(v uint8) float64 {
	return float64(v) / 255
}

func byte8(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
