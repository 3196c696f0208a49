package shade

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-gg/palette"
)

// Colormap maps [0, 1] to colors. It is go-gg's continuous palette
// interface, so any palette.Continuous can be passed to Render.
type Colormap = palette.Continuous

// Gradient is a Colormap interpolating each sRGB channel independently
// between evenly spaced control colors. Map(0) and Map(1) return the first
// and last control colors exactly.
type Gradient struct {
	colors []color.NRGBA
}

// NewColormap returns a Gradient over the given control colors.
// With no colors it maps everything to opaque black.
func NewColormap(colors ...color.Color) Gradient {
	g := Gradient{colors: make([]color.NRGBA, len(colors))}
	for i, c := range colors {
		g.colors[i] = toNRGBA(c)
	}
	if len(g.colors) == 0 {
		g.colors = []color.NRGBA{{A: 255}}
	}
	return g
}

// ParseColormap returns a Gradient over colors given as names or hex
// strings (see ParseColor).
func ParseColormap(specs ...string) (Gradient, error) {
	if len(specs) == 0 {
		return Gradient{}, fmt.Errorf("shade: colormap needs at least one color")
	}
	colors := make([]color.Color, len(specs))
	for i, s := range specs {
		c, err := ParseColor(s)
		if err != nil {
			return Gradient{}, err
		}
		colors[i] = c
	}
	return NewColormap(colors...), nil
}

func mustColormap(specs ...string) Gradient {
	g, err := ParseColormap(specs...)
	if err != nil {
		panic(err)
	}
	return g
}

// Colors returns the control colors.
func (g Gradient) Colors() []color.NRGBA {
	return append([]color.NRGBA(nil), g.colors...)
}

// Map implements palette.Continuous. x is clamped to [0, 1].
func (g Gradient) Map(x float64) color.Color {
	n := len(g.colors) - 1
	switch {
	case n <= 0:
		return g.colors[0]
	case math.IsNaN(x) || x <= 0:
		return g.colors[0]
	case x >= 1:
		return g.colors[n]
	}
	ip, frac := math.Modf(x * float64(n))
	i := int(ip)
	if i >= n {
		return g.colors[n]
	}
	a, b := g.colors[i], g.colors[i+1]
	return color.NRGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: lerp8(a.A, b.A, frac),
	}
}

// PerceptualColormap returns go-gg's RGBGradient over colors, which blends
// neighbouring colors in linear light rather than channel by channel in
// sRGB.
func PerceptualColormap(colors ...color.Color) Colormap {
	g := palette.RGBGradient{Colors: make([]color.RGBA, len(colors))}
	for i, c := range colors {
		g.Colors[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}
	return g
}

// Built-in colormaps.
var (
	// DefaultColormap runs from light blue to dark blue.
	DefaultColormap = mustColormap("lightblue", "darkblue")

	// Viridis approximates matplotlib's viridis with five control colors.
	Viridis = mustColormap("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")

	// Hot runs black, red, yellow, white.
	Hot = mustColormap("black", "red", "yellow", "white")

	// Greys runs from white to black.
	Greys = mustColormap("white", "black")
)

// ColormapByName returns a built-in colormap: "default", "viridis", "hot"
// or "greys".
func ColormapByName(name string) (Gradient, bool) {
	switch name {
	case "default":
		return DefaultColormap, true
	case "viridis":
		return Viridis, true
	case "hot":
		return Hot, true
	case "greys", "grays":
		return Greys, true
	}
	return Gradient{}, false
}
