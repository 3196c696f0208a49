package shade

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent is the color of masked pixels.
var Transparent = color.NRGBA{}

// ParseColor parses a color given as a hex string ("#rgb", "#rgba",
// "#rrggbb", "#rrggbbaa", leading '#' optional) or an SVG color name such
// as "lightblue".
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if c, ok := parseHex(strings.TrimPrefix(name, "#")); ok {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("shade: unknown color %q", s)
}

// MustParseColor is like ParseColor but panics on error.
// It is intended for package-level color tables.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(hex string) (color.NRGBA, bool) {
	digits := make([]uint8, len(hex))
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		switch {
		case '0' <= c && c <= '9':
			digits[i] = c - '0'
		case 'a' <= c && c <= 'f':
			digits[i] = c - 'a' + 10
		default:
			return color.NRGBA{}, false
		}
	}

	switch len(digits) {
	case 3, 4: // rgb, rgba
		c := color.NRGBA{R: digits[0] * 17, G: digits[1] * 17, B: digits[2] * 17, A: 255}
		if len(digits) == 4 {
			c.A = digits[3] * 17
		}
		return c, true
	case 6, 8: // rrggbb, rrggbbaa
		c := color.NRGBA{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
			A: 255,
		}
		if len(digits) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
		return c, true
	default:
		return color.NRGBA{}, false
	}
}

// toNRGBA converts any color to non-premultiplied 8-bit RGBA.
func toNRGBA(c color.Color) color.NRGBA {
	if n, ok := c.(color.NRGBA); ok {
		return n
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// lerp8 interpolates two channel values, rounding to nearest.
func lerp8(a, b uint8, t float64) uint8 {
	return uint8(clamp255(math.Round(float64(a) + (float64(b)-float64(a))*t)))
}

// clamp255 restricts a value to [0, 255].
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
