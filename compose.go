package shade

import (
	"fmt"
	"image/color"

	"github.com/gogpu/shade/internal/blend"
)

// Stack composites images of equal size, each later image painted over the
// ones before it. It returns an error wrapping ErrShapeMismatch when the
// sizes differ.
func Stack(imgs ...*Image) (*Image, error) {
	return StackWith(ComposeOver, imgs...)
}

// StackWith is like Stack with an explicit compositing mode.
func StackWith(mode Compose, imgs ...*Image) (*Image, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", ErrShapeMismatch)
	}
	out := imgs[0].Clone()
	for _, img := range imgs[1:] {
		if err := out.sameShape(img); err != nil {
			return nil, err
		}
		for i := 0; i < len(out.data); i += 4 {
			src := color.NRGBA{R: img.data[i], G: img.data[i+1], B: img.data[i+2], A: img.data[i+3]}
			dst := color.NRGBA{R: out.data[i], G: out.data[i+1], B: out.data[i+2], A: out.data[i+3]}
			c := blend.Composite(src, dst, mode)
			out.data[i], out.data[i+1], out.data[i+2], out.data[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return out, nil
}

// SetBackground paints img over a solid background color. An opaque
// background yields an opaque image.
func SetBackground(img *Image, bg color.Color) *Image {
	back := NewImage(img.width, img.height)
	c := toNRGBA(bg)
	for i := 0; i < len(back.data); i += 4 {
		back.data[i], back.data[i+1], back.data[i+2], back.data[i+3] = c.R, c.G, c.B, c.A
	}
	out, _ := Stack(back, img)
	return out
}
