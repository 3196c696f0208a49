package shade

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Image is the final product of the pipeline: a width x height buffer of
// straight-alpha RGBA pixels, 4 bytes per pixel.
//
// Pixel (col, row) corresponds to aggregate cell (col, row), so row 0 holds
// the lowest y values. The image.Image view (At, ToImage, EncodePNG) flips
// rows so that y grows upward on screen.
type Image struct {
	width  int
	height int
	data   []uint8
}

// NewImage creates a fully transparent image.
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the height in pixels.
func (m *Image) Height() int { return m.height }

// Data returns the raw pixel data, row-major from row 0, in NRGBA order.
func (m *Image) Data() []uint8 { return m.data }

// Pixel returns the color at (col, row) in cell coordinates.
// Out-of-bounds coordinates return Transparent.
func (m *Image) Pixel(col, row int) color.NRGBA {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		return Transparent
	}
	i := (row*m.width + col) * 4
	return color.NRGBA{R: m.data[i], G: m.data[i+1], B: m.data[i+2], A: m.data[i+3]}
}

// SetPixel sets the color at (col, row) in cell coordinates.
// Out-of-bounds coordinates are ignored.
func (m *Image) SetPixel(col, row int, c color.NRGBA) {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		return
	}
	i := (row*m.width + col) * 4
	m.data[i+0] = c.R
	m.data[i+1] = c.G
	m.data[i+2] = c.B
	m.data[i+3] = c.A
}

// Opaque reports whether the pixel at (col, row) is not fully transparent.
func (m *Image) Opaque(col, row int) bool {
	return m.Pixel(col, row).A != 0
}

// Coverage returns the number of pixels that are not fully transparent.
func (m *Image) Coverage() int {
	n := 0
	for i := 3; i < len(m.data); i += 4 {
		if m.data[i] != 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	return &Image{width: m.width, height: m.height, data: append([]uint8(nil), m.data...)}
}

func (m *Image) sameShape(o *Image) error {
	if m.width != o.width || m.height != o.height {
		return fmt.Errorf("%w: image %dx%d vs %dx%d", ErrShapeMismatch, m.width, m.height, o.width, o.height)
	}
	return nil
}

// ToImage converts to an *image.NRGBA with y growing upward on screen.
func (m *Image) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	stride := m.width * 4
	for row := 0; row < m.height; row++ {
		dst := (m.height - 1 - row) * img.Stride
		copy(img.Pix[dst:dst+stride], m.data[row*stride:(row+1)*stride])
	}
	return img
}

// EncodePNG writes the image as PNG.
func (m *Image) EncodePNG(w io.Writer) error {
	return png.Encode(w, m.ToImage())
}

// SavePNG writes the image to a PNG file.
func (m *Image) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := m.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Resize returns the image scaled to width x height with nearest-neighbour
// sampling, so cell boundaries stay crisp when enlarging small grids.
func (m *Image) Resize(width, height int) *Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), m.ToImage(), image.Rect(0, 0, m.width, m.height), xdraw.Src, nil)

	out := NewImage(width, height)
	stride := width * 4
	for row := 0; row < height; row++ {
		src := (height - 1 - row) * dst.Stride
		copy(out.data[row*stride:(row+1)*stride], dst.Pix[src:src+stride])
	}
	return out
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	return m.Pixel(x, m.height-1-y)
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}
