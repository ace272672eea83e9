package pixel

import (
	"image"
	"image/color"
	"math"
)

// Buffer is a width×height RGBA raster stored as flat channel bytes.
// Rows are packed with a stride of width*4. Alpha is kept opaque.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New creates an opaque black buffer with the given dimensions.
// Negative dimensions are treated as zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
	for i := 3; i < len(b.pix); i += 4 {
		b.pix[i] = 255
	}
	return b
}

// Width returns the width of the buffer in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride returns the number of bytes between vertically adjacent pixels.
func (b *Buffer) Stride() int {
	return b.width * 4
}

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.width == 0 || b.height == 0
}

// Pix returns the raw channel data. Stages write into it directly and are
// responsible for clamping.
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

// Offset returns the index of the red channel of (x, y) and whether the
// coordinate lies inside the buffer.
func (b *Buffer) Offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return y*b.width*4 + x*4, true
}

// At returns the channels of the pixel at (x, y). ok is false for
// out-of-bounds coordinates, in which case all channels are zero.
func (b *Buffer) At(x, y int) (r, g, bl, a uint8, ok bool) {
	i, ok := b.Offset(x, y)
	if !ok {
		return 0, 0, 0, 0, false
	}
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3], true
}

// Set writes the pixel at (x, y) and reports whether it was in bounds.
// Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) bool {
	i, ok := b.Offset(x, y)
	if !ok {
		return false
	}
	b.pix[i] = r
	b.pix[i+1] = g
	b.pix[i+2] = bl
	b.pix[i+3] = a
	return true
}

// Fill sets every pixel to the given colour.
func (b *Buffer) Fill(r, g, bl, a uint8) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i] = r
		b.pix[i+1] = g
		b.pix[i+2] = bl
		b.pix[i+3] = a
	}
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Equal reports whether both buffers have the same dimensions and bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// FromImage copies img into a new buffer. Alpha is forced to 255.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	b := New(width, height)

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < height; y++ {
			si := (y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride + (bounds.Min.X-src.Rect.Min.X)*4
			di := y * width * 4
			for x := 0; x < width; x++ {
				b.pix[di] = src.Pix[si]
				b.pix[di+1] = src.Pix[si+1]
				b.pix[di+2] = src.Pix[si+2]
				si += 4
				di += 4
			}
		}
		return b
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.Set(x, y, c.R, c.G, c.B, 255)
		}
	}
	return b
}

// Image returns a copy of the buffer as an *image.NRGBA.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

// Bounds returns the rectangle covered by the buffer.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Clamp rounds v half to even and clamps it to [0, 255]. NaN maps to 0.
func Clamp(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// ClampInt clamps v to [0, 255].
func ClampInt(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
