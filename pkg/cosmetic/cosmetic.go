// Package cosmetic implements the region-targeted cosmetic filters: skin
// tone shift, smoothing, eye brightening, blush and makeup.
//
// Apply runs the steps in a fixed order on one working buffer. Each step
// reads what the previous step committed and clamps its own writes.
package cosmetic

import (
	"github.com/menta2k/image-filter/pkg/blur"
	"github.com/menta2k/image-filter/pkg/pixel"
	"github.com/menta2k/image-filter/pkg/region"
)

// Params holds the cosmetic intensities. The zero value is a no-op.
type Params struct {
	SkinTone      int
	Smoothing     int
	EyeBrightness int
	Blush         int
	Makeup        int
}

// IsZero reports whether no step would change the image.
func (p Params) IsZero() bool {
	return p.SkinTone == 0 && blur.Passes(p.Smoothing) == 0 &&
		p.EyeBrightness <= 0 && p.Blush <= 0 && p.Makeup <= 0
}

// Apply runs every enabled step on buf in order: skin tone, smoothing, eye
// brightening, blush, makeup.
func Apply(buf *pixel.Buffer, p Params) {
	ApplyParallel(buf, p, 1)
}

// ApplyParallel is Apply with each step split across workers row bands.
func ApplyParallel(buf *pixel.Buffer, p Params, workers int) {
	if buf.Empty() {
		return
	}
	skinTone(buf, p.SkinTone, workers)
	blur.BoxParallel(buf, blur.Passes(p.Smoothing), workers)
	brightenEyes(buf, p.EyeBrightness, workers)
	blush(buf, p.Blush, workers)
	makeup(buf, p.Makeup, workers)
}

// SkinTone shifts every pixel warmer (positive) or cooler (negative):
// R by shift and G by half of it. Blue is untouched.
func SkinTone(buf *pixel.Buffer, shift int) {
	skinTone(buf, shift, 1)
}

// Smooth blurs the whole buffer with one box pass per ten units.
func Smooth(buf *pixel.Buffer, smoothing int) {
	blur.Box(buf, blur.Passes(smoothing))
}

// BrightenEyes lifts R, G and B inside the eye zones.
func BrightenEyes(buf *pixel.Buffer, intensity int) {
	brightenEyes(buf, intensity, 1)
}

// Blush adds a warm tint inside the cheek zones.
func Blush(buf *pixel.Buffer, intensity int) {
	blush(buf, intensity, 1)
}

// Makeup tints the lips zone red and the eyelid zones toward blue.
func Makeup(buf *pixel.Buffer, intensity int) {
	makeup(buf, intensity, 1)
}

func skinTone(buf *pixel.Buffer, shift, workers int) {
	if shift == 0 || buf.Empty() {
		return
	}
	pix := buf.Pix()
	stride := buf.Stride()
	s := float64(shift)
	pixel.Rows(buf.Height(), workers, func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += 4 {
			pix[i] = pixel.Clamp(float64(pix[i]) + s)
			pix[i+1] = pixel.Clamp(float64(pix[i+1]) + s*0.5)
		}
	})
}

func brightenEyes(buf *pixel.Buffer, intensity, workers int) {
	if intensity <= 0 {
		return
	}
	k := float64(intensity) * 0.8
	masked(buf, workers, region.Eyes.Weight, func(p []uint8, w float64) {
		amount := k * w
		p[0] = pixel.Clamp(float64(p[0]) + amount)
		p[1] = pixel.Clamp(float64(p[1]) + amount)
		p[2] = pixel.Clamp(float64(p[2]) + amount)
	})
}

func blush(buf *pixel.Buffer, intensity, workers int) {
	if intensity <= 0 {
		return
	}
	k := float64(intensity) * 0.6
	masked(buf, workers, region.Cheeks.Weight, func(p []uint8, w float64) {
		amount := k * w
		p[0] = pixel.Clamp(float64(p[0]) + amount*0.4)
		p[1] = pixel.Clamp(float64(p[1]) + amount*0.2)
		p[2] = pixel.Clamp(float64(p[2]) - amount*0.3)
	})
}

func makeup(buf *pixel.Buffer, intensity, workers int) {
	if intensity <= 0 || buf.Empty() {
		return
	}
	lipK := float64(intensity) * 0.5
	lidK := float64(intensity) * 0.4
	width, height := buf.Width(), buf.Height()
	pix := buf.Pix()

	pixel.Rows(height, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			i := y * width * 4
			for x := 0; x < width; x++ {
				p := pix[i : i+4 : i+4]
				if w := region.Lips.Weight(x, y, width, height); w > 0 {
					amount := lipK * w
					p[0] = pixel.Clamp(float64(p[0]) + amount*0.6)
					p[1] = pixel.Clamp(float64(p[1]) - amount*0.3)
					p[2] = pixel.Clamp(float64(p[2]) - amount*0.2)
				}
				if w := region.Lids.Weight(x, y, width, height); w > 0 {
					amount := lidK * w
					p[0] = pixel.Clamp(float64(p[0]) - amount*0.2)
					p[1] = pixel.Clamp(float64(p[1]) - amount*0.3)
					p[2] = pixel.Clamp(float64(p[2]) + amount*0.5)
				}
				i += 4
			}
		}
	})
}

// masked calls fn for every pixel whose zone weight is positive.
func masked(buf *pixel.Buffer, workers int, weight func(x, y, w, h int) float64, fn func(p []uint8, w float64)) {
	if buf.Empty() {
		return
	}
	width, height := buf.Width(), buf.Height()
	pix := buf.Pix()

	pixel.Rows(height, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			i := y * width * 4
			for x := 0; x < width; x++ {
				if w := weight(x, y, width, height); w > 0 {
					fn(pix[i:i+4:i+4], w)
				}
				i += 4
			}
		}
	})
}
