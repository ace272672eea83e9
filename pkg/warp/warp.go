// Package warp implements the horizontal face-slimming pull-warp.
package warp

import (
	"math"

	"github.com/menta2k/image-filter/pkg/pixel"
)

// FaceWidth is the half-width of the slimming band as a fraction of the
// image width.
const FaceWidth = 0.4

// Slim returns a new buffer where columns inside the face band sample from
// nearer the vertical centerline. src is not modified. intensity <= 0
// returns an unmodified copy.
func Slim(src *pixel.Buffer, intensity int) *pixel.Buffer {
	return SlimParallel(src, intensity, 1)
}

// SlimParallel is Slim with rows split across workers.
func SlimParallel(src *pixel.Buffer, intensity, workers int) *pixel.Buffer {
	if intensity <= 0 || src.Empty() {
		return src.Clone()
	}

	width, height := src.Width(), src.Height()
	cols := sourceColumns(width, intensity)

	in := src.Pix()
	dst := pixel.New(width, height)
	out := dst.Pix()
	stride := dst.Stride()

	pixel.Rows(height, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * stride
			for x, sx := range cols {
				copy(out[row+x*4:row+x*4+4], in[row+sx*4:row+sx*4+4])
			}
		}
	})
	return dst
}

// SourceX returns the column sampled for output column x. The result is
// always within [0, width-1].
func SourceX(x, width, intensity int) int {
	if width <= 0 {
		return 0
	}
	centerX := float64(width) / 2
	faceWidth := float64(width) * FaceWidth
	slimming := float64(intensity) * 0.8

	sx := float64(x)
	if dist := math.Abs(sx - centerX); intensity > 0 && dist < faceWidth {
		falloff := 1 - dist/faceWidth
		sx = centerX + (sx-centerX)*(1-falloff*slimming/100)
	}

	// round half up, then clamp
	col := int(math.Floor(sx + 0.5))
	if col < 0 {
		return 0
	}
	if col > width-1 {
		return width - 1
	}
	return col
}

// sourceColumns computes SourceX once per column; the mapping is the same
// for every row.
func sourceColumns(width, intensity int) []int {
	cols := make([]int, width)
	for x := range cols {
		cols[x] = SourceX(x, width, intensity)
	}
	return cols
}
