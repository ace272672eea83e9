// Package blur implements the multi-pass 3×3 box blur used for the blur
// pre-pass and for skin smoothing.
//
// All passes read from one snapshot taken before the first pass, so the
// result of N passes equals the result of one. Only interior pixels are
// written; the one-pixel border keeps its original values.
package blur

import "github.com/menta2k/image-filter/pkg/pixel"

// Box blurs buf in place with the given number of passes. passes <= 0 is a
// no-op.
func Box(buf *pixel.Buffer, passes int) {
	BoxParallel(buf, passes, 1)
}

// BoxParallel is Box with interior rows split across workers.
func BoxParallel(buf *pixel.Buffer, passes, workers int) {
	if passes <= 0 || buf.Empty() {
		return
	}
	width, height := buf.Width(), buf.Height()
	if width < 3 || height < 3 {
		return
	}

	snapshot := buf.Clone().Pix()
	pix := buf.Pix()
	stride := buf.Stride()

	for pass := 0; pass < passes; pass++ {
		// rows 1..height-2 mapped onto [0, height-2)
		pixel.Rows(height-2, workers, func(r0, r1 int) {
			for row := r0 + 1; row < r1+1; row++ {
				for col := 1; col < width-1; col++ {
					var r, g, b int
					for dy := -1; dy <= 1; dy++ {
						j := (row+dy)*stride + (col-1)*4
						for dx := 0; dx < 3; dx++ {
							r += int(snapshot[j])
							g += int(snapshot[j+1])
							b += int(snapshot[j+2])
							j += 4
						}
					}
					i := row*stride + col*4
					pix[i] = uint8((r + 4) / 9)
					pix[i+1] = uint8((g + 4) / 9)
					pix[i+2] = uint8((b + 4) / 9)
				}
			}
		})
	}
}

// Passes converts a smoothing intensity into a pass count: one pass per
// full ten units.
func Passes(smoothing int) int {
	if smoothing <= 0 {
		return 0
	}
	return smoothing / 10
}
