package cosmetic

import (
	"testing"

	"github.com/menta2k/image-filter/pkg/pixel"
)

// createTestBuffer creates a uniformly coloured buffer
func createTestBuffer(width, height int, v uint8) *pixel.Buffer {
	buf := pixel.New(width, height)
	buf.Fill(v, v, v, 255)
	return buf
}

// createSymmetricBuffer creates a buffer whose columns x and width-x match
func createSymmetricBuffer(width, height int) *pixel.Buffer {
	buf := pixel.New(width, height)
	cx := width / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := x - cx
			if d < 0 {
				d = -d
			}
			buf.Set(x, y, uint8(60+d*3), uint8(40+y*2), uint8(200-d*2), 255)
		}
	}
	return buf
}

func assertPixel(t *testing.T, buf *pixel.Buffer, x, y int, r, g, b uint8) {
	t.Helper()
	gr, gg, gb, ga, _ := buf.At(x, y)
	if gr != r || gg != g || gb != b || ga != 255 {
		t.Errorf("pixel (%d,%d): expected (%d,%d,%d,255), got (%d,%d,%d,%d)", x, y, r, g, b, gr, gg, gb, ga)
	}
}

func TestZeroParamsIsNoop(t *testing.T) {
	buf := createSymmetricBuffer(40, 30)
	before := buf.Clone()

	if !(Params{}).IsZero() {
		t.Error("Zero params should report IsZero")
	}
	Apply(buf, Params{})
	if !buf.Equal(before) {
		t.Error("Apply with zero params modified the buffer")
	}

	// smoothing below one full pass is also a no-op
	Apply(buf, Params{Smoothing: 9})
	if !buf.Equal(before) {
		t.Error("Smoothing below 10 modified the buffer")
	}
}

func TestSkinTone(t *testing.T) {
	tests := []struct {
		name  string
		shift int
		want  [3]uint8
	}{
		{"warmer", 20, [3]uint8{120, 110, 100}},
		{"cooler", -30, [3]uint8{70, 85, 100}},
		{"half rounds to even up", 3, [3]uint8{103, 102, 100}},
		{"half rounds to even down", 1, [3]uint8{101, 100, 100}},
		{"clamped", 255, [3]uint8{255, 228, 100}},
		{"clamped low", -255, [3]uint8{0, 0, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := createTestBuffer(3, 3, 100)
			SkinTone(buf, tt.shift)
			assertPixel(t, buf, 1, 1, tt.want[0], tt.want[1], tt.want[2])
		})
	}
}

func TestBrightenEyes(t *testing.T) {
	buf := createTestBuffer(100, 100, 100)
	BrightenEyes(buf, 50)

	// centers of the eye zones get the full 0.8 * intensity
	assertPixel(t, buf, 40, 35, 140, 140, 140)
	assertPixel(t, buf, 60, 35, 140, 140, 140)
	// outside every zone nothing changes
	assertPixel(t, buf, 0, 99, 100, 100, 100)
	assertPixel(t, buf, 50, 80, 100, 100, 100)
}

func TestBrightenEyesOverlapUsesMax(t *testing.T) {
	buf := createTestBuffer(100, 100, 100)
	BrightenEyes(buf, 100)

	// on the centerline both zones give weight 1-10/15; max, not sum
	r, _, _, _, _ := buf.At(50, 35)
	want := pixel.Clamp(100 + 100*0.8*(1-10.0/15.0))
	if r != want {
		t.Errorf("Expected %d on the centerline, got %d", want, r)
	}
}

func TestBlush(t *testing.T) {
	buf := createTestBuffer(100, 100, 100)
	Blush(buf, 100)

	assertPixel(t, buf, 32, 50, 124, 112, 82)
	assertPixel(t, buf, 68, 50, 124, 112, 82)
	assertPixel(t, buf, 50, 10, 100, 100, 100)
}

func TestMakeup(t *testing.T) {
	buf := createTestBuffer(100, 100, 100)
	Makeup(buf, 100)

	// lips
	assertPixel(t, buf, 50, 65, 130, 85, 90)
	// eyelids
	assertPixel(t, buf, 40, 35, 92, 88, 120)
	assertPixel(t, buf, 60, 35, 92, 88, 120)
	// untouched
	assertPixel(t, buf, 5, 5, 100, 100, 100)
}

func TestSmooth(t *testing.T) {
	buf := createTestBuffer(10, 10, 0)
	buf.Set(5, 5, 90, 90, 90, 255)
	Smooth(buf, 10)

	assertPixel(t, buf, 4, 4, 10, 10, 10)
	assertPixel(t, buf, 5, 5, 10, 10, 10)
	assertPixel(t, buf, 7, 7, 0, 0, 0)
}

func TestApplyOrder(t *testing.T) {
	p := Params{SkinTone: 15, Smoothing: 20, EyeBrightness: 40, Blush: 60, Makeup: 80}

	got := createSymmetricBuffer(60, 80)
	want := got.Clone()

	Apply(got, p)

	SkinTone(want, p.SkinTone)
	Smooth(want, p.Smoothing)
	BrightenEyes(want, p.EyeBrightness)
	Blush(want, p.Blush)
	Makeup(want, p.Makeup)

	if !got.Equal(want) {
		t.Error("Apply does not match the documented step order")
	}
}

func TestRegionSymmetry(t *testing.T) {
	const w, h = 100, 100
	buf := createSymmetricBuffer(w, h)
	BrightenEyes(buf, 70)
	Blush(buf, 90)
	Makeup(buf, 100)

	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			ar, ag, ab, _, _ := buf.At(x, y)
			br, bg, bb, _, _ := buf.At(w-x, y)
			if ar != br || ag != bg || ab != bb {
				t.Fatalf("asymmetric output at (%d,%d): (%d,%d,%d) vs (%d,%d,%d)", x, y, ar, ag, ab, br, bg, bb)
			}
		}
	}
}

func TestExtremeValuesKeepAlpha(t *testing.T) {
	for _, v := range []uint8{0, 255} {
		buf := createTestBuffer(50, 70, v)
		Apply(buf, Params{SkinTone: 255, Smoothing: 100, EyeBrightness: 100, Blush: 100, Makeup: 100})
		pix := buf.Pix()
		for i := 3; i < len(pix); i += 4 {
			if pix[i] != 255 {
				t.Fatalf("alpha changed at byte %d", i)
			}
		}
	}

	buf := createTestBuffer(50, 70, 128)
	Apply(buf, Params{SkinTone: -255})
	assertPixel(t, buf, 10, 10, 0, 0, 128)
}

func TestApplyParallelMatchesSerial(t *testing.T) {
	p := Params{SkinTone: -12, Smoothing: 30, EyeBrightness: 55, Blush: 35, Makeup: 65}
	a := createSymmetricBuffer(73, 91)
	b := a.Clone()

	Apply(a, p)
	ApplyParallel(b, p, 5)
	if !a.Equal(b) {
		t.Error("Parallel cosmetics differ from serial")
	}
}

func BenchmarkApply(b *testing.B) {
	buf := createSymmetricBuffer(1280, 960)
	p := Params{SkinTone: 10, Smoothing: 20, EyeBrightness: 50, Blush: 50, Makeup: 50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Apply(buf, p)
	}
}
