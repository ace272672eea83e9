package pixel

import (
	"image"
	"image/color"
	"math"
	"sync"
	"testing"
)

// createTestImage creates a gradient test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			img.Set(x, y, color.RGBA{r, g, 128, 255})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	b := New(4, 3)
	if b.Width() != 4 || b.Height() != 3 {
		t.Fatalf("Expected 4x3, got %dx%d", b.Width(), b.Height())
	}
	if len(b.Pix()) != 4*3*4 {
		t.Errorf("Expected %d channel bytes, got %d", 4*3*4, len(b.Pix()))
	}
	if b.Stride() != 16 {
		t.Errorf("Expected stride 16, got %d", b.Stride())
	}

	r, g, bl, a, ok := b.At(1, 1)
	if !ok || r != 0 || g != 0 || bl != 0 || a != 255 {
		t.Errorf("Expected opaque black, got (%d,%d,%d,%d) ok=%v", r, g, bl, a, ok)
	}
}

func TestNewNegativeDimensions(t *testing.T) {
	b := New(-1, 5)
	if !b.Empty() {
		t.Error("Expected buffer with negative width to be empty")
	}
}

func TestSetAndAt(t *testing.T) {
	b := New(3, 3)
	if !b.Set(2, 1, 10, 20, 30, 255) {
		t.Fatal("Set inside bounds reported false")
	}

	r, g, bl, a, ok := b.At(2, 1)
	if !ok || r != 10 || g != 20 || bl != 30 || a != 255 {
		t.Errorf("Unexpected pixel (%d,%d,%d,%d) ok=%v", r, g, bl, a, ok)
	}
}

func TestOutOfBoundsDoesNotWrap(t *testing.T) {
	b := New(3, 3)
	before := b.Clone()

	// x == width would land on the first pixel of the next row in a flat array
	cases := [][2]int{{3, 0}, {-1, 1}, {0, 3}, {0, -1}, {5, 5}}
	for _, c := range cases {
		if b.Set(c[0], c[1], 255, 255, 255, 255) {
			t.Errorf("Set(%d,%d) should be rejected", c[0], c[1])
		}
		if _, _, _, _, ok := b.At(c[0], c[1]); ok {
			t.Errorf("At(%d,%d) should be rejected", c[0], c[1])
		}
	}

	if !b.Equal(before) {
		t.Error("Out-of-bounds writes modified the buffer")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(2, 2)
	c := b.Clone()
	c.Set(0, 0, 9, 9, 9, 255)

	if r, _, _, _, _ := b.At(0, 0); r != 0 {
		t.Error("Writing to the clone changed the original")
	}
	if b.Equal(c) {
		t.Error("Expected buffers to differ after write")
	}
}

func TestEqual(t *testing.T) {
	if !New(2, 2).Equal(New(2, 2)) {
		t.Error("Identical buffers should be equal")
	}
	if New(2, 2).Equal(New(2, 3)) {
		t.Error("Buffers of different sizes should not be equal")
	}
	var nilBuf *Buffer
	if nilBuf.Equal(New(1, 1)) {
		t.Error("nil buffer should not equal a non-nil buffer")
	}
}

func TestFromImageRoundTrip(t *testing.T) {
	img := createTestImage(20, 10)
	b := FromImage(img)

	if b.Width() != 20 || b.Height() != 10 {
		t.Fatalf("Expected 20x10, got %dx%d", b.Width(), b.Height())
	}

	out := b.Image()
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			want := img.At(x, y).(color.RGBA)
			got := out.NRGBAAt(x, y)
			if got.R != want.R || got.G != want.G || got.B != want.B || got.A != 255 {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestFromImageForcesOpaque(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{100, 50, 25, 10})

	b := FromImage(img)
	r, g, bl, a, _ := b.At(1, 1)
	if r != 100 || g != 50 || bl != 25 || a != 255 {
		t.Errorf("Expected (100,50,25,255), got (%d,%d,%d,%d)", r, g, bl, a)
	}
}

func TestFromImageSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 2, color.NRGBA{200, 0, 0, 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	b := FromImage(sub)
	if b.Width() != 2 || b.Height() != 2 {
		t.Fatalf("Expected 2x2, got %dx%d", b.Width(), b.Height())
	}
	if r, _, _, _, _ := b.At(0, 0); r != 200 {
		t.Errorf("Expected sub-image origin to map to (0,0), got red %d", r)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{0.4, 0},
		{0.5, 0},
		{1.5, 2},
		{127.6, 128},
		{254.5, 254},
		{255, 255},
		{300, 255},
		{math.Inf(1), 255},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if ClampInt(-5) != 0 || ClampInt(128) != 128 || ClampInt(512) != 255 {
		t.Error("ClampInt did not clamp to [0,255]")
	}
}

func TestRowsCoversEveryRowOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8, 100} {
		seen := make([]int, 37)
		var mu sync.Mutex
		Rows(len(seen), workers, func(y0, y1 int) {
			mu.Lock()
			defer mu.Unlock()
			for y := y0; y < y1; y++ {
				seen[y]++
			}
		})
		for y, n := range seen {
			if n != 1 {
				t.Errorf("workers=%d: row %d visited %d times", workers, y, n)
			}
		}
	}
}

func BenchmarkFromImage(b *testing.B) {
	img := createTestImage(1920, 1080)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FromImage(img)
	}
}
