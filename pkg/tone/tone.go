// Package tone implements the global tone stages: a uniform brightness
// offset and the mutually exclusive stylized colour filters.
package tone

import (
	"fmt"
	"strings"

	"github.com/menta2k/image-filter/pkg/pixel"
)

// Style selects one of the stylized colour filters.
type Style int

const (
	None Style = iota
	Warm
	Cool
	Vintage
)

var styleNames = map[Style]string{
	None:    "none",
	Warm:    "warm",
	Cool:    "cool",
	Vintage: "vintage",
}

// String returns the lowercase name of the style.
func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

// ParseStyle parses a style name. The empty string is None.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	for s, n := range styleNames {
		if n == name {
			return s, nil
		}
	}
	return None, fmt.Errorf("unknown style filter %q (use none, warm, cool or vintage)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid style %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Sepia coefficients for the vintage filter, one row per output channel.
var sepia = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// Brightness adds delta to the R, G and B channels of every pixel.
func Brightness(buf *pixel.Buffer, delta int) {
	BrightnessParallel(buf, delta, 1)
}

// BrightnessParallel is Brightness split across workers row bands.
func BrightnessParallel(buf *pixel.Buffer, delta, workers int) {
	if delta == 0 || buf.Empty() {
		return
	}
	pix := buf.Pix()
	stride := buf.Stride()
	pixel.Rows(buf.Height(), workers, func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += 4 {
			pix[i] = pixel.ClampInt(int(pix[i]) + delta)
			pix[i+1] = pixel.ClampInt(int(pix[i+1]) + delta)
			pix[i+2] = pixel.ClampInt(int(pix[i+2]) + delta)
		}
	})
}

// ApplyStyle applies the selected colour filter in place. None and unknown
// styles leave the buffer untouched.
func ApplyStyle(buf *pixel.Buffer, style Style) {
	ApplyStyleParallel(buf, style, 1)
}

// ApplyStyleParallel is ApplyStyle split across workers row bands.
func ApplyStyleParallel(buf *pixel.Buffer, style Style, workers int) {
	if buf.Empty() {
		return
	}

	var fn func(p []uint8)
	switch style {
	case Warm:
		fn = func(p []uint8) {
			p[0] = pixel.ClampInt(int(p[0]) + 30)
			p[2] = pixel.ClampInt(int(p[2]) - 20)
		}
	case Cool:
		fn = func(p []uint8) {
			p[0] = pixel.ClampInt(int(p[0]) - 20)
			p[2] = pixel.ClampInt(int(p[2]) + 30)
		}
	case Vintage:
		fn = func(p []uint8) {
			r, g, b := float64(p[0]), float64(p[1]), float64(p[2])
			p[0] = pixel.Clamp(sepia[0][0]*r + sepia[0][1]*g + sepia[0][2]*b)
			p[1] = pixel.Clamp(sepia[1][0]*r + sepia[1][1]*g + sepia[1][2]*b)
			p[2] = pixel.Clamp(sepia[2][0]*r + sepia[2][1]*g + sepia[2][2]*b)
		}
	default:
		return
	}

	pix := buf.Pix()
	stride := buf.Stride()
	pixel.Rows(buf.Height(), workers, func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += 4 {
			fn(pix[i : i+4 : i+4])
		}
	})
}
