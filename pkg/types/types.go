package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/menta2k/image-filter/pkg/tone"
)

// ErrOutOfRangeConfig is returned when a FilterConfig value lies outside
// its documented range.
var ErrOutOfRangeConfig = errors.New("filter config value out of range")

// Value ranges accepted by FilterConfig.Validate.
const (
	MaxShift      = 255
	MaxBlurPasses = 10
	MaxIntensity  = 100
)

// FilterConfig holds the control values for one pipeline run. Every field
// is optional; the zero value leaves the image unchanged.
type FilterConfig struct {
	Brightness    int        `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	BlurPasses    int        `json:"blur_passes,omitempty" yaml:"blur_passes,omitempty"`
	Style         tone.Style `json:"style,omitempty" yaml:"style,omitempty"`
	Smoothing     int        `json:"smoothing,omitempty" yaml:"smoothing,omitempty"`
	SkinTone      int        `json:"skin_tone,omitempty" yaml:"skin_tone,omitempty"`
	EyeBrightness int        `json:"eye_brightness,omitempty" yaml:"eye_brightness,omitempty"`
	Blush         int        `json:"blush,omitempty" yaml:"blush,omitempty"`
	Makeup        int        `json:"makeup,omitempty" yaml:"makeup,omitempty"`
	FaceSlimming  int        `json:"face_slimming,omitempty" yaml:"face_slimming,omitempty"`
}

// IsZero reports whether the config is the reset state.
func (c FilterConfig) IsZero() bool {
	return c == FilterConfig{}
}

// Validate checks every field against its range. The returned error wraps
// ErrOutOfRangeConfig and names the first offending field.
func (c FilterConfig) Validate() error {
	checks := []struct {
		name     string
		value    int
		min, max int
	}{
		{"brightness", c.Brightness, -MaxShift, MaxShift},
		{"blur_passes", c.BlurPasses, 0, MaxBlurPasses},
		{"smoothing", c.Smoothing, 0, MaxIntensity},
		{"skin_tone", c.SkinTone, -MaxShift, MaxShift},
		{"eye_brightness", c.EyeBrightness, 0, MaxIntensity},
		{"blush", c.Blush, 0, MaxIntensity},
		{"makeup", c.Makeup, 0, MaxIntensity},
		{"face_slimming", c.FaceSlimming, 0, MaxIntensity},
	}
	for _, chk := range checks {
		if chk.value < chk.min || chk.value > chk.max {
			return fmt.Errorf("%w: %s=%d must be between %d and %d",
				ErrOutOfRangeConfig, chk.name, chk.value, chk.min, chk.max)
		}
	}
	if !c.Style.Valid() {
		return fmt.Errorf("%w: style=%d is not a known filter", ErrOutOfRangeConfig, int(c.Style))
	}
	return nil
}

// EncodeOptions controls how the filtered image is compressed.
type EncodeOptions struct {
	Format   string `json:"format" yaml:"format"`
	Quality  int    `json:"quality" yaml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless"`
}

// DefaultEncodeOptions returns JPEG at quality 90.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Format: "jpg", Quality: 90}
}

// WithDefaults fills an empty format or zero quality from
// DefaultEncodeOptions and lower-cases the format.
func (o EncodeOptions) WithDefaults() EncodeOptions {
	def := DefaultEncodeOptions()
	if o.Format == "" {
		o.Format = def.Format
	}
	o.Format = strings.ToLower(o.Format)
	if o.Quality == 0 {
		o.Quality = def.Quality
	}
	return o
}

// Validate checks the encode options.
func (o EncodeOptions) Validate() error {
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", o.Quality)
	}
	switch o.Format {
	case "jpg", "jpeg", "png", "webp":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", o.Format)
	}
}
