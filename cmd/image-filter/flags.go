package main

import (
	"github.com/spf13/cobra"

	"github.com/menta2k/image-filter/internal/config"
	"github.com/menta2k/image-filter/pkg/tone"
)

// filterFlags holds command-line overrides for the filter and output
// sections. Only flags the user set replace config values.
type filterFlags struct {
	brightness    int
	blurPasses    int
	style         string
	smoothing     int
	skinTone      int
	eyeBrightness int
	blush         int
	makeup        int
	faceSlimming  int
	reset         bool

	format   string
	quality  int
	lossless bool
}

func bindFilterFlags(cmd *cobra.Command, f *filterFlags) {
	fs := cmd.Flags()
	fs.IntVar(&f.brightness, "brightness", 0, "brightness shift (-255..255)")
	fs.IntVar(&f.blurPasses, "blur", 0, "box blur pre-pass count (0..10)")
	fs.StringVar(&f.style, "style", "none", "colour style: none|warm|cool|vintage")
	fs.IntVar(&f.smoothing, "smoothing", 0, "skin smoothing intensity (0..100)")
	fs.IntVar(&f.skinTone, "skin-tone", 0, "skin tone shift (-255..255)")
	fs.IntVar(&f.eyeBrightness, "eye-brightness", 0, "eye brightening intensity (0..100)")
	fs.IntVar(&f.blush, "blush", 0, "blush intensity (0..100)")
	fs.IntVar(&f.makeup, "makeup", 0, "lip and eyelid makeup intensity (0..100)")
	fs.IntVar(&f.faceSlimming, "slim", 0, "face slimming intensity (0..100)")
	fs.BoolVar(&f.reset, "reset", false, "ignore filter values from the config file")

	fs.StringVar(&f.format, "format", "", "output format: jpg|png|webp (default from config)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG/WebP quality 1..100 (default from config)")
	fs.BoolVar(&f.lossless, "lossless", false, "WebP lossless mode")
}

// apply merges the set flags into c.
func (f *filterFlags) apply(cmd *cobra.Command, c *config.Config) error {
	fs := cmd.Flags()
	if f.reset {
		c.Filter = config.Default().Filter
	}

	ints := []struct {
		name string
		src  int
		dst  *int
	}{
		{"brightness", f.brightness, &c.Filter.Brightness},
		{"blur", f.blurPasses, &c.Filter.BlurPasses},
		{"smoothing", f.smoothing, &c.Filter.Smoothing},
		{"skin-tone", f.skinTone, &c.Filter.SkinTone},
		{"eye-brightness", f.eyeBrightness, &c.Filter.EyeBrightness},
		{"blush", f.blush, &c.Filter.Blush},
		{"makeup", f.makeup, &c.Filter.Makeup},
		{"slim", f.faceSlimming, &c.Filter.FaceSlimming},
		{"quality", f.quality, &c.Output.Quality},
	}
	for _, v := range ints {
		if fs.Changed(v.name) {
			*v.dst = v.src
		}
	}

	if fs.Changed("style") {
		s, err := tone.ParseStyle(f.style)
		if err != nil {
			return err
		}
		c.Filter.Style = s
	}
	if fs.Changed("format") {
		c.Output.Format = f.format
	}
	if fs.Changed("lossless") {
		c.Output.Lossless = f.lossless
	}

	return c.Validate()
}
