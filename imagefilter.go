// Package imagefilter applies photo-editing filters to raster images.
//
// An edit is described by a types.FilterConfig: a global brightness shift,
// an optional blur pre-pass, one colour style (warm, cool, vintage), a set
// of cosmetic adjustments confined to fixed proportional face regions, and
// a horizontal face-slimming warp. The filtered pixels are encoded to JPEG,
// PNG or WebP and optionally handed to a Sink.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		imagefilter "github.com/menta2k/image-filter"
//		"github.com/menta2k/image-filter/pkg/tone"
//		"github.com/menta2k/image-filter/pkg/types"
//	)
//
//	func main() {
//		f := imagefilter.New()
//		cfg := types.FilterConfig{Brightness: 20, Style: tone.Warm, Blush: 40}
//		err := f.ProcessImageFile(context.Background(), "photo.jpg", "photo_edited.jpg", cfg, types.DefaultEncodeOptions())
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
//  1. Pixel (pkg/pixel): the RGBA buffer every stage reads and writes
//  2. Stages (pkg/tone, pkg/blur, pkg/cosmetic, pkg/warp): the filters
//  3. Pipeline (pkg/pipeline): validation and fixed stage ordering
//  4. Processing (pkg/processing): decoding, encoding and debug overlays
//
// The zero FilterConfig is the reset state and leaves an image unchanged.
package imagefilter

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/menta2k/image-filter/pkg/pipeline"
	"github.com/menta2k/image-filter/pkg/pixel"
	"github.com/menta2k/image-filter/pkg/processing"
	"github.com/menta2k/image-filter/pkg/types"
)

// Version of the image filter library
const Version = "1.0.0"

// Sink receives encoded output. internal/store.Store satisfies it.
type Sink interface {
	Save(ctx context.Context, name, format string, width, height int, data []byte) (int64, error)
}

// ImageFilter provides a high-level interface for loading, filtering and
// encoding images
type ImageFilter struct {
	processor *processing.Processor
	pipeline  *pipeline.Pipeline
	sink      Sink
}

// New creates a new ImageFilter with default configuration
func New() *ImageFilter {
	return &ImageFilter{
		processor: processing.NewProcessor(),
		pipeline:  pipeline.New(),
	}
}

// NewWithConfig creates a new ImageFilter with custom configuration
func NewWithConfig(processingConfig processing.Config, opts ...pipeline.Option) *ImageFilter {
	return &ImageFilter{
		processor: processing.NewProcessorWithConfig(processingConfig),
		pipeline:  pipeline.New(opts...),
	}
}

// SetSink sets where Process hands encoded output. nil disables the sink.
func (f *ImageFilter) SetSink(s Sink) {
	f.sink = s
}

// Result describes one processed image
type Result struct {
	Data   []byte `json:"-"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// StoredID is the sink id, zero when no sink is set.
	StoredID int64 `json:"stored_id,omitempty"`
}

// LoadImage loads an image from a file path or URL
func (f *ImageFilter) LoadImage(source string) (image.Image, error) {
	return f.processor.LoadImageSmart(source)
}

// LoadImageFromReader loads an image from an io.Reader
func (f *ImageFilter) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	return f.processor.LoadImageFromReader(reader)
}

// Apply runs the filter pipeline over img and returns the edited buffer.
func (f *ImageFilter) Apply(ctx context.Context, img image.Image, cfg types.FilterConfig) (*pixel.Buffer, error) {
	src, err := f.processor.ToBuffer(img)
	if err != nil {
		return nil, err
	}
	return f.pipeline.RunContext(ctx, src, cfg)
}

// ApplyToImage is Apply returning a standard image.
func (f *ImageFilter) ApplyToImage(ctx context.Context, img image.Image, cfg types.FilterConfig) (image.Image, error) {
	buf, err := f.Apply(ctx, img, cfg)
	if err != nil {
		return nil, err
	}
	return buf.Image(), nil
}

// Encode compresses a filtered buffer
func (f *ImageFilter) Encode(buf *pixel.Buffer, opts types.EncodeOptions) ([]byte, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: nothing to encode", pipeline.ErrInvalidImage)
	}
	return f.processor.Encode(buf.Image(), opts)
}

// Process decodes r, filters it, encodes the result and, when a sink is
// set, stores it under name.
func (f *ImageFilter) Process(ctx context.Context, r io.Reader, name string, cfg types.FilterConfig, opts types.EncodeOptions) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", processing.ErrUnsupportedFormat, err)
	}

	img, err := f.LoadImageFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}

	buf, err := f.Apply(ctx, img, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("filtering failed: %w", err)
	}

	data, err := f.Encode(buf, opts)
	if err != nil {
		return Result{}, fmt.Errorf("encoding failed: %w", err)
	}

	res := Result{Data: data, Format: opts.Format, Width: buf.Width(), Height: buf.Height()}
	if f.sink != nil {
		id, err := f.sink.Save(ctx, name, opts.Format, res.Width, res.Height, data)
		if err != nil {
			return Result{}, fmt.Errorf("failed to store %s: %w", name, err)
		}
		res.StoredID = id
	}
	return res, nil
}

// ProcessImageFile is a convenience function that loads, filters and saves
// an image. The output directory is created when missing.
func (f *ImageFilter) ProcessImageFile(ctx context.Context, inputPath, outputPath string, cfg types.FilterConfig, opts types.EncodeOptions) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	res, err := f.Process(ctx, in, getBaseName(inputPath), cfg, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, res.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

// getBaseName extracts the base filename without extension
func getBaseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
