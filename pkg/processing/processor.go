package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-filter/pkg/pipeline"
	"github.com/menta2k/image-filter/pkg/pixel"
	"github.com/menta2k/image-filter/pkg/region"
	"github.com/menta2k/image-filter/pkg/types"
	"github.com/menta2k/image-filter/pkg/warp"
)

// ErrUnsupportedFormat is returned for images or output formats the
// processor does not handle.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Config holds configuration for loading and encoding images
type Config struct {
	SupportedFormats []string
	MinImageSize     int
	MaxDimension     int
	Timeout          time.Duration
}

// DefaultConfig returns the processor defaults
func DefaultConfig() Config {
	return Config{
		SupportedFormats: []string{"jpeg", "png", "webp", "bmp", "tiff", "gif"},
		MinImageSize:     1,
		MaxDimension:     0,
		Timeout:          30 * time.Second,
	}
}

// Processor handles decoding source images and encoding filtered results
type Processor struct {
	config Config
}

// NewProcessor creates a new image processor with default configuration
func NewProcessor() *Processor {
	return &Processor{config: DefaultConfig()}
}

// NewProcessorWithConfig creates a new image processor with custom configuration
func NewProcessorWithConfig(config Config) *Processor {
	return &Processor{config: config}
}

// LoadImageFromURL downloads and decodes an image from a URL
func (p *Processor) LoadImageFromURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	timeout := p.config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Image-Filter/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return p.Decode(data)
}

// LoadImage loads an image from a file path
func (p *Processor) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	img, err := p.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (p *Processor) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return p.Decode(data)
}

// LoadImageSmart loads an image from either a file path or URL
func (p *Processor) LoadImageSmart(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadImageFromURL(source)
	}
	return p.LoadImage(source)
}

// Decode decodes an encoded image, applying EXIF orientation. Data that
// cannot be decoded yields an error wrapping pipeline.ErrInvalidImage.
func (p *Processor) Decode(data []byte) (image.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// registered decoders failed; try WebP explicitly
		if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			if !p.isFormatSupported("webp") {
				return nil, fmt.Errorf("%w: webp", ErrUnsupportedFormat)
			}
			return img, nil
		}
		return nil, fmt.Errorf("%w: failed to decode image: %v", pipeline.ErrInvalidImage, err)
	}

	if !p.isFormatSupported(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s image: %v", pipeline.ErrInvalidImage, format, err)
	}
	return img, nil
}

// ValidateImage checks that an image can be filtered
func (p *Processor) ValidateImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", pipeline.ErrInvalidImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", pipeline.ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}
	if bounds.Dx() < p.config.MinImageSize || bounds.Dy() < p.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), p.config.MinImageSize)
	}
	return nil
}

// ToBuffer converts an image into a pixel buffer, downscaling it first when
// it exceeds the configured maximum dimension.
func (p *Processor) ToBuffer(img image.Image) (*pixel.Buffer, error) {
	if err := p.ValidateImage(img); err != nil {
		return nil, err
	}

	if maxDim := p.config.MaxDimension; maxDim > 0 {
		b := img.Bounds()
		if b.Dx() > maxDim || b.Dy() > maxDim {
			img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		}
	}
	return pixel.FromImage(imaging.Clone(img)), nil
}

// Encode compresses an image. Output is deterministic for identical pixels
// and options.
func (p *Processor) Encode(img image.Image, opts types.EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.EncodeTo(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo compresses an image into w
func (p *Processor) EncodeTo(w io.Writer, img image.Image, opts types.EncodeOptions) error {
	if opts.Quality == 0 {
		opts.Quality = types.DefaultEncodeOptions().Quality
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = types.DefaultEncodeOptions().Format
	}

	switch format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.Quality)})
	case "png":
		return imaging.Encode(w, img, imaging.PNG)
	case "jpg", "jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
}

// SaveImage encodes an image and writes it to path
func (p *Processor) SaveImage(img image.Image, path string, opts types.EncodeOptions) error {
	data, err := p.Encode(img, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatFromPath returns the output format implied by a file extension
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

func (p *Processor) isFormatSupported(format string) bool {
	for _, supported := range p.config.SupportedFormats {
		if strings.EqualFold(format, supported) || (strings.EqualFold(format, "jpeg") && strings.EqualFold(supported, "jpg")) {
			return true
		}
	}
	return false
}

// CreateRegionOverlay draws the cosmetic zones and the face-slimming band on
// a copy of img so the proportional geometry can be checked by eye.
func (p *Processor) CreateRegionOverlay(img image.Image) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	// Colors
	eyes := color.NRGBA{0, 170, 255, 255}
	cheeks := color.NRGBA{255, 120, 160, 255}
	lips := color.NRGBA{255, 0, 0, 255}
	lids := color.NRGBA{160, 80, 255, 255}
	band := color.NRGBA{255, 204, 0, 255}
	center := color.NRGBA{0, 255, 0, 255}
	stroke := int(math.Max(1, 0.004*float64(minInt(w, h))))

	drawCircle(nrgba, region.LeftEye, w, h, eyes, stroke)
	drawCircle(nrgba, region.RightEye, w, h, eyes, stroke)
	drawCircle(nrgba, region.LeftLid, w, h, lids, stroke)
	drawCircle(nrgba, region.RightLid, w, h, lids, stroke)
	drawCircle(nrgba, region.LeftCheek, w, h, cheeks, stroke)
	drawCircle(nrgba, region.RightCheek, w, h, cheeks, stroke)
	drawCircle(nrgba, region.Lips, w, h, lips, stroke)

	// Face-slimming band edges
	cx := float64(w) / 2
	half := float64(w) * warp.FaceWidth
	for s := 0; s < stroke; s++ {
		drawVLine(nrgba, int(cx-half)+s, 0, h, band)
		drawVLine(nrgba, int(cx+half)-s, 0, h, band)
	}

	// Centerline crosshair
	ix, iy := w/2, h/2
	drawHLine(nrgba, iy, ix-6, ix+6, center)
	drawVLine(nrgba, ix, iy-6, iy+6, center)

	return nrgba
}

// Helper functions
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func drawCircle(img *image.NRGBA, s region.Spec, w, h int, c color.NRGBA, stroke int) {
	cx, cy := s.Center(w, h)
	r := s.RadiusPx(w)
	if r <= 0 {
		return
	}
	steps := int(math.Max(16, 2*math.Pi*r))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		for k := 0; k < stroke; k++ {
			rr := r - float64(k)
			x := int(math.Round(cx + rr*math.Cos(a)))
			y := int(math.Round(cy + rr*math.Sin(a)))
			drawHLine(img, y, x, x+1, c)
		}
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
