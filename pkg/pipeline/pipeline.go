// Package pipeline runs the filter stages in their fixed order:
//
//	blur pre-pass → brightness → style → cosmetics → face slimming
//
// Each stage commits its output before the next one starts. The source
// buffer is never modified and no partial result is returned on failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/menta2k/image-filter/pkg/blur"
	"github.com/menta2k/image-filter/pkg/cosmetic"
	"github.com/menta2k/image-filter/pkg/pixel"
	"github.com/menta2k/image-filter/pkg/tone"
	"github.com/menta2k/image-filter/pkg/types"
	"github.com/menta2k/image-filter/pkg/warp"
)

var (
	// ErrInvalidImage is returned for a nil or zero-dimension source.
	ErrInvalidImage = errors.New("invalid image")
	// ErrOutOfRangeConfig is returned when a config value is outside its
	// range. Out-of-range values are always rejected, never clamped.
	ErrOutOfRangeConfig = types.ErrOutOfRangeConfig
)

// Pipeline applies a FilterConfig to pixel buffers. A Pipeline holds no
// per-run state and may be shared between goroutines.
type Pipeline struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers splits the rows of each stage across n goroutines. Values
// below 2 run every stage on the calling goroutine.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithLogger overrides the package logger for this pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run applies cfg to src with a default single-threaded pipeline.
func Run(src *pixel.Buffer, cfg types.FilterConfig) (*pixel.Buffer, error) {
	return New().Run(src, cfg)
}

// Run applies cfg to a copy of src and returns the result.
func (p *Pipeline) Run(src *pixel.Buffer, cfg types.FilterConfig) (*pixel.Buffer, error) {
	return p.RunContext(context.Background(), src, cfg)
}

// RunContext is Run with cancellation checked between stages. Stages
// themselves run to completion.
func (p *Pipeline) RunContext(ctx context.Context, src *pixel.Buffer, cfg types.FilterConfig) (*pixel.Buffer, error) {
	log := p.log()

	if src.Empty() {
		w, h := 0, 0
		if src != nil {
			w, h = src.Width(), src.Height()
		}
		log.Warn("rejected source image", "width", w, "height", h)
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, w, h)
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("rejected filter config", "error", err)
		return nil, err
	}

	buf := src.Clone()
	for _, st := range p.stages(cfg) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled before %s: %w", st.name, err)
		}
		start := time.Now()
		buf = st.run(buf)
		log.Debug("stage done", "stage", st.name, "elapsed", time.Since(start))
	}
	return buf, nil
}

type stage struct {
	name string
	run  func(*pixel.Buffer) *pixel.Buffer
}

// stages lists the enabled stages for cfg in execution order.
func (p *Pipeline) stages(cfg types.FilterConfig) []stage {
	var out []stage
	workers := p.workers

	if cfg.BlurPasses > 0 {
		out = append(out, stage{"blur", func(b *pixel.Buffer) *pixel.Buffer {
			blur.BoxParallel(b, cfg.BlurPasses, workers)
			return b
		}})
	}
	if cfg.Brightness != 0 {
		out = append(out, stage{"brightness", func(b *pixel.Buffer) *pixel.Buffer {
			tone.BrightnessParallel(b, cfg.Brightness, workers)
			return b
		}})
	}
	if cfg.Style != tone.None {
		out = append(out, stage{"style", func(b *pixel.Buffer) *pixel.Buffer {
			tone.ApplyStyleParallel(b, cfg.Style, workers)
			return b
		}})
	}
	if params := CosmeticParams(cfg); !params.IsZero() {
		out = append(out, stage{"cosmetic", func(b *pixel.Buffer) *pixel.Buffer {
			cosmetic.ApplyParallel(b, params, workers)
			return b
		}})
	}
	if cfg.FaceSlimming > 0 {
		out = append(out, stage{"warp", func(b *pixel.Buffer) *pixel.Buffer {
			return warp.SlimParallel(b, cfg.FaceSlimming, workers)
		}})
	}
	return out
}

// CosmeticParams extracts the cosmetic intensities from cfg.
func CosmeticParams(cfg types.FilterConfig) cosmetic.Params {
	return cosmetic.Params{
		SkinTone:      cfg.SkinTone,
		Smoothing:     cfg.Smoothing,
		EyeBrightness: cfg.EyeBrightness,
		Blush:         cfg.Blush,
		Makeup:        cfg.Makeup,
	}
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return Logger()
}
