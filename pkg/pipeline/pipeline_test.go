package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/menta2k/image-filter/pkg/blur"
	"github.com/menta2k/image-filter/pkg/cosmetic"
	"github.com/menta2k/image-filter/pkg/pixel"
	"github.com/menta2k/image-filter/pkg/tone"
	"github.com/menta2k/image-filter/pkg/types"
	"github.com/menta2k/image-filter/pkg/warp"
)

// createTestBuffer creates a buffer with a deterministic colour pattern
func createTestBuffer(width, height int) *pixel.Buffer {
	buf := pixel.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, uint8((x*53+y*17)%256), uint8((x*29+y*71)%256), uint8((x*y)%256), 255)
		}
	}
	return buf
}

func solid(width, height int, v uint8) *pixel.Buffer {
	buf := pixel.New(width, height)
	buf.Fill(v, v, v, 255)
	return buf
}

func TestRunInvalidImage(t *testing.T) {
	for _, src := range []*pixel.Buffer{nil, pixel.New(0, 5), pixel.New(5, 0), pixel.New(0, 0)} {
		out, err := Run(src, types.FilterConfig{Brightness: 10})
		if !errors.Is(err, ErrInvalidImage) {
			t.Errorf("Expected ErrInvalidImage, got %v", err)
		}
		if out != nil {
			t.Error("Expected no result on failure")
		}
	}
}

func TestRunRejectsOutOfRange(t *testing.T) {
	src := createTestBuffer(8, 8)
	before := src.Clone()

	out, err := Run(src, types.FilterConfig{Brightness: 20, Blush: 500})
	if !errors.Is(err, ErrOutOfRangeConfig) {
		t.Fatalf("Expected ErrOutOfRangeConfig, got %v", err)
	}
	if out != nil {
		t.Error("Expected no partial result")
	}
	if !src.Equal(before) {
		t.Error("Rejected run modified the source")
	}
}

func TestRunIdentity(t *testing.T) {
	src := createTestBuffer(33, 21)
	out, err := Run(src, types.FilterConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !out.Equal(src) {
		t.Error("Zero config should reproduce the source")
	}
	if &out.Pix()[0] == &src.Pix()[0] {
		t.Error("Result aliases the source buffer")
	}

	// partial intensities that round to no-ops
	out, err = Run(src, types.FilterConfig{Smoothing: 5, Style: tone.None})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !out.Equal(src) {
		t.Error("Smoothing below one pass should be identity")
	}
}

func TestRunDoesNotMutateSource(t *testing.T) {
	src := createTestBuffer(40, 40)
	before := src.Clone()
	cfg := types.FilterConfig{
		Brightness: 30, BlurPasses: 1, Style: tone.Warm, Smoothing: 20, SkinTone: 10,
		EyeBrightness: 50, Blush: 50, Makeup: 50, FaceSlimming: 50,
	}
	if _, err := Run(src, cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !src.Equal(before) {
		t.Error("Run modified its source")
	}
}

func TestScenarioBrightness(t *testing.T) {
	out, err := Run(solid(4, 4, 0), types.FilterConfig{Brightness: 50})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, g, b, a, _ := out.At(x, y)
			if r != 50 || g != 50 || b != 50 || a != 255 {
				t.Fatalf("(%d,%d): expected (50,50,50,255), got (%d,%d,%d,%d)", x, y, r, g, b, a)
			}
		}
	}
}

func TestScenarioVintageBlack(t *testing.T) {
	src := solid(4, 4, 0)
	out, err := Run(src, types.FilterConfig{Style: tone.Vintage})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !out.Equal(src) {
		t.Error("Vintage on pure black should stay black")
	}
}

func TestScenarioBlurTwoPasses(t *testing.T) {
	src := createTestBuffer(10, 10)
	out, err := Run(src, types.FilterConfig{BlurPasses: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	once := src.Clone()
	blur.Box(once, 1)
	if !out.Equal(once) {
		t.Error("Two blur passes should match a single averaging pass")
	}

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x != 0 && y != 0 && x != 9 && y != 9 {
				continue
			}
			sr, sg, sb, sa, _ := src.At(x, y)
			r, g, b, a, _ := out.At(x, y)
			if r != sr || g != sg || b != sb || a != sa {
				t.Fatalf("border pixel (%d,%d) changed", x, y)
			}
		}
	}
}

func TestRunStageOrder(t *testing.T) {
	src := createTestBuffer(60, 50)
	cfg := types.FilterConfig{
		Brightness: -20, BlurPasses: 1, Style: tone.Cool, Smoothing: 10, SkinTone: 25,
		EyeBrightness: 60, Blush: 40, Makeup: 70, FaceSlimming: 80,
	}

	got, err := Run(src, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := src.Clone()
	blur.Box(want, cfg.BlurPasses)
	tone.Brightness(want, cfg.Brightness)
	tone.ApplyStyle(want, cfg.Style)
	cosmetic.Apply(want, CosmeticParams(cfg))
	want = warp.Slim(want, cfg.FaceSlimming)

	if !got.Equal(want) {
		t.Error("Run does not apply stages in the documented order")
	}
}

func TestRunExtremeValues(t *testing.T) {
	configs := []types.FilterConfig{
		{Brightness: 255, SkinTone: 255, BlurPasses: types.MaxBlurPasses, Style: tone.Vintage,
			Smoothing: 100, EyeBrightness: 100, Blush: 100, Makeup: 100, FaceSlimming: 100},
		{Brightness: -255, SkinTone: -255, Style: tone.Cool,
			Smoothing: 100, EyeBrightness: 100, Blush: 100, Makeup: 100, FaceSlimming: 100},
	}
	for _, cfg := range configs {
		out, err := Run(createTestBuffer(37, 53), cfg)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if out.Width() != 37 || out.Height() != 53 {
			t.Fatalf("Unexpected output size %dx%d", out.Width(), out.Height())
		}
		pix := out.Pix()
		for i := 3; i < len(pix); i += 4 {
			if pix[i] != 255 {
				t.Fatalf("alpha changed at byte %d", i)
			}
		}
	}

	out, _ := Run(solid(5, 5, 200), types.FilterConfig{Brightness: 255, SkinTone: 255})
	if r, g, b, _, _ := out.At(2, 2); r != 255 || g != 255 || b != 255 {
		t.Errorf("Expected saturation at 255, got (%d,%d,%d)", r, g, b)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := New().RunContext(ctx, createTestBuffer(10, 10), types.FilterConfig{Brightness: 5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if out != nil {
		t.Error("Expected no result after cancellation")
	}
}

func TestWorkersMatchSerial(t *testing.T) {
	src := createTestBuffer(97, 83)
	cfg := types.FilterConfig{
		Brightness: 12, BlurPasses: 2, Style: tone.Vintage, Smoothing: 30, SkinTone: -8,
		EyeBrightness: 45, Blush: 65, Makeup: 35, FaceSlimming: 55,
	}

	serial, err := New().Run(src, cfg)
	if err != nil {
		t.Fatalf("serial run failed: %v", err)
	}
	parallel, err := New(WithWorkers(8)).Run(src, cfg)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}
	if !serial.Equal(parallel) {
		t.Error("Parallel pipeline differs from serial pipeline")
	}
}

func TestWithLogger(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(WithLogger(logger))
	if _, err := p.Run(createTestBuffer(8, 8), types.FilterConfig{Brightness: 3, FaceSlimming: 10}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	logs := out.String()
	for _, stage := range []string{"stage=brightness", "stage=warp"} {
		if !strings.Contains(logs, stage) {
			t.Errorf("Expected %q in logs, got:\n%s", stage, logs)
		}
	}
	if strings.Contains(logs, "stage=blur") {
		t.Error("Disabled stages should not run")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, nil)))
	if _, err := Run(pixel.New(0, 0), types.FilterConfig{}); err == nil {
		t.Fatal("Expected error for empty image")
	}
	if !strings.Contains(out.String(), "rejected source image") {
		t.Errorf("Expected warning in logs, got %q", out.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected nil to restore the silent logger")
	}
}

func BenchmarkRun(b *testing.B) {
	src := createTestBuffer(1280, 960)
	cfg := types.FilterConfig{
		Brightness: 10, Style: tone.Warm, Smoothing: 20, EyeBrightness: 40,
		Blush: 30, Makeup: 30, FaceSlimming: 40,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(src, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
