package render

import (
	"context"
	"errors"
	"image"
	"math"
	"sync"
	"testing"

	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/palette"
	"github.com/willbeason/escape-fractal/pkg/transforms"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

func testConfig(v escape.Variant, w, h int) Config {
	return Config{
		Variant:       v,
		Width:         w,
		Height:        h,
		View:          viewport.Aspect(-0.5, 0, 3, w, h),
		MaxIterations: 64,
		JuliaC:        transforms.DefaultJuliaC,
		Output:        "frame.png",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -3 }},
		{"zero view width", func(c *Config) { c.View.Width = 0 }},
		{"negative view height", func(c *Config) { c.View.Height = -1 }},
		{"NaN view width", func(c *Config) { c.View.Width = math.NaN() }},
		{"infinite view height", func(c *Config) { c.View.Height = math.Inf(1) }},
		{"NaN center", func(c *Config) { c.View.CenterX = math.NaN() }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"unknown variant", func(c *Config) { c.Variant = escape.Variant(9) }},
		{"huge palette period", func(c *Config) { c.Palette = palette.Palette{Name: "x", Period: palette.MaxPeriod + 1, Anchors: palette.Ember.Anchors} }},
		{"one-anchor palette", func(c *Config) { c.Palette = palette.Palette{Name: "x", Period: 10, Anchors: palette.Ember.Anchors[:1]} }},
	}

	if err := testConfig(escape.Mandelbrot, 10, 10).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(escape.Mandelbrot, 10, 10)
			tc.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateUnknownVariantWrapsKernelError(t *testing.T) {
	cfg := testConfig(escape.Variant(9), 4, 4)
	if err := cfg.Validate(); !errors.Is(err, escape.ErrUnknownVariant) {
		t.Errorf("Validate() = %v, want ErrUnknownVariant", err)
	}
}

func TestRender_Dimensions(t *testing.T) {
	for _, v := range []escape.Variant{escape.Mandelbrot, escape.Julia, escape.BurningShip} {
		img, err := Renderer{Workers: 3}.Render(context.Background(), testConfig(v, 37, 23))
		if err != nil {
			t.Fatalf("%v: Render() = %v", v, err)
		}
		if got := img.Bounds(); got != image.Rect(0, 0, 37, 23) {
			t.Errorf("%v: Bounds() = %v, want 37x23", v, got)
		}
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 0xff {
				t.Fatalf("%v: pixel %d alpha = %d, want opaque", v, i/4, img.Pix[i])
			}
		}
	}
}

func TestRender_SinglePixel(t *testing.T) {
	cfg := Config{
		Variant:       escape.Mandelbrot,
		Width:         1,
		Height:        1,
		View:          viewport.Viewport{Width: 4, Height: 4},
		MaxIterations: 1,
	}

	img, err := Renderer{}.Render(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}

	// The only pixel maps to (-2, -2).
	k := escape.MandelbrotKernel{}.Escape(complex(-2, -2), 1)
	want := palette.Default.ColorFor(k, 1)
	if got := img.RGBAAt(0, 0); got != want {
		t.Errorf("pixel = %v, want %v (count %d)", got, want, k)
	}
}

func TestRender_MatchesPerPixelPipeline(t *testing.T) {
	for _, v := range []escape.Variant{escape.Mandelbrot, escape.Julia, escape.BurningShip} {
		cfg := testConfig(v, 40, 30)
		cfg.Palette = palette.Twilight

		img, err := Renderer{Workers: 4}.Render(context.Background(), cfg)
		if err != nil {
			t.Fatalf("%v: Render() = %v", v, err)
		}

		kernel, err := escape.New(v, cfg.JuliaC)
		if err != nil {
			t.Fatal(err)
		}

		for y := 0; y < cfg.Height; y++ {
			for x := 0; x < cfg.Width; x++ {
				p := viewport.PixelToComplex(x, y, cfg.View, cfg.Width, cfg.Height)
				want := palette.Twilight.ColorFor(kernel.Escape(p, cfg.MaxIterations), cfg.MaxIterations)
				if got := img.RGBAAt(x, y); got != want {
					t.Fatalf("%v: pixel (%d, %d) = %v, want %v", v, x, y, got, want)
				}
			}
		}
	}
}

func TestRender_WorkerCountDoesNotChangeOutput(t *testing.T) {
	cfg := testConfig(escape.BurningShip, 64, 48)

	one, err := Renderer{Workers: 1}.Render(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	many, err := Renderer{Workers: 16}.Render(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := range one.Pix {
		if one.Pix[i] != many.Pix[i] {
			t.Fatalf("byte %d differs: 1 worker = %d, 16 workers = %d", i, one.Pix[i], many.Pix[i])
		}
	}
}

func TestRender_OriginIsInside(t *testing.T) {
	// With one unit per pixel, pixel (2, 2) of a 4x4 image lands exactly on 0.
	cfg := Config{
		Variant:       escape.Mandelbrot,
		Width:         4,
		Height:        4,
		View:          viewport.Viewport{Width: 4, Height: 4},
		MaxIterations: 200,
	}
	img, err := Renderer{}.Render(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(2, 2); got != palette.Inside {
		t.Errorf("center pixel = %v, want %v", got, palette.Inside)
	}
}

func TestRender_ProgressMonotonic(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []float64
	)
	r := Renderer{
		Workers: 4,
		Progress: func(f float64) {
			mu.Lock()
			calls = append(calls, f)
			mu.Unlock()
		},
	}

	if _, err := r.Render(context.Background(), testConfig(escape.Julia, 20, 17)); err != nil {
		t.Fatal(err)
	}

	if len(calls) != 17 {
		t.Fatalf("progress called %d times, want 17", len(calls))
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] <= calls[i-1] {
			t.Errorf("progress[%d] = %v after %v", i, calls[i], calls[i-1])
		}
	}
	if last := calls[len(calls)-1]; last != 1.0 {
		t.Errorf("final progress = %v, want 1", last)
	}
}

func TestRender_InvalidConfigDoesNoWork(t *testing.T) {
	called := false
	r := Renderer{Progress: func(float64) { called = true }}

	cfg := testConfig(escape.Mandelbrot, 10, 10)
	cfg.MaxIterations = 0

	img, err := r.Render(context.Background(), cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Render() error = %v, want ErrInvalidConfig", err)
	}
	if img != nil {
		t.Errorf("Render() returned an image for an invalid config")
	}
	if called {
		t.Errorf("progress reported for an invalid config")
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, err := Renderer{}.Render(ctx, testConfig(escape.Mandelbrot, 50, 50))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
	if img != nil {
		t.Errorf("Render() returned an image after cancellation")
	}
}

func TestRenderTo(t *testing.T) {
	var gotPath string
	var gotBounds image.Rectangle
	enc := EncoderFunc(func(path string, img image.Image) error {
		gotPath = path
		gotBounds = img.Bounds()
		return nil
	})

	cfg := testConfig(escape.Mandelbrot, 8, 6)
	cfg.Output = "out/frame.bmp"
	if err := (Renderer{}).RenderTo(context.Background(), cfg, enc); err != nil {
		t.Fatalf("RenderTo() = %v", err)
	}
	if gotPath != "out/frame.bmp" {
		t.Errorf("encoder path = %q, want out/frame.bmp", gotPath)
	}
	if gotBounds != image.Rect(0, 0, 8, 6) {
		t.Errorf("encoder bounds = %v", gotBounds)
	}
}

func TestRenderTo_EncoderError(t *testing.T) {
	diskFull := errors.New("disk full")
	enc := EncoderFunc(func(string, image.Image) error { return diskFull })

	err := Renderer{}.RenderTo(context.Background(), testConfig(escape.Mandelbrot, 4, 4), enc)
	if !errors.Is(err, diskFull) {
		t.Errorf("RenderTo() = %v, want wrapped encoder error", err)
	}
}

func BenchmarkRender_Mandelbrot(b *testing.B) {
	cfg := testConfig(escape.Mandelbrot, 320, 240)
	cfg.MaxIterations = 256

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (Renderer{}).Render(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}
