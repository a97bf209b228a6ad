package render

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

// ProgressFunc observes the fraction of rows completed. Calls come from a
// single goroutine, in increasing order, ending with 1.0 on a completed render.
type ProgressFunc func(fraction float64)

// An Encoder persists a finished frame.
type Encoder interface {
	Encode(path string, img image.Image) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(path string, img image.Image) error

func (f EncoderFunc) Encode(path string, img image.Image) error {
	return f(path, img)
}

// Renderer evaluates every pixel of a frame across a pool of workers.
// The zero Renderer uses one worker per CPU and reports no progress.
type Renderer struct {
	// Workers is the number of goroutines rendering rows.
	Workers int

	Progress ProgressFunc
}

func (r Renderer) workers(rows int) int {
	n := r.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return min(n, rows)
}

// Render computes the frame described by cfg.
//
// Rows are handed to workers over a channel; each worker owns the rows it
// receives, so no two goroutines write the same part of the image. If ctx is
// cancelled, workers stop taking rows and Render returns ctx.Err().
func (r Renderer) Render(ctx context.Context, cfg Config) (*image.RGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate has already resolved the kernel once; this cannot fail.
	kernel, err := escape.New(cfg.Variant, cfg.JuliaC)
	if err != nil {
		return nil, err
	}
	colors := cfg.palette().Compile()
	mapper := viewport.NewMapper(cfg.View, cfg.Width, cfg.Height)

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))

	parallel := r.workers(cfg.Height)
	start := time.Now()
	Logger().Info("render started",
		slog.String("variant", cfg.Variant.String()),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("max_iterations", cfg.MaxIterations))
	Logger().Debug("render workers", slog.Int("workers", parallel))

	yChannel := make(chan int)
	go func() {
		defer close(yChannel)
		for y := 0; y < cfg.Height; y++ {
			select {
			case yChannel <- y:
			case <-ctx.Done():
				return
			}
		}
	}()

	rowsDone := make(chan struct{}, parallel)

	ywg := sync.WaitGroup{}
	ywg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer ywg.Done()
			for y := range yChannel {
				if ctx.Err() != nil {
					continue
				}

				im := mapper.Im(y)
				row := img.Pix[y*img.Stride : y*img.Stride+4*cfg.Width]
				for x := 0; x < cfg.Width; x++ {
					n := kernel.Escape(complex(mapper.Re(x), im), cfg.MaxIterations)
					c := colors.ColorFor(n, cfg.MaxIterations)

					i := 4 * x
					row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
				}

				rowsDone <- struct{}{}
			}
		}()
	}

	progressGroup := sync.WaitGroup{}
	progressGroup.Add(1)
	go func() {
		defer progressGroup.Done()
		done := 0
		for range rowsDone {
			done++
			if r.Progress != nil {
				r.Progress(float64(done) / float64(cfg.Height))
			}
		}
	}()

	ywg.Wait()
	close(rowsDone)
	progressGroup.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Logger().Info("render finished",
		slog.String("variant", cfg.Variant.String()),
		slog.Duration("elapsed", time.Since(start)))

	return img, nil
}

// RenderTo renders cfg and hands the frame to enc with cfg.Output.
func (r Renderer) RenderTo(ctx context.Context, cfg Config, enc Encoder) error {
	img, err := r.Render(ctx, cfg)
	if err != nil {
		return err
	}

	if err := enc.Encode(cfg.Output, img); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}

	Logger().Info("frame written", slog.String("path", cfg.Output))
	return nil
}
