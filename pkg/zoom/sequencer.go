package zoom

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/willbeason/escape-fractal/pkg/ffmpeg"
	"github.com/willbeason/escape-fractal/pkg/imageio"
	"github.com/willbeason/escape-fractal/pkg/render"
)

// A VideoEncoder assembles the numbered frames of a finished animation.
type VideoEncoder interface {
	Encode(ctx context.Context, job ffmpeg.Job) error
}

// Sequencer renders the frames of a Plan in order and then hands them to a
// VideoEncoder.
type Sequencer struct {
	Renderer render.Renderer

	// Frames persists each frame. nil writes image files with imageio.
	Frames render.Encoder

	// Video assembles the frames. nil skips video assembly.
	Video VideoEncoder

	// OnFrame, if set, is called before frame n of total is rendered.
	OnFrame func(n, total int)
}

// Result lists what an animation produced.
type Result struct {
	Layout Layout

	// Frames are the frame paths in render order.
	Frames []string

	// Video is empty if no VideoEncoder was configured.
	Video string
}

// Animate renders every frame of p in increasing index order, then assembles
// the video. Frames share no data, but order matters to the encoder, so
// frame n+1 starts only after frame n has been written.
//
// The plan is validated before the frame directory is created.
func (s Sequencer) Animate(ctx context.Context, p Plan) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	layout, err := p.Layout()
	if err != nil {
		return Result{}, err
	}

	frames := s.Frames
	if frames == nil {
		frames = imageio.FileEncoder{}
	}

	if err := os.MkdirAll(layout.Dir, os.ModePerm); err != nil {
		return Result{}, fmt.Errorf("creating animation directory: %w", err)
	}

	start := time.Now()
	render.Logger().Info("animation started",
		slog.Int("frames", p.Frames),
		slog.Float64("rate", p.Rate),
		slog.String("dir", layout.Dir))

	result := Result{Layout: layout, Frames: make([]string, 0, p.Frames)}
	for n := 0; n < p.Frames; n++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if s.OnFrame != nil {
			s.OnFrame(n, p.Frames)
		}

		cfg := p.FrameConfig(n, layout)
		render.Logger().Debug("frame",
			slog.Int("n", n),
			slog.Float64("view_width", cfg.View.Width),
			slog.Float64("view_height", cfg.View.Height))

		if err := s.Renderer.RenderTo(ctx, cfg, frames); err != nil {
			return result, fmt.Errorf("frame %d: %w", n, err)
		}
		result.Frames = append(result.Frames, cfg.Output)
	}

	if s.Video != nil {
		job := ffmpeg.Job{
			Pattern: layout.Pattern(),
			Width:   p.Base.Width,
			Height:  p.Base.Height,
			Output:  layout.Video,
		}
		if err := s.Video.Encode(ctx, job); err != nil {
			return result, fmt.Errorf("assembling %s: %w", layout.Video, err)
		}
		result.Video = layout.Video
		render.Logger().Info("video assembled", slog.String("path", layout.Video))
	}

	render.Logger().Info("animation finished",
		slog.Int("frames", len(result.Frames)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}
