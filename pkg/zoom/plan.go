package zoom

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/willbeason/escape-fractal/pkg/render"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

// MaxFrames is the most frames a plan may have; frame names are five digits.
const MaxFrames = 99_999

var (
	// ErrTooManyFrames is returned for plans with more than MaxFrames frames.
	ErrTooManyFrames = errors.New("frame count exceeds limit")

	// ErrInvalidPlan wraps every other plan validation failure.
	ErrInvalidPlan = errors.New("invalid animation plan")
)

// Plan describes a zoom animation: Frames renders of Base, each with the
// view extents multiplied by Rate relative to the previous one.
type Plan struct {
	Frames int

	// Rate is the per-frame scale factor. Values in (0, 1) zoom in.
	Rate float64

	// Base is frame 0. Base.Output names the animation: "deep.png" puts
	// frames in "deep/00000.png" onwards.
	Base render.Config
}

func (p Plan) Validate() error {
	if p.Frames > MaxFrames {
		return fmt.Errorf("%w: %d > %d", ErrTooManyFrames, p.Frames, MaxFrames)
	}
	if p.Frames < 1 {
		return fmt.Errorf("%w: frame count %d must be at least 1", ErrInvalidPlan, p.Frames)
	}
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) || p.Rate <= 0 {
		return fmt.Errorf("%w: zoom rate %g must be positive and finite", ErrInvalidPlan, p.Rate)
	}
	if p.Base.Output == "" {
		return fmt.Errorf("%w: no output name", ErrInvalidPlan)
	}
	l, err := p.Layout()
	if err != nil {
		return err
	}
	if err := p.Base.Validate(); err != nil {
		return err
	}

	// Extents change monotonically with n, so the last frame is the extreme one.
	last := p.FrameConfig(p.Frames-1, l)
	if err := last.Validate(); err != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrInvalidPlan, p.Frames-1, err)
	}
	return nil
}

// Layout is where an animation's files go.
type Layout struct {
	// Dir holds the frames.
	Dir string

	// Ext is the frame image extension, with the leading dot.
	Ext string

	// Video is the assembled video file, next to Dir.
	Video string
}

// DefaultFrameExt is used when the base output has no extension.
const DefaultFrameExt = ".png"

// VideoExt is the extension of the assembled video.
const VideoExt = ".webm"

// Layout derives the frame directory and video name from Base.Output.
func (p Plan) Layout() (Layout, error) {
	out := filepath.Clean(p.Base.Output)
	ext := filepath.Ext(out)
	stem := strings.TrimSuffix(out, ext)
	if ext == "" {
		ext = DefaultFrameExt
	}
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return Layout{}, fmt.Errorf("%w: cannot derive a directory from %q", ErrInvalidPlan, p.Base.Output)
	}

	return Layout{Dir: stem, Ext: ext, Video: stem + VideoExt}, nil
}

// Pattern is the printf-style pattern matching every frame name.
func (l Layout) Pattern() string {
	return filepath.Join(l.Dir, "%05d"+l.Ext)
}

// FrameName returns the path of frame n: zero-padded to five digits so
// lexical and numeric order agree.
func (l Layout) FrameName(n int) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%05d%s", n, l.Ext))
}

// FrameConfig returns the render configuration of frame n. The view width is
// Base width * Rate^n and the height follows the image's aspect ratio.
func (p Plan) FrameConfig(n int, l Layout) render.Config {
	cfg := p.Base

	width := p.Base.View.Width * math.Pow(p.Rate, float64(n))
	cfg.View = viewport.Aspect(p.Base.View.CenterX, p.Base.View.CenterY, width, cfg.Width, cfg.Height)
	cfg.Output = l.FrameName(n)

	return cfg
}
