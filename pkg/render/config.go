package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/palette"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid render configuration")

// Config describes a single frame. It is not modified by rendering.
type Config struct {
	Variant escape.Variant

	// Width and Height are the image size in pixels.
	Width, Height int

	View viewport.Viewport

	MaxIterations int

	// JuliaC is the constant for the Julia variant and is ignored otherwise.
	JuliaC complex128

	// Palette colors escape times. The zero Palette means palette.Default.
	Palette palette.Palette

	// Output is where the frame is written. The renderer passes it to the
	// Encoder unchanged.
	Output string
}

// Validate rejects configurations that would divide by zero, never terminate,
// or name a variant with no kernel.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: image size %dx%d must be at least 1x1", ErrInvalidConfig, c.Width, c.Height)
	}
	if !positive(c.View.Width) || !positive(c.View.Height) {
		return fmt.Errorf("%w: view extents %gx%g must be positive and finite", ErrInvalidConfig, c.View.Width, c.View.Height)
	}
	if !finite(c.View.CenterX) || !finite(c.View.CenterY) {
		return fmt.Errorf("%w: center (%g, %g) must be finite", ErrInvalidConfig, c.View.CenterX, c.View.CenterY)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d must be at least 1", ErrInvalidConfig, c.MaxIterations)
	}
	if _, err := escape.New(c.Variant, c.JuliaC); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.palette().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) palette() palette.Palette {
	if len(c.Palette.Anchors) == 0 && c.Palette.Period == 0 {
		return palette.Default
	}
	return c.Palette
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func positive(f float64) bool {
	return finite(f) && f > 0
}
