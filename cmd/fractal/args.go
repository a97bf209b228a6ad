package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/imageio"
	"github.com/willbeason/escape-fractal/pkg/render"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

// MaxDimension bounds each side of the output image.
const MaxDimension = 99_999

// parseArgs turns the six positional arguments into a frame configuration.
// Palette and Julia constant come from flags and are filled in by the caller.
func parseArgs(args []string) (render.Config, error) {
	if len(args) != 6 {
		return render.Config{}, fmt.Errorf("%w: want 6 arguments, got %d", render.ErrInvalidConfig, len(args))
	}

	variant, err := escape.ParseVariant(args[0])
	if err != nil {
		return render.Config{}, fmt.Errorf("%w: %w", render.ErrInvalidConfig, err)
	}

	width, height, err := parseResolution(args[1])
	if err != nil {
		return render.Config{}, err
	}

	scale, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return render.Config{}, fmt.Errorf("%w: invalid scale %q", render.ErrInvalidConfig, args[2])
	}
	if !(scale > 0) {
		return render.Config{}, fmt.Errorf("%w: scale %q must be positive", render.ErrInvalidConfig, args[2])
	}

	centerX, centerY, err := parsePair(args[3])
	if err != nil {
		return render.Config{}, fmt.Errorf("%w: invalid center %q: %w", render.ErrInvalidConfig, args[3], err)
	}

	maxIterations, err := strconv.Atoi(args[4])
	if err != nil || maxIterations < 1 {
		return render.Config{}, fmt.Errorf("%w: invalid max iterations %q", render.ErrInvalidConfig, args[4])
	}

	output := args[5]
	if !imageio.Supported(output) {
		return render.Config{}, fmt.Errorf("%w: output %q: extension must be one of %s",
			render.ErrInvalidConfig, output, strings.Join(imageio.Extensions(), " "))
	}

	cfg := render.Config{
		Variant:       variant,
		Width:         width,
		Height:        height,
		View:          viewport.Aspect(centerX, centerY, scale, width, height),
		MaxIterations: maxIterations,
		Output:        output,
	}
	return cfg, cfg.Validate()
}

// parseResolution parses "WIDTHxHEIGHT".
func parseResolution(s string) (int, int, error) {
	ws, hs, found := strings.Cut(s, "x")
	if !found {
		return 0, 0, fmt.Errorf("%w: resolution %q must look like 500x700", render.ErrInvalidConfig, s)
	}

	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid x resolution %q", render.ErrInvalidConfig, ws)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid y resolution %q", render.ErrInvalidConfig, hs)
	}

	if w < 1 || h < 1 || w > MaxDimension || h > MaxDimension {
		return 0, 0, fmt.Errorf("%w: resolution %dx%d must be between 1x1 and %dx%d",
			render.ErrInvalidConfig, w, h, MaxDimension, MaxDimension)
	}
	return w, h, nil
}

// parsePair parses "X,Y" into two floats.
func parsePair(s string) (float64, float64, error) {
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, fmt.Errorf("want X,Y")
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// complexValue is a pflag.Value holding a complex constant written as "RE,IM".
type complexValue complex128

var _ pflag.Value = (*complexValue)(nil)

func (c *complexValue) String() string {
	return strconv.FormatFloat(real(complex128(*c)), 'g', -1, 64) + "," +
		strconv.FormatFloat(imag(complex128(*c)), 'g', -1, 64)
}

func (c *complexValue) Set(s string) error {
	re, im, err := parsePair(s)
	if err != nil {
		return fmt.Errorf("invalid complex constant %q: %w", s, err)
	}
	*c = complexValue(complex(re, im))
	return nil
}

func (c *complexValue) Type() string {
	return "re,im"
}
