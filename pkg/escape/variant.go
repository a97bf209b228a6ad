package escape

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned for a fractal variant that has no kernel.
var ErrUnknownVariant = errors.New("unknown fractal variant")

// Variant selects which escape-time fractal is rendered.
type Variant int

const (
	Mandelbrot Variant = iota
	Julia
	BurningShip
)

// ParseVariant converts the single-letter command-line code into a Variant.
func ParseVariant(code string) (Variant, error) {
	switch code {
	case "m":
		return Mandelbrot, nil
	case "j":
		return Julia, nil
	case "b":
		return BurningShip, nil
	default:
		return 0, fmt.Errorf("%w: %q (want m, j or b)", ErrUnknownVariant, code)
	}
}

func (v Variant) String() string {
	switch v {
	case Mandelbrot:
		return "Mandelbrot"
	case Julia:
		return "Julia"
	case BurningShip:
		return "Burning Ship"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Code is the inverse of ParseVariant.
func (v Variant) Code() string {
	switch v {
	case Mandelbrot:
		return "m"
	case Julia:
		return "j"
	case BurningShip:
		return "b"
	default:
		return "?"
	}
}
