package escape

import (
	"fmt"

	"github.com/willbeason/escape-fractal/pkg/transforms"
)

// Bailout is the squared escape radius: an orbit is inside while |z|² <= 4.
const Bailout = 4.0

// A Kernel computes the escape time of a single point in the complex plane.
//
// Escape returns the number of iterations performed before |z| exceeded 2,
// or maxIterations if the orbit never escaped. Non-finite values count as
// escaped, so kernels are total over finite inputs.
type Kernel interface {
	Escape(point complex128, maxIterations int) int
}

// New resolves the kernel for a variant. juliaC is only used by Julia.
func New(v Variant, juliaC complex128) (Kernel, error) {
	switch v {
	case Mandelbrot:
		return MandelbrotKernel{}, nil
	case Julia:
		return JuliaKernel{C: juliaC}, nil
	case BurningShip:
		return BurningShipKernel{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, v)
	}
}

// MandelbrotKernel iterates z = z² + c from z = 0 with c = point.
type MandelbrotKernel struct{}

func (MandelbrotKernel) Escape(point complex128, maxIterations int) int {
	return orbit(transforms.Mandelbrot{}, 0, point, maxIterations)
}

// JuliaKernel iterates z = z² + C from z = point.
type JuliaKernel struct {
	C complex128
}

func (k JuliaKernel) Escape(point complex128, maxIterations int) int {
	j := transforms.Julia2{C: k.C}

	z := point
	i := 0
	for i < maxIterations && inside(z) {
		z = j.Next(z)
		i++
	}
	return i
}

// BurningShipKernel iterates z = (|Re z| + i|Im z|)² + c from z = 0 with c = point.
type BurningShipKernel struct{}

func (BurningShipKernel) Escape(point complex128, maxIterations int) int {
	return orbit(transforms.BurningShip{}, 0, point, maxIterations)
}

func orbit[T transforms.Parametric](t T, z, c complex128, maxIterations int) int {
	i := 0
	for i < maxIterations && inside(z) {
		z = t.Next(z, c)
		i++
	}
	return i
}

// inside is false for NaN, so an orbit that overflows is treated as escaped.
func inside(z complex128) bool {
	re, im := real(z), imag(z)
	return re*re+im*im <= Bailout
}

var (
	_ Kernel = MandelbrotKernel{}
	_ Kernel = JuliaKernel{}
	_ Kernel = BurningShipKernel{}
)
