package transforms

// Mandelbrot is z² + c with c taken from the point being tested.
type Mandelbrot struct{}

func (Mandelbrot) Next(z complex128, c complex128) complex128 {
	return z*z + c
}

// BurningShip folds both components of z into the first quadrant before squaring.
type BurningShip struct{}

func (BurningShip) Next(z complex128, c complex128) complex128 {
	re, im := real(z), imag(z)
	if re < 0 {
		re = -re
	}
	if im < 0 {
		im = -im
	}

	// (re + i*im)^2 expanded to avoid a complex multiplication on the folded value.
	return complex(re*re-im*im+real(c), 2*re*im+imag(c))
}
