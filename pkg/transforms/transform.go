package transforms

// A Transform iterates a point with a fixed constant, as in Julia sets.
type Transform interface {
	Next(z complex128) complex128
}

// A Parametric transform iterates a point with a per-pixel parameter c,
// as in the Mandelbrot and Burning Ship sets.
type Parametric interface {
	Next(z complex128, c complex128) complex128
}

var (
	_ Transform  = Julia2{}
	_ Parametric = Mandelbrot{}
	_ Parametric = BurningShip{}
)
