package transforms

// DefaultJuliaC is the constant used for Julia renders when none is given.
const DefaultJuliaC = complex(-0.8, 0.156)

type Julia2 struct {
	C complex128
}

func (j Julia2) Next(z complex128) complex128 {
	return z*z + j.C
}
