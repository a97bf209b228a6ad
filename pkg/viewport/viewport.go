package viewport

// Viewport is the visible window of the complex plane.
type Viewport struct {
	// CenterX and CenterY locate the middle of the window.
	CenterX, CenterY float64

	// Width and Height are the extents of the window along the real and
	// imaginary axes. They are independent; callers that want square pixels
	// derive Height from Width and the image's aspect ratio.
	Width, Height float64
}

// Aspect returns a Viewport of the given width whose height preserves the
// aspect ratio of a pixelWidth x pixelHeight image.
func Aspect(centerX, centerY, width float64, pixelWidth, pixelHeight int) Viewport {
	return Viewport{
		CenterX: centerX,
		CenterY: centerY,
		Width:   width,
		Height:  width * float64(pixelHeight) / float64(pixelWidth),
	}
}

// A Mapper converts pixel indices to points for one image size.
type Mapper struct {
	v Viewport

	// px and py are the real sizes of one pixel along each axis.
	px, py float64
}

// NewMapper precomputes the per-pixel scale of v for an image of the given size.
func NewMapper(v Viewport, pixelWidth, pixelHeight int) Mapper {
	return Mapper{
		v:  v,
		px: v.Width / float64(pixelWidth),
		py: v.Height / float64(pixelHeight),
	}
}

// PixelToComplex returns the point for pixel (x, y). Row 0 maps to the
// smallest imaginary part, CenterY is subtracted rather than added.
func (m Mapper) PixelToComplex(x, y int) complex128 {
	return complex(m.Re(x), m.Im(y))
}

// Re returns the real part shared by every pixel in column x.
func (m Mapper) Re(x int) float64 {
	return float64(x)*m.px - m.v.Width/2 + m.v.CenterX
}

// Im returns the imaginary part shared by every pixel in row y.
func (m Mapper) Im(y int) float64 {
	return float64(y)*m.py - m.v.Height/2 - m.v.CenterY
}

// PixelToComplex maps one pixel of a pixelWidth x pixelHeight image into v.
func PixelToComplex(x, y int, v Viewport, pixelWidth, pixelHeight int) complex128 {
	return NewMapper(v, pixelWidth, pixelHeight).PixelToComplex(x, y)
}
