package palette

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrUnknownPalette is returned by Lookup for a name with no palette.
	ErrUnknownPalette = errors.New("unknown palette")

	// ErrInvalidPalette is returned for palettes that cannot produce a gradient.
	ErrInvalidPalette = errors.New("invalid palette")
)

// MaxPeriod bounds Period; Compile allocates one color per position.
const MaxPeriod = 99_999

// Inside is the color of points that never escaped.
var Inside = color.RGBA{A: 0xff}

// A Palette is a cyclic gradient over escape times.
//
// An escape time i is reduced to t = (i mod Period) / Period, and t is
// linearly interpolated between consecutive Anchors. The last anchor blends
// back into the first so the gradient has no seam when i wraps.
type Palette struct {
	Name    string
	Period  int
	Anchors []colorful.Color
}

// New validates and returns a palette.
func New(name string, period int, anchors ...colorful.Color) (Palette, error) {
	p := Palette{Name: name, Period: period, Anchors: anchors}
	return p, p.Validate()
}

func (p Palette) Validate() error {
	if p.Period < 1 || p.Period > MaxPeriod {
		return fmt.Errorf("%w: %s: period %d must be between 1 and %d", ErrInvalidPalette, p.Name, p.Period, MaxPeriod)
	}
	if len(p.Anchors) < 2 {
		return fmt.Errorf("%w: %s: need at least two anchors, got %d", ErrInvalidPalette, p.Name, len(p.Anchors))
	}
	for i, a := range p.Anchors {
		if !a.IsValid() {
			return fmt.Errorf("%w: %s: anchor %d (%s) outside the RGB gamut", ErrInvalidPalette, p.Name, i, a.Hex())
		}
	}
	return nil
}

// At returns the gradient color at t in [0, 1).
func (p Palette) At(t float64) color.RGBA {
	n := len(p.Anchors)
	pos := t * float64(n)
	i := int(pos)
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}

	c := p.Anchors[i].BlendRgb(p.Anchors[(i+1)%n], pos-float64(i))

	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ColorFor maps an escape time to a color. Points that reached maxIterations
// are Inside; every other count depends only on count mod Period.
func (p Palette) ColorFor(count, maxIterations int) color.RGBA {
	if count >= maxIterations {
		return Inside
	}
	return p.At(p.ratio(count))
}

func (p Palette) ratio(count int) float64 {
	m := count % p.Period
	if m < 0 {
		m += p.Period
	}
	return float64(m) / float64(p.Period)
}

// Compile precomputes one color per position in the period.
func (p Palette) Compile() Table {
	colors := make([]color.RGBA, p.Period)
	for i := range colors {
		colors[i] = p.At(p.ratio(i))
	}
	return Table{colors: colors}
}

// A Table is a compiled Palette. It returns exactly what the Palette would.
type Table struct {
	colors []color.RGBA
}

func (t Table) ColorFor(count, maxIterations int) color.RGBA {
	if count >= maxIterations {
		return Inside
	}
	m := count % len(t.colors)
	if m < 0 {
		m += len(t.colors)
	}
	return t.colors[m]
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}

var (
	// Transition cycles dark blue, sky blue and light blue every 300 iterations.
	Transition = Palette{
		Name:    "transition",
		Period:  300,
		Anchors: []colorful.Color{rgb(20, 20, 65), rgb(63, 110, 252), rgb(160, 160, 230)},
	}

	// Twilight ramps from near-black through violet to near-white every 500 iterations.
	Twilight = Palette{
		Name:    "twilight",
		Period:  500,
		Anchors: []colorful.Color{rgb(18, 2, 18), rgb(143, 80, 178), rgb(250, 248, 253)},
	}

	Ember = Palette{
		Name:    "ember",
		Period:  256,
		Anchors: []colorful.Color{rgb(30, 0, 0), rgb(200, 40, 0), rgb(255, 170, 20), rgb(255, 250, 200)},
	}

	Default = Transition
)

var builtin = map[string]Palette{
	Transition.Name: Transition,
	Twilight.Name:   Twilight,
	Ember.Name:      Ember,
}

// Names lists the built-in palettes in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a built-in palette by name, or parses a custom one given as
// a comma-separated list of hex anchors, optionally prefixed with a period:
// "#141441,#3f6efc" or "300:#141441,#3f6efc,#a0a0e6".
func Lookup(name string) (Palette, error) {
	if p, ok := builtin[name]; ok {
		return p, nil
	}
	if !strings.Contains(name, "#") {
		return Palette{}, fmt.Errorf("%w: %q (want one of %s or a list of hex colors)",
			ErrUnknownPalette, name, strings.Join(Names(), ", "))
	}
	return parseCustom(name)
}

func parseCustom(spec string) (Palette, error) {
	period := Default.Period
	anchors := spec
	if before, after, found := strings.Cut(spec, ":"); found {
		n, err := strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return Palette{}, fmt.Errorf("%w: period %q: %v", ErrInvalidPalette, before, err)
		}
		period = n
		anchors = after
	}

	var colors []colorful.Color
	for _, hex := range strings.Split(anchors, ",") {
		c, err := colorful.Hex(strings.TrimSpace(hex))
		if err != nil {
			return Palette{}, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
		}
		colors = append(colors, c)
	}

	return New("custom", period, colors...)
}
