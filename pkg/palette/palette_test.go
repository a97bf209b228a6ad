package palette

import (
	"errors"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func builtins() []Palette {
	return []Palette{Transition, Twilight, Ember}
}

func TestBuiltinsValid(t *testing.T) {
	for _, p := range builtins() {
		if err := p.Validate(); err != nil {
			t.Errorf("%s.Validate() = %v", p.Name, err)
		}
	}
}

func TestColorFor_InsideIsBlack(t *testing.T) {
	for _, p := range builtins() {
		for _, maxIter := range []int{1, 2, 299, 300, 1000, 100_000} {
			if got := p.ColorFor(maxIter, maxIter); got != Inside {
				t.Errorf("%s.ColorFor(%d, %d) = %v, want %v", p.Name, maxIter, maxIter, got, Inside)
			}
		}
	}
	if Inside != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("Inside = %v, want opaque black", Inside)
	}
}

func TestColorFor_Cyclic(t *testing.T) {
	for _, p := range builtins() {
		for _, i := range []int{0, 1, 17, p.Period - 1} {
			a := p.ColorFor(i, 1_000_000)
			b := p.ColorFor(i+p.Period, 1_000_000)
			c := p.ColorFor(i+7*p.Period, 1_000_000)
			if a != b || a != c {
				t.Errorf("%s: ColorFor(%d) = %v, +period = %v, +7 periods = %v", p.Name, i, a, b, c)
			}
		}
	}
}

func TestColorFor_StartsAtFirstAnchor(t *testing.T) {
	got := Transition.ColorFor(0, 1000)
	want := color.RGBA{20, 20, 65, 0xff}
	if got != want {
		t.Errorf("ColorFor(0) = %v, want %v", got, want)
	}

	// One third of the way round lands exactly on the second anchor.
	got = Transition.ColorFor(100, 1000)
	want = color.RGBA{63, 110, 252, 0xff}
	if got != want {
		t.Errorf("ColorFor(100) = %v, want %v", got, want)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestColorFor_Continuous(t *testing.T) {
	// Neighboring counts never jump by more than the steepest segment allows,
	// including across the wrap from Period-1 back to 0.
	for _, p := range builtins() {
		segment := float64(p.Period) / float64(len(p.Anchors))
		maxStep := int(255/segment) + 2

		for i := 0; i < p.Period; i++ {
			a := p.ColorFor(i, 1<<30)
			b := p.ColorFor(i+1, 1<<30)
			for _, d := range []int{absDiff(a.R, b.R), absDiff(a.G, b.G), absDiff(a.B, b.B)} {
				if d > maxStep {
					t.Fatalf("%s: ColorFor(%d) = %v, ColorFor(%d) = %v: step %d > %d", p.Name, i, a, i+1, b, d, maxStep)
				}
			}
		}
	}
}

func TestAt_ClampsOutOfGamut(t *testing.T) {
	p := Palette{
		Name:    "hot",
		Period:  10,
		Anchors: []colorful.Color{{R: 2, G: -1, B: 0.5}, {R: 3, G: -3, B: 0.5}},
	}

	for i := 0; i < p.Period; i++ {
		c := p.ColorFor(i, 100)
		if c.R != 0xff || c.G != 0 {
			t.Errorf("ColorFor(%d) = %v, want R clamped to 255 and G clamped to 0", i, c)
		}
		if c.A != 0xff {
			t.Errorf("ColorFor(%d) alpha = %d, want 255", i, c.A)
		}
	}
}

func TestTable_MatchesPalette(t *testing.T) {
	for _, p := range builtins() {
		table := p.Compile()
		for _, i := range []int{0, 1, 50, p.Period - 1, p.Period, 3*p.Period + 11, 9999} {
			if got, want := table.ColorFor(i, 10_000), p.ColorFor(i, 10_000); got != want {
				t.Errorf("%s: Table.ColorFor(%d) = %v, want %v", p.Name, i, got, want)
			}
		}
		if got := table.ColorFor(10_000, 10_000); got != Inside {
			t.Errorf("%s: Table.ColorFor(max) = %v, want Inside", p.Name, got)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) = %v", name, err)
		}
		if p.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, p.Name)
		}
	}

	if _, err := Lookup("plaid"); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("Lookup(plaid) error = %v, want ErrUnknownPalette", err)
	}
}

func TestLookup_Custom(t *testing.T) {
	p, err := Lookup("120:#000000,#ffffff")
	if err != nil {
		t.Fatalf("Lookup custom = %v", err)
	}
	if p.Period != 120 || len(p.Anchors) != 2 {
		t.Errorf("Lookup custom = %+v, want period 120 and two anchors", p)
	}
	if got := p.ColorFor(30, 1000); got != (color.RGBA{128, 128, 128, 0xff}) {
		t.Errorf("ColorFor(30) = %v, want mid gray", got)
	}

	p, err = Lookup("99999:#000000,#ffffff")
	if err != nil || p.Period != MaxPeriod {
		t.Errorf("Lookup at MaxPeriod = %+v, %v", p, err)
	}

	p, err = Lookup("#f00, #00f")
	if err != nil {
		t.Fatalf("Lookup without period = %v", err)
	}
	if p.Period != Default.Period {
		t.Errorf("Period = %d, want default %d", p.Period, Default.Period)
	}

	bad := []string{
		"#f00",
		"x:#f00,#0f0",
		"0:#f00,#0f0",
		"#f00,#zzzzzz",
		"300abc:#000,#fff",
		"100000:#000000,#ffffff",
		"999999999999999:#000000,#ffffff",
	}
	for _, spec := range bad {
		if _, err := Lookup(spec); !errors.Is(err, ErrInvalidPalette) {
			t.Errorf("Lookup(%q) error = %v, want ErrInvalidPalette", spec, err)
		}
	}
}

func BenchmarkTable_ColorFor(b *testing.B) {
	table := Twilight.Compile()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = table.ColorFor(i, 1<<30)
	}
}
