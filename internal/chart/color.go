package chart

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered set of series colors, reused cyclically.
type Palette []colorful.Color

// DefaultPalette returns the app's accent colors.
func DefaultPalette() Palette {
	return Palette{
		MustHex("#F47A60"),
		MustHex("#87CEEB"),
		MustHex("#5CCB76"),
		MustHex("#FFD54A"),
		MustHex("#6CBFE6"),
		MustHex("#F15B5B"),
		MustHex("#B39DDB"),
	}
}

// MustHex parses a "#rrggbb" color and panics if it is malformed. Use it for
// compile-time constants only.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("chart: invalid hex color %q: %v", s, err))
	}
	return c
}

func NewPalette(hexes ...string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, ErrEmptyPalette
	}
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parse palette color %q: %w", h, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// ColorFor picks palette[index mod len(palette)].
func ColorFor(index int, palette Palette) (colorful.Color, error) {
	if len(palette) == 0 {
		return colorful.Color{}, ErrEmptyPalette
	}
	if index < 0 {
		return colorful.Color{}, &IndexError{Kind: "color", Index: index, Len: len(palette)}
	}
	return palette[index%len(palette)], nil
}

// At is ColorFor for callers that already checked the palette.
func (p Palette) At(index int) colorful.Color {
	c, err := ColorFor(index, p)
	if err != nil {
		panic(err)
	}
	return c
}

func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}
