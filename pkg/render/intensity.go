package render

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Background is the glyph for cells with no lit surface.
const Background = ' '

// DefaultLevels is the stock shading ramp, dimmest first.
const DefaultLevels = ".,;0#@"

// levelEpsilon keeps an intensity of exactly 1 inside the table.
const levelEpsilon = 0.1

// IntensityTable maps shading intensities in [0, 1] to glyphs.
type IntensityTable []rune

// NewIntensityTable builds a table from a string of glyphs, dimmest first.
func NewIntensityTable(levels string) (IntensityTable, error) {
	if levels == "" {
		return nil, ErrEmptyIntensityTable
	}
	if !utf8.ValidString(levels) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevels, levels)
	}
	return IntensityTable([]rune(levels)), nil
}

// Glyph returns the glyph for intensity t: levels[floor(t·(n-ε))].
// t ≤ 0 is background; t above 1 is treated as 1.
func (t IntensityTable) Glyph(v float64) rune {
	i := t.Level(v)
	if i < 0 {
		return Background
	}
	return t[i]
}

// Level returns the table index Glyph would use for v, or -1 for
// background.
func (t IntensityTable) Level(v float64) int {
	if len(t) == 0 || !(v > 0) {
		return -1
	}
	v = math.Min(v, 1)
	return min(int(math.Floor(v*(float64(len(t))-levelEpsilon))), len(t)-1)
}

func (t IntensityTable) String() string {
	return string(t)
}
