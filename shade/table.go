// Package shade maps Lambertian brightness to printable glyphs
package shade

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/donut/parameter"
)

var (
	ErrEmptyTable     = errors.New("shade: table has no glyphs")
	ErrLengthMismatch = errors.New("shade: glyph and threshold counts differ")
	ErrUnsorted       = errors.New("shade: thresholds must be non-decreasing")
	ErrWideGlyph      = errors.New("shade: glyph does not fit one terminal cell")
)

// Default is the reference 92-level table, built once at startup
// A malformed parameter table aborts the process before the first frame
var Default = mustTable(parameter.ShadingGlyphs, parameter.ShadingThresholds[:])

// Table is an immutable step function from brightness to glyph
// Glyph i covers brightness in (thresholds[i-1], thresholds[i]], clamped at both ends
type Table struct {
	thresholds []float64
	glyphs     []rune
	levels     map[rune]int
}

// NewTable builds a table from glyphs ordered darkest first and one threshold per glyph
func NewTable(glyphs string, thresholds []float64) (*Table, error) {
	runes := []rune(glyphs)
	if len(runes) == 0 {
		return nil, ErrEmptyTable
	}
	if len(runes) != len(thresholds) {
		return nil, fmt.Errorf("%w: %d glyphs, %d thresholds", ErrLengthMismatch, len(runes), len(thresholds))
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] < thresholds[i-1] {
			return nil, fmt.Errorf("%w: index %d (%v < %v)", ErrUnsorted, i, thresholds[i], thresholds[i-1])
		}
	}

	levels := make(map[rune]int, len(runes))
	for i, r := range runes {
		if runewidth.RuneWidth(r) != 1 {
			return nil, fmt.Errorf("%w: %q at index %d", ErrWideGlyph, r, i)
		}
		// First occurrence wins if a glyph repeats
		if _, ok := levels[r]; !ok {
			levels[r] = i
		}
	}

	t := &Table{
		thresholds: make([]float64, len(thresholds)),
		glyphs:     runes,
		levels:     levels,
	}
	copy(t.thresholds, thresholds)
	return t, nil
}

func mustTable(glyphs string, thresholds []float64) *Table {
	t, err := NewTable(glyphs, thresholds)
	if err != nil {
		panic(err)
	}
	return t
}

// Index returns the bucket for brightness b
func (t *Table) Index(b float64) int {
	last := len(t.thresholds) - 1
	if b <= t.thresholds[0] || math.IsNaN(b) {
		return 0
	}
	if b >= t.thresholds[last] {
		return last
	}
	// First threshold strictly above b
	return sort.Search(len(t.thresholds), func(i int) bool {
		return t.thresholds[i] > b
	})
}

// Glyph returns the glyph for brightness b
func (t *Table) Glyph(b float64) rune {
	return t.glyphs[t.Index(b)]
}

// Len returns the number of levels
func (t *Table) Len() int {
	return len(t.glyphs)
}

// Glyphs returns a copy of the glyph alphabet, darkest first
func (t *Table) Glyphs() []rune {
	out := make([]rune, len(t.glyphs))
	copy(out, t.glyphs)
	return out
}

// Threshold returns the upper bound of level i
func (t *Table) Threshold(i int) float64 {
	return t.thresholds[i]
}

// Level returns the shading level of glyph r
func (t *Table) Level(r rune) (int, bool) {
	l, ok := t.levels[r]
	return l, ok
}

// Contains reports whether r belongs to the alphabet
func (t *Table) Contains(r rune) bool {
	_, ok := t.levels[r]
	return ok
}
