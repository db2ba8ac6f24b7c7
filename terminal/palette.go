package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/donut/parameter/visual"
)

var (
	ErrNoLevels     = errors.New("terminal: palette needs at least one level")
	ErrInvalidColor = errors.New("terminal: invalid palette color")
)

// Palette maps shading levels to terminal colors, darkest level first
type Palette struct {
	mode   ColorMode
	colors []colorful.Color
	gray   []uint8 // 256-palette index per level
}

// NewPalette blends levels colors between two hex endpoints in Lab space
// Each level's 256-color index is the grayscale ramp entry nearest its lightness
func NewPalette(mode ColorMode, levels int, dark, bright string) (*Palette, error) {
	if levels < 1 {
		return nil, ErrNoLevels
	}
	from, err := colorful.Hex(dark)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidColor, dark, err)
	}
	to, err := colorful.Hex(bright)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidColor, bright, err)
	}

	p := &Palette{
		mode:   mode,
		colors: make([]colorful.Color, levels),
		gray:   make([]uint8, levels),
	}
	for i := range levels {
		t := 0.0
		if levels > 1 {
			t = float64(i) / float64(levels-1)
		}
		c := from.BlendLab(to, t).Clamped()
		p.colors[i] = c
		p.gray[i] = grayIndex(c)
	}
	return p, nil
}

// DefaultPalette uses the parameter endpoints
func DefaultPalette(mode ColorMode, levels int) (*Palette, error) {
	return NewPalette(mode, levels, visual.PaletteDark, visual.PaletteBright)
}

// Mode returns the color mode the palette emits
func (p *Palette) Mode() ColorMode {
	return p.mode
}

// Len returns the number of levels
func (p *Palette) Len() int {
	return len(p.colors)
}

func (p *Palette) clamp(level int) int {
	return min(max(level, 0), len(p.colors)-1)
}

// Color returns the blended color of a level, clamped to the valid range
func (p *Palette) Color(level int) colorful.Color {
	return p.colors[p.clamp(level)]
}

// Gray returns the 256-palette grayscale index of a level
func (p *Palette) Gray(level int) uint8 {
	return p.gray[p.clamp(level)]
}

// Style returns the tcell style for a level in the palette's mode
func (p *Palette) Style(level int) tcell.Style {
	switch p.mode {
	case ColorModeTrueColor:
		r, g, b := p.Color(level).RGB255()
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	case ColorMode256:
		return tcell.StyleDefault.Foreground(tcell.PaletteColor(int(p.Gray(level))))
	}
	return tcell.StyleDefault
}

// writeFg emits the foreground sequence of a level; mono writes nothing
func (p *Palette) writeFg(w *bufio.Writer, level int) {
	switch p.mode {
	case ColorModeTrueColor:
		r, g, b := p.Color(level).RGB255()
		writeFgRGB(w, r, g, b)
	case ColorMode256:
		writeFg256(w, p.Gray(level))
	}
}

// StatusStyle returns the style of the status line in the given mode
func StatusStyle(mode ColorMode) tcell.Style {
	c, err := colorful.Hex(visual.StatusForeground)
	if err != nil {
		return tcell.StyleDefault
	}
	switch mode {
	case ColorModeTrueColor:
		r, g, b := c.RGB255()
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	case ColorMode256:
		return tcell.StyleDefault.Foreground(tcell.PaletteColor(int(grayIndex(c))))
	}
	return tcell.StyleDefault
}

// grayIndex returns the grayscale ramp entry nearest the lightness of c
func grayIndex(c colorful.Color) uint8 {
	l, _, _ := c.Lab()
	step := int(math.Round(l * float64(visual.GrayRampLen-1)))
	step = min(max(step, 0), visual.GrayRampLen-1)
	return uint8(visual.GrayRampStart + step)
}
