package render

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/donut/camera"
)

var (
	ErrInvalidSize   = errors.New("render: grid dimensions must be positive")
	ErrEvenCellCount = errors.New("render: grid cell count must be odd")
	ErrSizeMismatch  = errors.New("render: buffer dimensions differ")
)

// Buffer is the per-frame depth buffer and glyph image over a fixed grid
// Both arrays share the flat row-major layout; index 0 is the top-left cell
// Depth holds inverse depth, 0 means no sample reached the cell this frame
type Buffer struct {
	depth  []float64
	image  []rune
	width  int
	height int
	center int
	blank  rune
}

// NewBuffer allocates a cleared buffer
// The cell count must be odd so that a single center cell exists
func NewBuffer(width, height int, blank rune) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	size := width * height
	if size%2 == 0 {
		return nil, fmt.Errorf("%w: %dx%d = %d", ErrEvenCellCount, width, height, size)
	}
	b := &Buffer{
		depth:  make([]float64, size),
		image:  make([]rune, size),
		width:  width,
		height: height,
		center: (size - 1) / 2,
		blank:  blank,
	}
	b.Reset()
	return b, nil
}

// Reset clears depth to 0 and the image to blank using exponential copy
func (b *Buffer) Reset() {
	b.depth[0] = 0
	b.image[0] = b.blank
	for filled := 1; filled < len(b.depth); filled *= 2 {
		copy(b.depth[filled:], b.depth[:filled])
		copy(b.image[filled:], b.image[:filled])
	}
}

// Index maps a centered grid offset to a flat index
// Offsets past a row edge land in the neighbouring row; only indices outside the buffer are rejected
func (b *Buffer) Index(x, y int) (int, bool) {
	idx := x + y*b.width + b.center
	if idx < 0 || idx >= len(b.depth) {
		return 0, false
	}
	return idx, true
}

// Plot runs the depth test for a projected sample
// The write happens only if p is strictly closer than the stored sample, so ties keep the first one
// shade is evaluated only for samples that win
func (b *Buffer) Plot(p camera.Point, shade func() rune) bool {
	idx, ok := b.Index(p.X, p.Y)
	if !ok {
		return false
	}
	if !(p.InvDepth > b.depth[idx]) {
		return false
	}
	b.depth[idx] = p.InvDepth
	b.image[idx] = shade()
	return true
}

// Merge folds src into b with the same strict depth test
// Merging worker buffers in sweep order reproduces the sequential first-seen tie-break
func (b *Buffer) Merge(src *Buffer) error {
	if src.width != b.width || src.height != b.height {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrSizeMismatch, src.width, src.height, b.width, b.height)
	}
	for i, d := range src.depth {
		if d > b.depth[i] {
			b.depth[i] = d
			b.image[i] = src.image[i]
		}
	}
	return nil
}

// Width returns the grid width in cells
func (b *Buffer) Width() int { return b.width }

// Height returns the grid height in cells
func (b *Buffer) Height() int { return b.height }

// Len returns the cell count
func (b *Buffer) Len() int { return len(b.depth) }

// Blank returns the placeholder glyph for empty cells
func (b *Buffer) Blank() rune { return b.blank }

// Depth returns the stored inverse depth at idx
func (b *Buffer) Depth(idx int) float64 { return b.depth[idx] }

// Glyph returns the stored glyph at idx
func (b *Buffer) Glyph(idx int) rune { return b.image[idx] }

// Glyphs returns the image in row-major order
// The slice aliases the buffer and is only valid until the next Reset
func (b *Buffer) Glyphs() []rune { return b.image }

// Row returns row y of the image, aliasing the buffer
func (b *Buffer) Row(y int) []rune {
	start := y * b.width
	return b.image[start : start+b.width]
}

// Filled counts cells that received a sample this frame
func (b *Buffer) Filled() int {
	n := 0
	for _, d := range b.depth {
		if d > 0 {
			n++
		}
	}
	return n
}
