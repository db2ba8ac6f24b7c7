package terminal

import (
	"bufio"
	"io"
	"time"

	"github.com/lixenwraith/donut/render"
	"github.com/lixenwraith/donut/shade"
)

// StreamMode selects how a frame replaces the previous one
type StreamMode uint8

const (
	StreamClear StreamMode = iota // Erase the display, then draw from the top-left corner
	StreamHome                    // Move to the top-left corner and overwrite in place
	StreamAppend                  // No control sequence, frames follow each other (pipes, files)
)

// StreamOptions configures a StreamPresenter
// Palette and Table together enable per-level coloring; either nil writes plain glyphs
type StreamOptions struct {
	Mode    StreamMode
	Palette *Palette
	Table   *shade.Table
}

// StreamPresenter writes frames as text
// Each row is preceded by a newline; the frame is followed by a single space line and the frame time
type StreamPresenter struct {
	w    *bufio.Writer
	opts StreamOptions
}

// NewStreamPresenter wraps w in a buffered writer flushed once per frame
func NewStreamPresenter(w io.Writer, opts StreamOptions) *StreamPresenter {
	if opts.Palette != nil && opts.Palette.Mode() == ColorModeMono {
		opts.Palette = nil
	}
	if opts.Table == nil {
		opts.Palette = nil
	}
	return &StreamPresenter{w: bufio.NewWriterSize(w, 16*1024), opts: opts}
}

// Present writes one frame and flushes it
func (p *StreamPresenter) Present(buf *render.Buffer, elapsed time.Duration) error {
	w := p.w
	switch p.opts.Mode {
	case StreamClear:
		w.Write(csiClear)
	case StreamHome:
		w.Write(csiHome)
	}

	for y := range buf.Height() {
		w.WriteByte('\n')
		p.writeRow(buf.Row(y))
	}
	if p.opts.Palette != nil {
		w.Write(csiSGR0)
	}

	w.WriteString(" \n")
	w.WriteString(elapsed.String())
	w.WriteByte('\n')
	return w.Flush()
}

// writeRow emits glyphs, switching color only when the shading level changes
func (p *StreamPresenter) writeRow(row []rune) {
	w := p.w
	if p.opts.Palette == nil {
		for _, g := range row {
			w.WriteRune(g)
		}
		return
	}

	last := -1
	for _, g := range row {
		level, ok := p.opts.Table.Level(g)
		if ok && level != last {
			p.opts.Palette.writeFg(w, level)
			last = level
		}
		w.WriteRune(g)
	}
}

// HideCursor writes the hide-cursor sequence, for in-place modes
func (p *StreamPresenter) HideCursor() error {
	p.w.Write(csiCursorHide)
	return p.w.Flush()
}

// Close restores the cursor and attributes
func (p *StreamPresenter) Close() error {
	if p.opts.Mode != StreamAppend {
		p.w.Write(csiSGR0)
		p.w.Write(csiCursorShow)
	}
	return p.w.Flush()
}
