package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/donut/camera"
	"github.com/lixenwraith/donut/render"
	"github.com/lixenwraith/donut/shade"
)

func newFrame(t *testing.T) *render.Buffer {
	t.Helper()
	buf, err := render.NewBuffer(5, 3, ' ')
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	buf.Plot(camera.Point{X: 0, Y: 0, InvDepth: 0.5}, func() rune { return '@' })
	buf.Plot(camera.Point{X: -2, Y: -1, InvDepth: 0.5}, func() rune { return '.' })
	return buf
}

func TestStreamPresenterLayout(t *testing.T) {
	var out bytes.Buffer
	p := NewStreamPresenter(&out, StreamOptions{Mode: StreamAppend})

	if err := p.Present(newFrame(t), 1500*time.Microsecond); err != nil {
		t.Fatalf("Present: %v", err)
	}

	want := "\n.    \n  @  \n     \n \n1.5ms\n"
	if got := out.String(); got != want {
		t.Errorf("Frame text = %q, want %q", got, want)
	}
}

func TestStreamPresenterModes(t *testing.T) {
	tests := []struct {
		mode   StreamMode
		prefix string
	}{
		{StreamClear, "\x1b[2J\x1b[H\n"},
		{StreamHome, "\x1b[H\n"},
		{StreamAppend, "\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewStreamPresenter(&out, StreamOptions{Mode: tt.mode})
		if err := p.Present(newFrame(t), time.Millisecond); err != nil {
			t.Fatalf("Present: %v", err)
		}
		if !strings.HasPrefix(out.String(), tt.prefix) {
			t.Errorf("mode %d: frame starts %q, want prefix %q", tt.mode, out.String()[:min(12, out.Len())], tt.prefix)
		}
	}
}

func TestStreamPresenterColor(t *testing.T) {
	table, err := shade.NewTable(" .@", []float64{0, 0.5, 1})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	pal, err := NewPalette(ColorModeTrueColor, table.Len(), "#000000", "#ffffff")
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}

	var out bytes.Buffer
	p := NewStreamPresenter(&out, StreamOptions{Mode: StreamAppend, Palette: pal, Table: table})
	if err := p.Present(newFrame(t), time.Millisecond); err != nil {
		t.Fatalf("Present: %v", err)
	}
	s := out.String()

	if !strings.Contains(s, "\x1b[38;2;255;255;255m@") {
		t.Errorf("Expected brightest level color before '@', got %q", s)
	}
	if !strings.Contains(s, "\x1b[0m \n") {
		t.Errorf("Expected attribute reset before the trailing line, got %q", s)
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestStreamPresenterWriteError(t *testing.T) {
	p := NewStreamPresenter(failingWriter{}, StreamOptions{})
	if err := p.Present(newFrame(t), time.Millisecond); !errors.Is(err, errWrite) {
		t.Errorf("Expected write error to propagate, got %v", err)
	}
}

func TestStreamPresenterCursor(t *testing.T) {
	var out bytes.Buffer
	p := NewStreamPresenter(&out, StreamOptions{Mode: StreamHome})
	if err := p.HideCursor(); err != nil {
		t.Fatalf("HideCursor: %v", err)
	}
	if got := out.String(); got != "\x1b[?25l" {
		t.Errorf("HideCursor wrote %q", got)
	}

	out.Reset()
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := out.String(); got != "\x1b[0m\x1b[?25h" {
		t.Errorf("Close wrote %q, want attribute reset and cursor show", got)
	}

	// Appended frames never carry control sequences
	out.Reset()
	plain := NewStreamPresenter(&out, StreamOptions{Mode: StreamAppend})
	if err := plain.Close(); err != nil || out.Len() != 0 {
		t.Errorf("Append-mode Close wrote %q (%v)", out.String(), err)
	}
}
