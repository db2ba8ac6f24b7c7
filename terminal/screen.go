package terminal

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/donut/parameter"
	"github.com/lixenwraith/donut/render"
	"github.com/lixenwraith/donut/shade"
)

// ScreenOptions configures a ScreenPresenter
type ScreenOptions struct {
	Palette *Palette     // nil draws with the default style
	Table   *shade.Table // Maps glyphs back to shading levels for the palette
	Mode    ColorMode    // Status line color mode

	// OnQuit is called once from the event goroutine on Esc, q or Ctrl-C
	OnQuit func()
}

// ScreenPresenter draws frames centered on a full-screen tcell screen
type ScreenPresenter struct {
	screen tcell.Screen
	opts   ScreenOptions
	status tcell.Style

	quitOnce sync.Once
	done     chan struct{}
	closed   sync.Once
	frames   uint64
}

// OpenScreen creates and initializes the terminal screen
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// NewScreenPresenter takes ownership of an initialized screen and starts its event loop
func NewScreenPresenter(screen tcell.Screen, opts ScreenOptions) *ScreenPresenter {
	if opts.Table == nil {
		opts.Palette = nil
	}
	screen.HideCursor()
	screen.Clear()

	p := &ScreenPresenter{
		screen: screen,
		opts:   opts,
		status: StatusStyle(opts.Mode),
		done:   make(chan struct{}),
	}
	go p.pollEvents()
	return p
}

// pollEvents runs until the screen is finalized
func (p *ScreenPresenter) pollEvents() {
	defer close(p.done)
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				p.quit()
			}
		case *tcell.EventResize:
			w, h := ev.Size()
			log.Printf("screen: resized to %dx%d", w, h)
			p.screen.Sync()
		}
	}
}

func (p *ScreenPresenter) quit() {
	p.quitOnce.Do(func() {
		if p.opts.OnQuit != nil {
			p.opts.OnQuit()
		}
	})
}

// Origin returns the top-left cell of a width x height grid centered on the screen
// The status rows sit below the grid; small screens pin the grid to the corner
func Origin(screenW, screenH, width, height int) (int, int) {
	ox := max((screenW-width)/2, 0)
	oy := max((screenH-height-parameter.StatusRows)/2, 0)
	return ox, oy
}

// Present draws one frame and shows it
func (p *ScreenPresenter) Present(buf *render.Buffer, elapsed time.Duration) error {
	s := p.screen
	s.Clear()

	sw, sh := s.Size()
	ox, oy := Origin(sw, sh, buf.Width(), buf.Height())
	blank := buf.Blank()

	for y := range buf.Height() {
		for x, g := range buf.Row(y) {
			if g == blank {
				continue
			}
			s.SetContent(ox+x, oy+y, g, nil, p.style(g))
		}
	}

	p.frames++
	line := fmt.Sprintf("%v  frame %d  [q/Esc quit]", elapsed, p.frames)
	for i, r := range line {
		s.SetContent(ox+i, oy+buf.Height(), r, nil, p.status)
	}

	s.Show()
	return nil
}

func (p *ScreenPresenter) style(g rune) tcell.Style {
	if p.opts.Palette == nil {
		return tcell.StyleDefault
	}
	level, ok := p.opts.Table.Level(g)
	if !ok {
		return tcell.StyleDefault
	}
	return p.opts.Palette.Style(level)
}

// Close finalizes the screen and waits for the event loop to exit
func (p *ScreenPresenter) Close() error {
	p.closed.Do(func() {
		p.screen.Fini()
		<-p.done
	})
	return nil
}
