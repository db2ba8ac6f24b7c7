package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/donut/camera"
	"github.com/lixenwraith/donut/render"
)

func newTestRenderer(t *testing.T, mutate func(*Config)) *Renderer {
	t.Helper()
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	if mutate != nil {
		mutate(&cfg)
	}
	r, err := NewRenderer(cfg, NewMockTimeProvider(time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

// cellOffset inverts Buffer.Index for grids where nothing wraps
func cellOffset(buf *render.Buffer, idx int) (x, y int) {
	w, h := buf.Width(), buf.Height()
	return idx%w - (w-1)/2, idx/w - (h-1)/2
}

func TestSweepProducesFrame(t *testing.T) {
	r := newTestRenderer(t, nil)
	r.Sweep()
	buf := r.Buffer()

	if buf.Width() != 111 || buf.Height() != 35 {
		t.Fatalf("Expected 111x35 buffer, got %dx%d", buf.Width(), buf.Height())
	}
	if buf.Filled() == 0 {
		t.Fatal("Expected a non-empty frame at zero rotation")
	}

	table := r.cfg.Table
	nonBlank := 0
	for i, g := range buf.Glyphs() {
		if g != buf.Blank() {
			nonBlank++
		}
		if g != buf.Blank() && !table.Contains(g) {
			t.Fatalf("Cell %d holds %q, outside the shading alphabet", i, g)
		}
		if d := buf.Depth(i); d < 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			t.Fatalf("Cell %d has invalid depth %v", i, d)
		}
	}
	if nonBlank == 0 {
		t.Error("Expected visible glyphs, got only blanks")
	}
}

func TestSweepDepthIsMaximum(t *testing.T) {
	r := newTestRenderer(t, func(c *Config) {
		c.Step = 0.05
		c.Phi1 = 0.7
		c.Phi2 = 1.3
	})
	r.Sweep()
	buf := r.Buffer()

	// Recompute the best inverse depth per cell directly from the surface
	cfg := r.cfg
	best := make([]float64, buf.Len())
	o := camera.NewOrientation(cfg.Phi1, cfg.Phi2)
	for i2 := 0; i2 < r.Steps(); i2++ {
		for i1 := 0; i1 < r.Steps(); i1++ {
			s := cfg.Torus.Sample(float64(i1)*cfg.Step, float64(i2)*cfg.Step)
			p, ok := cfg.Camera.Project(cfg.Camera.Transform(s, o).Pos)
			if !ok {
				continue
			}
			idx, ok := buf.Index(p.X, p.Y)
			if !ok {
				continue
			}
			best[idx] = max(best[idx], p.InvDepth)
		}
	}

	for i := range best {
		if buf.Depth(i) != best[i] {
			t.Fatalf("Cell %d depth %v, expected maximum %v", i, buf.Depth(i), best[i])
		}
	}
}

func TestSweepSymmetricAtRest(t *testing.T) {
	r := newTestRenderer(t, nil)
	r.Sweep()
	buf := r.Buffer()

	filled := make(map[[2]int]bool)
	for i := 0; i < buf.Len(); i++ {
		if buf.Depth(i) > 0 {
			x, y := cellOffset(buf, i)
			filled[[2]int{x, y}] = true
		}
	}
	if len(filled) == 0 {
		t.Fatal("Expected a non-empty frame")
	}

	// floor maps a mirrored offset v to -v-1 or -v depending on the fractional part
	mirror := func(v int, flip bool) []int {
		if !flip {
			return []int{v}
		}
		return []int{-v - 1, -v}
	}

	tests := []struct {
		name         string
		flipX, flipY bool
	}{
		{"about x=0", true, false},
		{"about y=0", false, true},
		{"through the center", true, true},
	}
	for _, tt := range tests {
		matched := 0
		for c := range filled {
		search:
			for _, x := range mirror(c[0], tt.flipX) {
				for _, y := range mirror(c[1], tt.flipY) {
					if filled[[2]int{x, y}] {
						matched++
						break search
					}
				}
			}
		}
		if ratio := float64(matched) / float64(len(filled)); ratio < 0.98 {
			t.Errorf("Mirror %s: matched %.3f of %d cells", tt.name, ratio, len(filled))
		}
	}
}

func TestSweepFaceOnAtRest(t *testing.T) {
	r := newTestRenderer(t, nil)
	r.Sweep()
	buf := r.Buffer()

	// The ring faces the camera, so the hole sits on the grid center
	center, _ := buf.Index(0, 0)
	if buf.Depth(center) != 0 {
		t.Errorf("Expected an empty center cell, depth %v", buf.Depth(center))
	}

	// Rows above and below the hole carry the ring
	rows := 0
	for y := range buf.Height() {
		for _, g := range buf.Row(y) {
			if g != buf.Blank() {
				rows++
				break
			}
		}
	}
	if rows < 25 {
		t.Errorf("Expected the face-on ring to span most rows, got %d of %d", rows, buf.Height())
	}
}

func TestSweepRotationChangesImage(t *testing.T) {
	frame := func(phi2 float64) []rune {
		r := newTestRenderer(t, func(c *Config) { c.Phi2 = phi2 })
		r.Sweep()
		return append([]rune(nil), r.Buffer().Glyphs()...)
	}

	rest := frame(0)
	for _, phi2 := range []float64{math.Pi / 4, math.Pi / 3} {
		turned := frame(phi2)
		differ := 0
		for i := range rest {
			if rest[i] != turned[i] {
				differ++
			}
		}
		if differ < len(rest)/20 {
			t.Errorf("phi2=%.3f: only %d of %d cells changed", phi2, differ, len(rest))
		}
	}

	// Advancing by the configured speed must move the image within a few frames
	r := newTestRenderer(t, nil)
	for range 10 {
		r.Advance()
	}
	r.Sweep()
	differ := 0
	for i, g := range r.Buffer().Glyphs() {
		if g != rest[i] {
			differ++
		}
	}
	if differ == 0 {
		t.Error("Ten frames of rotation left the image unchanged")
	}
}

func TestSweepNearPlaneDiscard(t *testing.T) {
	// One sample per frame at (R1+R2, 0, 0); rotating about Y by -π/2 moves it to z=+5
	single := func(phi2 float64) func(*Config) {
		return func(c *Config) {
			c.Step = 2 * math.Pi
			c.Camera.K2 = 2
			c.Phi2 = phi2
		}
	}

	behind := newTestRenderer(t, single(-math.Pi/2))
	if behind.Steps() != 1 {
		t.Fatalf("Expected a single sample per revolution, got %d", behind.Steps())
	}
	behind.Sweep()
	for i := 0; i < behind.Buffer().Len(); i++ {
		if behind.Buffer().Depth(i) != 0 || behind.Buffer().Glyph(i) != behind.Buffer().Blank() {
			t.Fatalf("Cell %d touched by a sample behind the camera", i)
		}
	}

	front := newTestRenderer(t, single(math.Pi/2))
	front.Sweep()
	if got := front.Buffer().Filled(); got != 1 {
		t.Errorf("Expected the sample in front of the camera to land, filled=%d", got)
	}
}

func TestParallelSweepMatchesSequential(t *testing.T) {
	for _, workers := range []int{2, 3, 8, 1000} {
		seq := newTestRenderer(t, func(c *Config) {
			c.Phi1 = 0.4
			c.Phi2 = 2.2
		})
		par := newTestRenderer(t, func(c *Config) {
			c.Phi1 = 0.4
			c.Phi2 = 2.2
			c.Workers = workers
		})
		seq.Sweep()
		par.Sweep()

		a, b := seq.Buffer(), par.Buffer()
		for i := 0; i < a.Len(); i++ {
			if a.Depth(i) != b.Depth(i) || a.Glyph(i) != b.Glyph(i) {
				t.Fatalf("workers=%d: cell %d differs: (%v,%q) vs (%v,%q)",
					workers, i, a.Depth(i), a.Glyph(i), b.Depth(i), b.Glyph(i))
			}
		}

		// A second frame must not carry state over from the first
		seq.Buffer().Reset()
		par.Buffer().Reset()
		seq.Advance()
		par.Advance()
		seq.Sweep()
		par.Sweep()
		for i := 0; i < a.Len(); i++ {
			if a.Depth(i) != b.Depth(i) || a.Glyph(i) != b.Glyph(i) {
				t.Fatalf("workers=%d: second frame cell %d differs", workers, i)
			}
		}
	}
}

func TestAdvance(t *testing.T) {
	r := newTestRenderer(t, func(c *Config) {
		c.SpeedX = 1.5
		c.SpeedY = -0.5
		c.TimeDelta = 0.1
	})
	for i := 0; i < 3; i++ {
		r.Advance()
	}
	phi1, phi2 := r.Angles()
	if math.Abs(phi1-0.45) > 1e-12 || math.Abs(phi2+0.15) > 1e-12 {
		t.Errorf("Expected angles (0.45, -0.15), got (%v, %v)", phi1, phi2)
	}
}

func TestTick(t *testing.T) {
	clock := NewMockTimeProvider(time.Unix(0, 0))
	clock.SetStep(7 * time.Millisecond)

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	cfg.Step = 0.05
	r, err := NewRenderer(cfg, clock)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var seenFilled int
	var seenElapsed time.Duration
	out := PresenterFunc(func(buf *render.Buffer, elapsed time.Duration) error {
		seenFilled = buf.Filled()
		seenElapsed = elapsed
		return nil
	})

	if err := r.Tick(out); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if seenFilled == 0 {
		t.Error("Presenter saw an empty frame")
	}
	if seenElapsed != 7*time.Millisecond {
		t.Errorf("Expected elapsed 7ms from the mock clock, got %v", seenElapsed)
	}
	if r.Buffer().Filled() != 0 {
		t.Error("Buffer not reset after Tick")
	}
	if r.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", r.Frames())
	}
	if _, phi2 := r.Angles(); math.Abs(phi2-cfg.SpeedY*cfg.TimeDelta) > 1e-12 {
		t.Errorf("Expected phi2 advanced once, got %v", phi2)
	}
}

func TestRunFrameLimit(t *testing.T) {
	r := newTestRenderer(t, func(c *Config) { c.Step = 0.1 })

	calls := 0
	err := r.Run(context.Background(), PresenterFunc(func(*render.Buffer, time.Duration) error {
		calls++
		return nil
	}), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 5 || r.Frames() != 5 {
		t.Errorf("Expected 5 frames, got calls=%d frames=%d", calls, r.Frames())
	}
}

func TestRunCancel(t *testing.T) {
	r := newTestRenderer(t, func(c *Config) { c.Step = 0.1 })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := r.Run(ctx, PresenterFunc(func(*render.Buffer, time.Duration) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	}), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected loop to stop after 3 frames, got %d", calls)
	}
}

func TestRunPresenterError(t *testing.T) {
	r := newTestRenderer(t, func(c *Config) { c.Step = 0.1 })

	errBroken := errors.New("broken pipe")
	err := r.Run(context.Background(), PresenterFunc(func(*render.Buffer, time.Duration) error {
		return errBroken
	}), 0)
	if !errors.Is(err, errBroken) {
		t.Fatalf("Expected wrapped presenter error, got %v", err)
	}
	if r.Frames() != 0 {
		t.Errorf("Failed frame must not be counted, got %d", r.Frames())
	}
}
