package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/donut/camera"
	"github.com/lixenwraith/donut/render"
)

// Presenter receives each completed frame
// The buffer is reset after Present returns and must not be retained
type Presenter interface {
	Present(buf *render.Buffer, elapsed time.Duration) error
}

// PresenterFunc adapts a function to Presenter
type PresenterFunc func(buf *render.Buffer, elapsed time.Duration) error

func (f PresenterFunc) Present(buf *render.Buffer, elapsed time.Duration) error {
	return f(buf, elapsed)
}

// Renderer owns the rotation state and the frame buffers
// It has a single state: every Tick renders, presents and resets one frame
type Renderer struct {
	cfg   Config
	clock Clock

	buf    *render.Buffer
	locals []*render.Buffer // Per-worker buffers, nil for sequential sweeps
	steps  int

	phi1, phi2 float64
	frames     uint64
}

// NewRenderer validates cfg and allocates the buffers
func NewRenderer(cfg Config, clock Clock) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buf, err := render.NewBuffer(cfg.Width, cfg.Height, cfg.Blank)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = NewTimeProvider()
	}

	r := &Renderer{
		cfg:   cfg,
		clock: clock,
		buf:   buf,
		steps: cfg.steps(),
		phi1:  cfg.Phi1,
		phi2:  cfg.Phi2,
	}

	workers := min(cfg.Workers, r.steps)
	if workers > 1 {
		r.locals = make([]*render.Buffer, workers)
		for i := range r.locals {
			// Same dimensions as buf, cannot fail
			r.locals[i], _ = render.NewBuffer(cfg.Width, cfg.Height, cfg.Blank)
		}
	}
	return r, nil
}

// Buffer returns the frame buffer
func (r *Renderer) Buffer() *render.Buffer {
	return r.buf
}

// Angles returns the current rotation angles about X and Y
func (r *Renderer) Angles() (phi1, phi2 float64) {
	return r.phi1, r.phi2
}

// Frames returns the number of completed frames
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// Steps returns the number of samples per revolution of each surface angle
func (r *Renderer) Steps() int {
	return r.steps
}

// Advance moves the rotation forward by one frame of simulated time
func (r *Renderer) Advance() {
	r.phi1 += r.cfg.SpeedX * r.cfg.TimeDelta
	r.phi2 += r.cfg.SpeedY * r.cfg.TimeDelta
}

// Sweep samples the whole surface at the current angles into the buffer
// The buffer is expected to be reset; Sweep only adds samples
func (r *Renderer) Sweep() {
	o := camera.NewOrientation(r.phi1, r.phi2)
	if r.locals == nil {
		r.sweepRange(r.buf, o, 0, r.steps)
		return
	}
	r.sweepParallel(o)
}

// sweepRange renders theta2 indices [from, to) with the full theta1 circle each
func (r *Renderer) sweepRange(buf *render.Buffer, o camera.Orientation, from, to int) {
	cam := r.cfg.Camera
	light := r.cfg.Light
	table := r.cfg.Table
	step := r.cfg.Step

	for i2 := from; i2 < to; i2++ {
		ring := r.cfg.Torus.Ring(float64(i2) * step)
		for i1 := 0; i1 < r.steps; i1++ {
			v := cam.Transform(ring.Sample(float64(i1)*step), o)
			p, ok := cam.Project(v.Pos)
			if !ok {
				continue
			}
			buf.Plot(p, func() rune {
				return table.Glyph(light.Brightness(v.Normal))
			})
		}
	}
}

// sweepParallel splits theta2 into contiguous chunks, one private buffer each
// Chunks are merged in sweep order so the result matches the sequential sweep exactly
func (r *Renderer) sweepParallel(o camera.Orientation) {
	n := len(r.locals)
	chunk := (r.steps + n - 1) / n

	var g errgroup.Group
	for w, local := range r.locals {
		from := w * chunk
		to := min(from+chunk, r.steps)
		g.Go(func() error {
			local.Reset()
			if from < to {
				r.sweepRange(local, o, from, to)
			}
			return nil
		})
	}
	// Workers never fail
	_ = g.Wait()

	for _, local := range r.locals {
		// Dimensions are identical by construction
		_ = r.buf.Merge(local)
	}
}

// Tick renders one frame, hands it to out with its elapsed time, then resets the buffer
func (r *Renderer) Tick(out Presenter) error {
	start := r.clock.Now()
	r.Advance()
	r.Sweep()
	elapsed := r.clock.Now().Sub(start)

	if err := out.Present(r.buf, elapsed); err != nil {
		return fmt.Errorf("present frame %d: %w", r.frames, err)
	}
	r.buf.Reset()
	r.frames++
	return nil
}

// Run ticks until ctx is done, out fails, or frames frames are rendered
// frames <= 0 runs without limit
func (r *Renderer) Run(ctx context.Context, out Presenter, frames int) error {
	log.Printf("render: %dx%d grid, %d samples per frame, %d workers",
		r.cfg.Width, r.cfg.Height, r.steps*r.steps, max(len(r.locals), 1))

	for frames <= 0 || r.frames < uint64(frames) {
		select {
		case <-ctx.Done():
			log.Printf("render: stopped after %d frames", r.frames)
			return ctx.Err()
		default:
		}
		if err := r.Tick(out); err != nil {
			return err
		}
	}
	log.Printf("render: completed %d frames", r.frames)
	return nil
}
