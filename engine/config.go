package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/donut/camera"
	"github.com/lixenwraith/donut/parameter"
	"github.com/lixenwraith/donut/shade"
	"github.com/lixenwraith/donut/torus"
	"github.com/lixenwraith/donut/vmath"
)

var (
	ErrInvalidStep    = errors.New("engine: angular step must be positive and finite")
	ErrInvalidCamera  = errors.New("engine: camera distance and zoom must be positive")
	ErrMissingTable   = errors.New("engine: shading table is nil")
	ErrInvalidWorkers = errors.New("engine: worker count must not be negative")
)

// Config holds everything a frame depends on
// All of it is fixed for the life of a Renderer
type Config struct {
	Torus  torus.Torus
	Camera camera.Camera
	Light  shade.Light
	Table  *shade.Table

	Width  int
	Height int
	Blank  rune

	// Step is the sampling interval for both surface angles, in radians
	Step float64

	// SpeedX and SpeedY are angular velocities in radians per second
	SpeedX float64
	SpeedY float64

	// TimeDelta is the simulated seconds each frame advances the rotation
	TimeDelta float64

	// Phi1 and Phi2 are the starting rotation angles
	Phi1 float64
	Phi2 float64

	// Workers > 1 splits the sweep across goroutines with identical output
	Workers int
}

// DefaultConfig returns the reference configuration from the parameter package
func DefaultConfig() (Config, error) {
	tor, err := torus.New(parameter.TorusMinorRadius, parameter.TorusMajorRadius)
	if err != nil {
		return Config{}, err
	}
	light, err := shade.NewLight(vmath.V3FFromArray(parameter.LightDirection))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Torus:     tor,
		Camera:    camera.Default(),
		Light:     light,
		Table:     shade.Default,
		Width:     parameter.GridWidth,
		Height:    parameter.GridHeight,
		Blank:     parameter.BlankGlyph,
		Step:      parameter.AngularStep,
		SpeedX:    parameter.RotationSpeedX,
		SpeedY:    parameter.RotationSpeedY,
		TimeDelta: parameter.TimeDelta,
		Workers:   1,
	}, nil
}

// Validate runs the startup checks; any failure is fatal before the first frame
// Grid parity is checked when the buffer is allocated
func (c Config) Validate() error {
	if _, err := torus.New(c.Torus.Minor, c.Torus.Major); err != nil {
		return err
	}
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, c.Step)
	}
	if !(c.Camera.K2 > 0) || !(c.Camera.K1 > 0) || !(c.Camera.AspectX > 0) {
		return fmt.Errorf("%w: %+v", ErrInvalidCamera, c.Camera)
	}
	if vmath.V3FMagSq(c.Light.Direction()) == 0 {
		return shade.ErrZeroLight
	}
	if c.Table == nil {
		return ErrMissingTable
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// steps returns the sample count per revolution; k*Step stays below 2π for k < steps
func (c Config) steps() int {
	return int(math.Ceil(2 * math.Pi / c.Step))
}
