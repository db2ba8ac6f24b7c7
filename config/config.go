// Package config loads optional TOML overrides on top of the built-in parameters
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/donut/engine"
	"github.com/lixenwraith/donut/shade"
	"github.com/lixenwraith/donut/torus"
	"github.com/lixenwraith/donut/vmath"
)

// ErrBlankGlyph is returned when the blank override is not exactly one character
var ErrBlankGlyph = errors.New("config: grid blank must be a single character")

// File mirrors the TOML layout; absent keys keep the base value
type File struct {
	Torus    TorusSection    `toml:"torus"`
	Camera   CameraSection   `toml:"camera"`
	Rotation RotationSection `toml:"rotation"`
	Sampling SamplingSection `toml:"sampling"`
	Grid     GridSection     `toml:"grid"`
	Light    LightSection    `toml:"light"`
	Shading  ShadingSection  `toml:"shading"`
}

type TorusSection struct {
	Minor *float64 `toml:"minor,omitempty"`
	Major *float64 `toml:"major,omitempty"`
}

type CameraSection struct {
	Zoom     *float64 `toml:"zoom,omitempty"`
	Distance *float64 `toml:"distance,omitempty"`
	AspectX  *float64 `toml:"aspect_x,omitempty"`
}

type RotationSection struct {
	SpeedX    *float64 `toml:"speed_x,omitempty"`
	SpeedY    *float64 `toml:"speed_y,omitempty"`
	TimeDelta *float64 `toml:"time_delta,omitempty"`
	Phi1      *float64 `toml:"phi1,omitempty"`
	Phi2      *float64 `toml:"phi2,omitempty"`
}

type SamplingSection struct {
	Step    *float64 `toml:"step,omitempty"`
	Workers *int     `toml:"workers,omitempty"`
}

type GridSection struct {
	Width  *int    `toml:"width,omitempty"`
	Height *int    `toml:"height,omitempty"`
	Blank  *string `toml:"blank,omitempty"`
}

type LightSection struct {
	Direction *[3]float64 `toml:"direction,omitempty"`
}

// ShadingSection replaces the whole table; both keys must be given together
type ShadingSection struct {
	Glyphs     *string   `toml:"glyphs,omitempty"`
	Thresholds []float64 `toml:"thresholds,omitempty"`
}

// Decode reads a File from r; unknown keys are an error
func Decode(r io.Reader) (File, error) {
	var f File
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return File{}, fmt.Errorf("config: %s", strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return File{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return File{}, fmt.Errorf("config: %w", err)
	}
	return f, nil
}

// Load decodes path and applies it over engine.DefaultConfig
func Load(path string) (engine.Config, error) {
	base, err := engine.DefaultConfig()
	if err != nil {
		return engine.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("config: %w", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := f.Apply(base)
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Apply overlays the set fields on base and validates the result
func (f File) Apply(base engine.Config) (engine.Config, error) {
	cfg := base

	minor, major := cfg.Torus.Minor, cfg.Torus.Major
	setFloat(&minor, f.Torus.Minor)
	setFloat(&major, f.Torus.Major)
	tor, err := torus.New(minor, major)
	if err != nil {
		return engine.Config{}, err
	}
	cfg.Torus = tor

	setFloat(&cfg.Camera.K1, f.Camera.Zoom)
	setFloat(&cfg.Camera.K2, f.Camera.Distance)
	setFloat(&cfg.Camera.AspectX, f.Camera.AspectX)

	setFloat(&cfg.SpeedX, f.Rotation.SpeedX)
	setFloat(&cfg.SpeedY, f.Rotation.SpeedY)
	setFloat(&cfg.TimeDelta, f.Rotation.TimeDelta)
	setFloat(&cfg.Phi1, f.Rotation.Phi1)
	setFloat(&cfg.Phi2, f.Rotation.Phi2)

	setFloat(&cfg.Step, f.Sampling.Step)
	if f.Sampling.Workers != nil {
		cfg.Workers = *f.Sampling.Workers
	}

	if f.Grid.Width != nil {
		cfg.Width = *f.Grid.Width
	}
	if f.Grid.Height != nil {
		cfg.Height = *f.Grid.Height
	}
	if f.Grid.Blank != nil {
		r := []rune(*f.Grid.Blank)
		if len(r) != 1 {
			return engine.Config{}, fmt.Errorf("%w: %q", ErrBlankGlyph, *f.Grid.Blank)
		}
		cfg.Blank = r[0]
	}

	if f.Light.Direction != nil {
		light, err := shade.NewLight(vmath.V3FFromArray(*f.Light.Direction))
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Light = light
	}

	if f.Shading.Glyphs != nil || f.Shading.Thresholds != nil {
		glyphs := ""
		if f.Shading.Glyphs != nil {
			glyphs = *f.Shading.Glyphs
		}
		table, err := shade.NewTable(glyphs, f.Shading.Thresholds)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Table = table
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// FromConfig captures every field of cfg, for printing the effective configuration
func FromConfig(cfg engine.Config) File {
	var f File
	f.Torus = TorusSection{Minor: ptr(cfg.Torus.Minor), Major: ptr(cfg.Torus.Major)}
	f.Camera = CameraSection{Zoom: ptr(cfg.Camera.K1), Distance: ptr(cfg.Camera.K2), AspectX: ptr(cfg.Camera.AspectX)}
	f.Rotation = RotationSection{
		SpeedX:    ptr(cfg.SpeedX),
		SpeedY:    ptr(cfg.SpeedY),
		TimeDelta: ptr(cfg.TimeDelta),
		Phi1:      ptr(cfg.Phi1),
		Phi2:      ptr(cfg.Phi2),
	}
	f.Sampling = SamplingSection{Step: ptr(cfg.Step), Workers: ptr(cfg.Workers)}
	f.Grid = GridSection{Width: ptr(cfg.Width), Height: ptr(cfg.Height), Blank: ptr(string(cfg.Blank))}

	d := cfg.Light.Direction()
	f.Light = LightSection{Direction: &[3]float64{d.X, d.Y, d.Z}}

	if cfg.Table != nil {
		thresholds := make([]float64, cfg.Table.Len())
		for i := range thresholds {
			thresholds[i] = cfg.Table.Threshold(i)
		}
		f.Shading = ShadingSection{Glyphs: ptr(string(cfg.Table.Glyphs())), Thresholds: thresholds}
	}
	return f
}

// Encode writes f as TOML
func (f File) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(f)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}
