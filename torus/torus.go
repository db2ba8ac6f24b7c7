// Package torus samples points and normals on a ring torus
package torus

import (
	"errors"
	"math"

	"github.com/lixenwraith/donut/vmath"
)

var (
	// ErrInvalidRadius is returned for a non-positive or non-finite tube radius
	ErrInvalidRadius = errors.New("torus: minor radius must be positive and finite")

	// ErrSelfIntersecting is returned when the ring radius does not exceed the tube radius
	ErrSelfIntersecting = errors.New("torus: major radius must exceed minor radius")
)

// Torus is a ring torus centered at the origin with its axis along Z
// At zero rotation the ring lies in the screen plane and faces the camera
type Torus struct {
	Minor float64 // R1, tube radius
	Major float64 // R2, distance from the origin to the tube center
}

// Sample is one surface point with its object-space normal
// Normal is not normalized; shading normalizes only samples that survive the depth test
type Sample struct {
	Pos    vmath.Vec3F
	Normal vmath.Vec3F
}

// New validates the radii
func New(minor, major float64) (Torus, error) {
	if !(minor > 0) || math.IsInf(minor, 0) {
		return Torus{}, ErrInvalidRadius
	}
	if !(major > minor) || math.IsInf(major, 0) {
		return Torus{}, ErrSelfIntersecting
	}
	return Torus{Minor: minor, Major: major}, nil
}

// Sample returns the surface point at theta1 (around the tube) and theta2 (around the ring)
func (t Torus) Sample(theta1, theta2 float64) Sample {
	sin1, cos1 := math.Sincos(theta1)
	sin2, cos2 := math.Sincos(theta2)
	return t.sample(sin1, cos1, sin2, cos2)
}

// sample takes precomputed trig so sweeps can hoist the outer angle
func (t Torus) sample(sin1, cos1, sin2, cos2 float64) Sample {
	// Distance from the Z axis of the point on the tube's cross-section circle
	ring := t.Major + t.Minor*cos1

	// Offset from the tube center line, length Minor, pointing outward
	nx := t.Minor * cos1 * cos2
	ny := t.Minor * cos1 * sin2
	nz := t.Minor * sin1

	return Sample{
		Pos:    vmath.Vec3F{X: ring * cos2, Y: ring * sin2, Z: nz},
		Normal: vmath.Vec3F{X: nx, Y: ny, Z: nz},
	}
}

// Ring holds the trig of one theta2 value, reused across the inner theta1 sweep
type Ring struct {
	t          Torus
	sin2, cos2 float64
}

// Ring precomputes theta2 for a sweep over theta1
func (t Torus) Ring(theta2 float64) Ring {
	s, c := math.Sincos(theta2)
	return Ring{t: t, sin2: s, cos2: c}
}

// Sample returns the point at theta1 on this ring
func (r Ring) Sample(theta1 float64) Sample {
	sin1, cos1 := math.Sincos(theta1)
	return r.t.sample(sin1, cos1, r.sin2, r.cos2)
}

// TubeDistance returns the distance from p to the tube's center circle
// Every sampled point is exactly Minor away from it
func (t Torus) TubeDistance(p vmath.Vec3F) float64 {
	radial := math.Hypot(p.X, p.Y) - t.Major
	return math.Hypot(radial, p.Z)
}
