// Package camera rotates torus samples and projects them onto the character grid
package camera

import (
	"math"

	"github.com/lixenwraith/donut/parameter"
	"github.com/lixenwraith/donut/torus"
	"github.com/lixenwraith/donut/vmath"
)

// Camera is a pinhole on the +Z axis looking toward the origin
type Camera struct {
	K1      float64 // Zoom, cells per unit at unit inverse depth
	K2      float64 // Distance from the camera plane to the origin
	AspectX float64 // Horizontal zoom multiplier for tall cells
}

// Default returns the reference camera
func Default() Camera {
	return Camera{
		K1:      parameter.CameraZoom,
		K2:      parameter.CameraDistance,
		AspectX: parameter.CameraAspectX,
	}
}

// Orientation is the object rotation for one frame
// Phi1 rotates about X and is applied first, Phi2 rotates about Y
type Orientation struct {
	x, y vmath.Rotation
}

// NewOrientation precomputes both rotations
func NewOrientation(phi1, phi2 float64) Orientation {
	return Orientation{x: vmath.NewRotation(phi1), y: vmath.NewRotation(phi2)}
}

// Apply rotates an object-space vector into view space
func (o Orientation) Apply(v vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FRotateY(vmath.V3FRotateX(v, o.x), o.y)
}

// View is a sample after rotation
type View struct {
	Pos    vmath.Vec3F
	Normal vmath.Vec3F
}

// Point is a projected sample on the centered screen grid
type Point struct {
	X, Y     int     // Cell offset from the grid center
	InvDepth float64 // 1 / (K2 - z), always positive
}

// Transform rotates both position and normal of a sample
func (c Camera) Transform(s torus.Sample, o Orientation) View {
	return View{Pos: o.Apply(s.Pos), Normal: o.Apply(s.Normal)}
}

// Project maps a view-space position to a grid offset
// Points on or behind the camera plane are rejected; this is the only clipping
func (c Camera) Project(p vmath.Vec3F) (Point, bool) {
	depth := c.K2 - p.Z
	if !(depth > 0) {
		return Point{}, false
	}
	inv := 1 / depth
	return Point{
		X:        floorInt(p.X * c.AspectX * c.K1 * inv),
		Y:        floorInt(p.Y * c.K1 * inv),
		InvDepth: inv,
	}, true
}

// coordLimit keeps projected offsets far off-grid without overflowing int math downstream
const coordLimit = 1 << 30

func floorInt(v float64) int {
	f := math.Floor(v)
	if f > coordLimit {
		return coordLimit
	}
	if f < -coordLimit {
		return -coordLimit
	}
	return int(f)
}
