package vmath

import "math"

// Rotation is a single-axis rotation with sin/cos precomputed once per frame
type Rotation struct {
	Sin, Cos float64
}

// NewRotation precomputes the rotation for angle in radians
func NewRotation(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{Sin: s, Cos: c}
}

// V3FRotateX rotates v about the X axis (Y toward Z for positive angles)
func V3FRotateX(v Vec3F, r Rotation) Vec3F {
	return Vec3F{
		X: v.X,
		Y: v.Y*r.Cos - v.Z*r.Sin,
		Z: v.Y*r.Sin + v.Z*r.Cos,
	}
}

// V3FRotateY rotates v about the Y axis (Z toward X for positive angles)
func V3FRotateY(v Vec3F, r Rotation) Vec3F {
	return Vec3F{
		X: v.X*r.Cos + v.Z*r.Sin,
		Y: v.Y,
		Z: -v.X*r.Sin + v.Z*r.Cos,
	}
}
