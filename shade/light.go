package shade

import (
	"errors"

	"github.com/lixenwraith/donut/vmath"
)

var ErrZeroLight = errors.New("shade: light direction is the zero vector")

// Light is a directional light, stored normalized
type Light struct {
	dir vmath.Vec3F
}

// NewLight normalizes dir once
func NewLight(dir vmath.Vec3F) (Light, error) {
	if vmath.V3FMagSq(dir) == 0 {
		return Light{}, ErrZeroLight
	}
	return Light{dir: vmath.V3FNormalize(dir)}, nil
}

// Direction returns the unit light vector
func (l Light) Direction() vmath.Vec3F {
	return l.dir
}

// Brightness is the cosine between the surface normal and the light, in [-1, 1]
// Negative means the surface faces away; a zero normal yields 0
func (l Light) Brightness(normal vmath.Vec3F) float64 {
	return vmath.V3FDot(vmath.V3FNormalize(normal), l.dir)
}
