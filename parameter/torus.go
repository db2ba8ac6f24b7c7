package parameter

// Torus geometry
const (
	// TorusMinorRadius is the tube radius (R1)
	TorusMinorRadius = 2.0

	// TorusMajorRadius is the ring radius (R2), must exceed TorusMinorRadius
	TorusMajorRadius = 3.0
)

// Camera projection
const (
	// CameraZoom is K1, screen cells per world unit at unit inverse depth
	CameraZoom = 120.0

	// CameraDistance is K2, distance from the camera plane to the torus center
	CameraDistance = 40.0

	// CameraAspectX scales the horizontal zoom to compensate for cells being taller than wide
	CameraAspectX = 2.1
)

// Rotation speeds in radians per second of simulated time
// Frames advance by TimeDelta regardless of wall time
const (
	// RotationSpeedX spins the torus about the X axis (phi1)
	RotationSpeedX = 0.0

	// RotationSpeedY spins the torus about the Y axis (phi2)
	RotationSpeedY = 2.0
)

// TimeDelta is the simulated time per frame in seconds (20ms, 50 fps nominal)
const TimeDelta = 0.020

// AngularStep is the surface sampling step for both theta1 and theta2 in radians
const AngularStep = 0.01

// LightDirection points from the surface toward the light, normalized at startup
var LightDirection = [3]float64{0.0, 10.0, 10.0}
