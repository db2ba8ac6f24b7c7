package visual

// Shading palette endpoints, darkest level to brightest level
// Truecolor terminals blend between them in Lab space
const (
	PaletteDark   = "#1b1f3a"
	PaletteBright = "#ffe9a8"
)

// Grayscale ramp of the xterm 256-color palette (232 = near black, 255 = near white)
const (
	GrayRampStart = 232
	GrayRampLen   = 24
)

// StatusForeground is the hex color of the frame time line in screen mode
const StatusForeground = "#8a8fa3"
