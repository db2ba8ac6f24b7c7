package parameter

// Character grid
// GridWidth*GridHeight must be odd so the flat buffer has a center cell
const (
	GridWidth  = 111
	GridHeight = 35

	// BlankGlyph fills cells no sample reached this frame
	BlankGlyph = ' '
)

// Output
const (
	// StatusRows is the number of rows reserved below the grid in screen mode
	StatusRows = 1

	// LogMaxSize triggers rotation of the debug log on startup
	LogMaxSize = 10 * 1024 * 1024
)
