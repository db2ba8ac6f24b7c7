package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Fits reports whether a width x height grid plus the status rows fits the terminal on fd
// Unknown sizes never fit
func Fits(fd, width, height, statusRows int) bool {
	cols, rows, err := Size(fd)
	if err != nil {
		return false
	}
	return cols >= width && rows >= height+statusRows
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery when the presenter could not close normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
