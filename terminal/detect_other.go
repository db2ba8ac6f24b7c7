//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

import "golang.org/x/term"

// Size returns the column and row count of the terminal on fd
func Size(fd int) (int, int, error) {
	return term.GetSize(fd)
}

// resetTerminalMode has no termios to restore on this platform
func resetTerminalMode() {}
