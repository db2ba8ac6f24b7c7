package terminal

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnknownColorMode is returned by ParseColorMode for unrecognized names
var ErrUnknownColorMode = errors.New("terminal: unknown color mode")

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorModeMono      ColorMode = iota // No color sequences
	ColorMode256                        // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeMono:
		return "mono"
	case ColorMode256:
		return "256"
	case ColorModeTrueColor:
		return "truecolor"
	}
	return fmt.Sprintf("ColorMode(%d)", uint8(m))
}

// ParseColorMode maps a flag value to a mode
// "auto" defers to DetectColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return DetectColorMode(), nil
	case "mono", "none", "off":
		return ColorModeMono, nil
	case "256":
		return ColorMode256, nil
	case "truecolor", "24bit", "tc":
		return ColorModeTrueColor, nil
	}
	return ColorModeMono, fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return ColorModeMono
	}

	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("ALACRITTY_LOG") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if term == "" || term == "dumb" {
		return ColorModeMono
	}
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}
