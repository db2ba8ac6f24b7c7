// Package terminal presents rendered frames on a terminal.
//
// Two presenters are provided:
//   - StreamPresenter writes each frame as plain text rows preceded by an ANSI
//     clear or cursor-home sequence, optionally colored by shading level
//   - ScreenPresenter draws the frame centered on a full-screen tcell screen
//     with a status line, and reports Esc, q and Ctrl-C as a stop request
//
// Color capability is detected from the environment; the Palette maps shading
// levels to 24-bit colors, the xterm grayscale ramp, or nothing.
package terminal
