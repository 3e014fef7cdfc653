package unifiedui

import (
	"os"

	"golang.org/x/term"
)

// Size represents dimensions in cells.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when no terminal is attached.
var DefaultSize = Size{Width: 80, Height: 24}

// TerminalSize returns the size of the terminal on stdout, falling back to
// DefaultSize when stdout is not a terminal.
func TerminalSize() Size {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return DefaultSize
	}
	w, h, err := terminalSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return DefaultSize
	}
	return Size{Width: w, Height: h}
}
