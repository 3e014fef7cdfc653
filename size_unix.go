//go:build unix

package unifiedui

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// terminalSize returns the dimensions of the terminal on fd.
func terminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return term.GetSize(fd)
	}
	return int(ws.Col), int(ws.Row), nil
}
