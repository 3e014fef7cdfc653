//go:build !unix

package unifiedui

import "golang.org/x/term"

// terminalSize returns the dimensions of the terminal on fd.
func terminalSize(fd int) (int, int, error) {
	return term.GetSize(fd)
}
