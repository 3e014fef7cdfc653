package unifiedui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// PlatformEnv names the environment variable that forces a platform.
const PlatformEnv = "UNIFIED_UI_PLATFORM"

// DetectPlatform picks a default platform when the caller names none: an
// explicit PlatformEnv wins, then a terminal on stdout, then a graphical
// display, then the web.
func DetectPlatform(getenv func(string) string, stdoutIsTerminal bool) Platform {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(PlatformEnv); v != "" {
		if p, err := ParsePlatform(v); err == nil {
			return p
		}
	}
	if stdoutIsTerminal {
		return Terminal
	}
	if getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != "" {
		return Desktop
	}
	return Web
}

// DetectPlatformFromEnv runs DetectPlatform against the process environment.
func DetectPlatformFromEnv() Platform {
	return DetectPlatform(os.Getenv, StdoutIsTerminal())
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
