package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractiveTerminal reports whether stdout is a real terminal outside CI.
func IsInteractiveTerminal() bool {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return false
	}
	if os.Getenv("TERM") == "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// NoColorRequested reports whether the environment asks for plain output.
func NoColorRequested() bool {
	return os.Getenv("NO_COLOR") != ""
}
