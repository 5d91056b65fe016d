// Package tty reports whether the standard streams are attached to a terminal.
package tty

import (
	"os"

	"golang.org/x/term"
)

// IsStdoutTerminal reports whether stdout is an interactive terminal.
func IsStdoutTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTerminal reports whether stderr is an interactive terminal.
func IsStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
