// Package terminal answers questions about the process' standard streams.
package terminal

import (
	"golang.org/x/term"
)

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
// Anything else, such as a buffer or a pipe, is not.
func IsTerminal(w interface{}) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
