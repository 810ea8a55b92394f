//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

func forbiddenInName(r rune) bool {
	return r == 0 || r == os.PathSeparator || r == os.PathListSeparator
}

func trimNameEnd(name string) string {
	return name
}

// EnableColorOutput reports whether stream is a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
