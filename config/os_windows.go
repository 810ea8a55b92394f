//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

func forbiddenInName(r rune) bool {
	return r < 0x20 || strings.ContainsRune(`<>":/\|?*;`, r)
}

// Windows silently strips trailing dots and spaces.
func trimNameEnd(name string) string {
	return strings.TrimRight(name, ". ")
}

// EnableColorOutput turns on VT100 processing for console stream. Consoles
// before Windows 10 do not understand escape sequences.
func EnableColorOutput(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) || windowsMajor() < 10 {
		return false
	}
	var mode uint32
	h := windows.Handle(stream.Fd())
	if windows.GetConsoleMode(h, &mode) != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}

func windowsMajor() uint64 {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return 0
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	if err != nil {
		return 0
	}
	return v
}
