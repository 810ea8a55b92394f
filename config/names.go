package config

import "strings"

// CleanFileName drops characters the current OS does not allow in file names.
// Leading dots are removed too, so result is never hidden or relative.
func CleanFileName(in string) string {
	out := strings.Map(func(r rune) rune {
		if forbiddenInName(r) {
			return -1
		}
		return r
	}, in)
	out = trimNameEnd(strings.TrimLeft(out, "."))
	if out == "" {
		return "_bad_file_name_"
	}
	return out
}
