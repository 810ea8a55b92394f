// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrUnsafePath is returned when archive contains entry which could escape
// extraction directory.
var ErrUnsafePath = errors.New("unsafe path in archive (absolute or contains path traversal)")

// WalkFunc is called for every regular file in archive satisfying prefix
// condition. If an error is returned processing stops.
type WalkFunc func(file *zip.File) error

// Walk walks all regular files in the archive whose names start with prefix,
// calling walkFn for each. Backslashes in prefix are treated as separators.
func Walk(archive, prefix string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	prefix = strings.ReplaceAll(prefix, `\`, "/")
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: %w", name, ErrUnsafePath)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(f); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns content of archive entry, no more than limit bytes are
// read when limit is positive.
func ReadFile(f *zip.File, limit int64) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if limit > 0 {
		return io.ReadAll(io.LimitReader(r, limit))
	}
	return io.ReadAll(r)
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
