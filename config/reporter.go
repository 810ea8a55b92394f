package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/maruel/natural"

	"osis2html/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to a temporary file.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{items: make(map[string]item), file: f}, nil
}

// item is either a path (file or directory) read at close time or data
// captured when stored.
type item struct {
	given string
	path  string
	data  []byte
	added time.Time
}

// Report collects debug material and writes it as a single zip archive on
// Close. Nil *Report is valid and ignores everything, so callers do not need
// to check whether reporting was requested. Not safe for concurrent use.
type Report struct {
	items map[string]item
	file  *os.File
}

// Close writes the archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	zw := zip.NewWriter(r.file)
	if err := r.write(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	name := r.file.Name()
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return name
}

// Store remembers file or directory under name. Content is read on Close, so
// archive gets final state. Storing different path under the same name is a
// programming error.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, ok := r.items[name]; ok && old.given != path {
		panic(fmt.Sprintf("report entry [%s] already holds %q, attempt to store %q", name, old.given, path))
	}
	it := item{given: path, path: path}
	if abs, err := filepath.Abs(path); err == nil {
		it.path = abs
	}
	r.items[name] = it
}

// StoreData keeps copy of data under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, ok := r.items[name]; ok {
		panic(fmt.Sprintf("report entry [%s] already exists", name))
	}
	r.items[name] = item{data: slices.Clone(data), added: time.Now()}
}

func (r *Report) write(zw *zip.Writer) error {
	names, list := manifest(r.items, time.Now())
	if err := addData(zw, "MANIFEST", time.Now(), list); err != nil {
		return err
	}

	for _, name := range names {
		it := r.items[name]
		if it.data != nil {
			if err := addData(zw, name, it.added, it.data); err != nil {
				return err
			}
			continue
		}
		info, err := os.Stat(it.path)
		if err != nil {
			// gone or never created
			continue
		}
		if info.IsDir() {
			err = addTree(zw, name, it.path)
		} else if info.Mode().IsRegular() {
			err = addFile(zw, name, it.path, info.ModTime())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// manifest orders entry names naturally ("book-2" before "book-10") and lists
// them one per line.
func manifest(items map[string]item, now time.Time) ([]string, []byte) {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	var buf bytes.Buffer
	for _, name := range names {
		it := items[name]
		stamp := it.added
		if stamp.IsZero() {
			stamp = now
		}
		source := "(data)"
		if it.data == nil {
			source = it.given + " : " + it.path
		}
		fmt.Fprintf(&buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), name, source)
	}
	return names, buf.Bytes()
}

func addData(zw *zip.Writer, name string, modified time.Time, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func addFile(zw *zip.Writer, name, path string, modified time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// addTree stores regular files under dir, links and special files are
// skipped.
func addTree(zw *zip.Writer, name, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addFile(zw, filepath.ToSlash(filepath.Join(name, rel)), path, info.ModTime())
	})
}
