package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"osis2html/archive"
)

var (
	// ErrNoDocument is returned when archive has no OSIS document.
	ErrNoDocument = errors.New("no OSIS document found")
	// ErrAmbiguousSource is returned when archive has several OSIS documents
	// and path inside archive does not select one.
	ErrAmbiguousSource = errors.New("several OSIS documents found")
)

// amount of data to look at when detecting file type
const headerSize = 4096

var osisType = filetype.NewType("osis", "application/xml")

func init() {
	filetype.AddMatcher(osisType, isOSIS)
}

// isOSIS looks for OSIS root element close to the beginning of XML data.
func isOSIS(buf []byte) bool {
	buf = bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf"))
	return bytes.HasPrefix(bytes.TrimLeft(buf, " \t\r\n"), []byte("<")) && bytes.Contains(buf, []byte("<osis"))
}

func readHeader(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return header[:n], nil
}

// isArchiveFile detects zip archives by content.
func isArchiveFile(fname string) (bool, error) {
	file, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer file.Close()

	header, err := readHeader(file)
	if err != nil {
		return false, err
	}
	return filetype.Is(header, "zip"), nil
}

func isDocumentName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".xml", ".osis":
		return true
	}
	return false
}

// readSource returns content of the OSIS document and its name. Source is
// either path to a file or path to zip archive optionally followed by path
// inside archive: "bibles.zip/kjv/kjv.osis.xml".
func readSource(ctx context.Context, src string, log *zap.Logger) ([]byte, string, error) {
	var head string
	for head = src; len(head) != 0; head, _ = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}
		if !fi.Mode().IsRegular() {
			return nil, "", fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			return nil, "", fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			inner := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			return readArchive(head, filepath.ToSlash(inner), log)
		}

		if head != src {
			// plain file cannot have tail
			return nil, "", fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		data, err := os.ReadFile(head)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read input: %w", err)
		}
		if !filetype.Is(data[:min(len(data), headerSize)], osisType.Extension) {
			log.Warn("Input does not look like OSIS document, trying anyway", zap.String("file", head))
		}
		return data, filepath.Base(head), nil
	}
	return nil, "", fmt.Errorf("input source was not found (%s)", src)
}

// readArchive finds single OSIS document under prefix in archive.
func readArchive(arc, prefix string, log *zap.Logger) ([]byte, string, error) {
	var candidates []string
	err := archive.Walk(arc, prefix, func(f *zip.File) error {
		if !isDocumentName(f.Name) {
			log.Debug("Skipping file in archive", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		header, err := archive.ReadFile(f, headerSize)
		if err != nil {
			return fmt.Errorf("unable to read %q: %w", f.Name, err)
		}
		if !filetype.Is(header, osisType.Extension) {
			log.Debug("Skipping file in archive, not recognized as OSIS", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		candidates = append(candidates, f.Name)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("unable to process archive: %w", err)
	}

	switch len(candidates) {
	case 0:
		return nil, "", fmt.Errorf("%w in %s", ErrNoDocument, arc)
	case 1:
	default:
		return nil, "", fmt.Errorf("%w in %s: %s", ErrAmbiguousSource, arc, strings.Join(candidates, ", "))
	}

	name := candidates[0]
	var data []byte
	err = archive.Walk(arc, name, func(f *zip.File) (err error) {
		if f.Name == name {
			data, err = archive.ReadFile(f, 0)
		}
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("unable to read %q from archive: %w", name, err)
	}
	log.Debug("Using OSIS document from archive", zap.String("archive", arc), zap.String("file", name))
	return data, path.Base(name), nil
}
