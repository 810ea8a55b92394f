// Package osis loads OSIS documents and locates parts of interest in them.
package osis

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"osis2html/bible"
)

// ErrNoTitle is returned when document or book has no usable title.
var ErrNoTitle = errors.New("no title found")

// Document is parsed OSIS source.
type Document struct {
	doc *etree.Document
	log *zap.Logger
}

// Load reads and parses OSIS XML. Non UTF-8 input is converted according to
// XML declaration.
func Load(r io.Reader, log *zap.Logger) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read OSIS: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	if root.Tag != "osis" {
		log.Warn("Unexpected root element, continuing anyway", zap.String("tag", root.Tag))
	}
	return &Document{doc: doc, log: log}, nil
}

// Root returns document element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Title returns text of the first title element in document order.
func (d *Document) Title() (string, error) {
	return firstTitle(d.doc.Root())
}

// WorkID returns work identifier declared by osisText element.
func (d *Document) WorkID() string {
	if text := findFirst(d.doc.Root(), isTag("osisText")); text != nil {
		return text.SelectAttrValue("osisIDWork", "")
	}
	return ""
}

// Lang returns declared document language or language.Und.
func (d *Document) Lang() language.Tag {
	text := findFirst(d.doc.Root(), isTag("osisText"))
	if text == nil {
		return language.Und
	}
	lang := strings.TrimSpace(text.SelectAttrValue("xml:lang", ""))
	if len(lang) == 0 {
		return language.Und
	}
	if tag, err := language.Parse(lang); err == nil {
		return tag
	}
	// some documents spell language name out
	for _, supported := range display.Supported.Tags() {
		if strings.EqualFold(display.Self.Name(supported), lang) || strings.EqualFold(display.English.Tags().Name(supported), lang) {
			return supported
		}
	}
	d.log.Warn("Unable to parse document language, ignoring", zap.String("lang", lang))
	return language.Und
}

// Books returns book containers keyed by OSIS book identifier. Containers for
// books not in the catalog are skipped, for duplicate identifiers the first
// one wins.
func (d *Document) Books() map[string]*etree.Element {
	books := make(map[string]*etree.Element)
	walk(d.doc.Root(), func(el *etree.Element) bool {
		if el.Tag != "div" || el.SelectAttrValue("type", "") != "book" {
			return true
		}
		id := el.SelectAttrValue("osisID", "")
		switch _, known := bible.Lookup(id); {
		case !known:
			d.log.Warn("Book is not in the catalog, ignoring", zap.String("id", id))
		case books[id] != nil:
			d.log.Warn("Duplicate book, ignoring", zap.String("id", id))
		default:
			books[id] = el
		}
		// books do not nest
		return false
	})
	return books
}

// BookTitle returns text of the first title inside book container.
func BookTitle(book *etree.Element) (string, error) {
	title, err := firstTitle(book)
	if err != nil {
		return "", fmt.Errorf("book %q: %w", book.SelectAttrValue("osisID", ""), err)
	}
	return title, nil
}

// firstTitle requires first child of the found title to be text.
func firstTitle(el *etree.Element) (string, error) {
	title := findFirst(el, isTag("title"))
	if title == nil || len(title.Child) == 0 {
		return "", ErrNoTitle
	}
	cd, ok := title.Child[0].(*etree.CharData)
	if !ok || len(strings.TrimSpace(cd.Data)) == 0 {
		return "", ErrNoTitle
	}
	return strings.TrimSpace(cd.Data), nil
}

func isTag(tag string) func(*etree.Element) bool {
	return func(el *etree.Element) bool { return el.Tag == tag }
}

// findFirst returns first element (including el itself) satisfying match in
// document order.
func findFirst(el *etree.Element, match func(*etree.Element) bool) (found *etree.Element) {
	walk(el, func(e *etree.Element) bool {
		if found != nil {
			return false
		}
		if match(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// walk visits elements depth first, children are skipped when fn returns
// false.
func walk(el *etree.Element, fn func(*etree.Element) bool) {
	if el == nil || !fn(el) {
		return
	}
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}
