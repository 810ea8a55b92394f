// Package render turns OSIS element trees into HTML fragments.
package render

import (
	"html"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Transformer keeps state carried between nodes during single depth first
// walk. It is not safe for concurrent use, create new one for every document
// or book.
type Transformer struct {
	footnote    int
	pending     string
	inParagraph bool
	inLineGroup bool
	lastNode    string
	quoteLevel  int

	passthrough map[string]int
}

// New returns transformer in initial state.
func New() *Transformer {
	return &Transformer{passthrough: make(map[string]int)}
}

// RenderDocument renders subtree and closes paragraph which may be left open
// at the end.
func (t *Transformer) RenderDocument(root *etree.Element) string {
	return t.render(root, false) + t.closeParagraph()
}

// Passthrough reports names of elements which were rendered by default rule
// with number of occurrences.
func (t *Transformer) Passthrough() map[string]int {
	return t.passthrough
}

func (t *Transformer) render(tok etree.Token, inTitle bool) string {
	// marker is consumed by whatever comes next
	verse := t.pending
	t.pending = ""

	switch n := tok.(type) {
	case *etree.CharData:
		t.lastNode = "#text"
		return t.renderText(n.Data, verse, inTitle)
	case *etree.Element:
		last := t.lastNode
		t.lastNode = n.Tag
		return t.renderElement(n, verse, last, inTitle)
	default:
		// comments, directives and processing instructions have no content
		t.lastNode = "#other"
		return t.ensureParagraphFor(verse, inTitle) + verse
	}
}

func (t *Transformer) children(el *etree.Element, inTitle bool) string {
	var b strings.Builder
	for _, child := range el.Child {
		b.WriteString(t.render(child, inTitle))
	}
	return b.String()
}

func (t *Transformer) renderText(data, verse string, inTitle bool) string {
	var p string
	if !inTitle && (len(verse) > 0 || len(strings.TrimSpace(data)) > 0) {
		p = t.ensureParagraph()
	}
	return p + verse + html.EscapeString(data)
}

func (t *Transformer) renderElement(el *etree.Element, verse, last string, inTitle bool) string {
	switch Classify(el) {
	case KindTitle:
		return t.renderTitle(el, verse, inTitle)
	case KindVerse:
		return t.renderVerse(el, inTitle)
	case KindMilestone:
		return t.renderMilestone(el, verse, inTitle)
	case KindHi:
		return t.wrap(el, verse, inTitle, "<strong>", "</strong>")
	case KindTransChange:
		return t.wrap(el, verse, inTitle, "<em>", "</em>")
	case KindDivineName:
		return t.wrap(el, verse, inTitle, `<span class="divineName">`, "</span>")
	case KindQuote:
		return t.renderQuote(el, verse, inTitle)
	case KindNote:
		return t.renderNote(el, verse, last, inTitle)
	case KindWord:
		return t.renderWord(el, verse, inTitle)
	case KindLineGroup:
		return t.renderLineGroup(el, verse)
	case KindLine:
		return t.renderLine(el, verse)
	case KindLineBreak:
		return verse + `</div><div class="` + lineSecondary + `">`
	default:
		t.passthrough[el.Tag]++
		return t.ensureParagraphFor(verse, inTitle) + verse + t.children(el, inTitle)
	}
}

func headingLevel(el *etree.Element) int {
	switch el.SelectAttrValue(attrType, "") {
	case titleMain:
		return 1
	case titleChapter:
		return 2
	case titlePsalm:
		return 3
	}
	return 4
}

func (t *Transformer) renderTitle(el *etree.Element, verse string, inTitle bool) string {
	var b strings.Builder
	if !inTitle {
		b.WriteString(t.closeParagraph())
	}
	tag := "h" + strconv.Itoa(headingLevel(el))
	b.WriteString("<" + tag + ">")
	b.WriteString(t.children(el, true))
	b.WriteString("</" + tag + ">")
	if !inTitle && len(verse) > 0 {
		b.WriteString(t.forceParagraph())
	}
	b.WriteString(verse)
	return b.String()
}

// renderVerse never emits markers itself. Marker still pending at this point
// belongs to verse without content and is dropped.
func (t *Transformer) renderVerse(el *etree.Element, inTitle bool) string {
	switch {
	case hasAttr(el, attrStartID):
		t.pending = verseMarker(el.SelectAttrValue(attrStartID, ""))
	case hasAttr(el, attrEndID):
	default:
		// container form: <verse osisID="Gen.1.1">...</verse>
		if ids := strings.Fields(el.SelectAttrValue(attrOsisID, "")); len(ids) > 0 {
			t.pending = verseMarker(ids[0])
		}
		return t.children(el, inTitle)
	}
	return ""
}

func (t *Transformer) renderMilestone(el *etree.Element, verse string, inTitle bool) string {
	switch el.SelectAttrValue(attrType, "") {
	case milestoneParagraph, milestoneExtraParagraph:
		var out string
		if !inTitle {
			out = t.closeParagraph()
			if len(verse) > 0 {
				out += t.forceParagraph()
			}
		}
		return out + verse
	}
	return t.ensureParagraphFor(verse, inTitle) + verse
}

func (t *Transformer) wrap(el *etree.Element, verse string, inTitle bool, open, close string) string {
	var p string
	if !inTitle {
		p = t.ensureParagraph()
	}
	return p + verse + open + t.children(el, inTitle) + close
}

func (t *Transformer) renderQuote(el *etree.Element, verse string, inTitle bool) string {
	out := t.ensureParagraphFor(verse, inTitle) + verse
	switch {
	case hasAttr(el, attrStartID):
		return out + t.openQuote("")
	case hasAttr(el, attrEndID):
		return out + t.closeQuote("")
	}
	kind := el.SelectAttrValue(attrType, "")
	open := t.openQuote(kind)
	body := t.children(el, inTitle)
	return out + open + body + t.closeQuote(kind)
}

func (t *Transformer) renderNote(el *etree.Element, verse, last string, inTitle bool) string {
	if el.SelectAttrValue(attrType, "") == noteStrongsMarkup {
		return ""
	}
	var p string
	if !inTitle {
		p = t.ensureParagraph()
	}
	var sep string
	if last == string(KindNote) {
		sep = " "
	}
	return p + verse + sep + `<sup title="` + html.EscapeString(ExtractText(el)) + `">` + t.footnoteLetter() + "</sup>"
}

func (t *Transformer) renderWord(el *etree.Element, verse string, inTitle bool) string {
	out := t.ensureParagraphFor(verse, inTitle) + verse
	morph := el.SelectAttrValue(attrMorph, "")
	for _, number := range []string{morphSingular, morphPlural} {
		if strings.Contains(morph, number) {
			return out + `<span title="` + number + `">` + t.children(el, inTitle) + "</span>"
		}
	}
	return out + t.children(el, inTitle)
}

func (t *Transformer) renderLineGroup(el *etree.Element, verse string) string {
	prev := t.inLineGroup
	t.inLineGroup = true
	defer func() { t.inLineGroup = prev }()

	return verse + `<div class="stanza">` + t.children(el, false) + "</div>"
}

func (t *Transformer) renderLine(el *etree.Element, verse string) string {
	class := lineFirst
	switch kind := el.SelectAttrValue(attrType, ""); kind {
	case lineSelah, lineDoxology:
		class = kind
	}
	return verse + `<div class="` + class + `">` + t.children(el, false) + "</div>"
}
