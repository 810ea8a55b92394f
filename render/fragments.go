package render

import (
	"html"
	"strings"
)

// Paragraph state is never touched inside line group, stanza markup takes
// care of layout there.

func (t *Transformer) ensureParagraph() string {
	if t.inLineGroup || t.inParagraph {
		return ""
	}
	t.inParagraph = true
	return "<p>"
}

// forceParagraph starts new paragraph regardless of current state. Paragraph
// which is still open is closed first, so pairs stay balanced.
func (t *Transformer) forceParagraph() string {
	if t.inLineGroup {
		return ""
	}
	closing := t.closeParagraph()
	t.inParagraph = true
	return closing + "<p>"
}

func (t *Transformer) closeParagraph() string {
	if t.inLineGroup || !t.inParagraph {
		return ""
	}
	t.inParagraph = false
	return "</p>"
}

// ensureParagraphFor opens paragraph only when there is verse marker to put
// into it, used for elements without visible content of their own.
func (t *Transformer) ensureParagraphFor(verse string, inTitle bool) string {
	if inTitle || len(verse) == 0 {
		return ""
	}
	return t.ensureParagraph()
}

// Quote glyphs alternate by nesting depth: odd levels get double quotes, even
// single.

func (t *Transformer) openQuote(kind string) string {
	t.quoteLevel++
	if kind == quoteBlock {
		return "<blockquote>"
	}
	if t.quoteLevel%2 == 1 {
		return "&ldquo;"
	}
	return "&lsquo;"
}

func (t *Transformer) closeQuote(kind string) string {
	if t.quoteLevel > 0 {
		t.quoteLevel--
	}
	if kind == quoteBlock {
		return "</blockquote>"
	}
	if t.quoteLevel%2 == 0 {
		return "&rdquo;"
	}
	return "&rsquo;"
}

// verseMarker formats anchored verse number, "Gen.1.1" becomes "1".
func verseMarker(id string) string {
	num := id
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		num = id[i+1:]
	}
	return `<a name="` + html.EscapeString(id) + `"><sup class="verseNum">` + html.EscapeString(num) + `</sup></a>`
}

// footnoteLetter returns next footnote letter, letters wrap after "z".
func (t *Transformer) footnoteLetter() string {
	letter := string(rune('a' + t.footnote))
	t.footnote = (t.footnote + 1) % 26
	return letter
}
