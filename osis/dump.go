package osis

import (
	"strings"

	"github.com/beevik/etree"

	"osis2html/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// Dump returns readable outline of the subtree for debug report. Whitespace
// only text is omitted.
func Dump(el *etree.Element) string {
	tw := treeWriter{debug.NewTreeWriter()}
	tw.element(0, el)
	return tw.String()
}

func (tw treeWriter) element(depth int, el *etree.Element) {
	var b strings.Builder
	b.WriteString(el.FullTag())
	for _, a := range el.Attr {
		b.WriteString(" " + a.FullKey() + "=\"" + a.Value + "\"")
	}
	tw.Line(depth, "%s", b.String())

	for _, tok := range el.Child {
		switch n := tok.(type) {
		case *etree.Element:
			tw.element(depth+1, n)
		case *etree.CharData:
			if len(strings.TrimSpace(n.Data)) > 0 {
				tw.TextBlock(depth+1, "text", n.Data)
			}
		case *etree.Comment:
			tw.TextBlock(depth+1, "comment", n.Data)
		}
	}
}
