package render

import (
	"strings"

	"github.com/beevik/etree"
)

// ExtractText returns concatenated text of the subtree in document order,
// markup is dropped.
func ExtractText(tok etree.Token) string {
	switch n := tok.(type) {
	case *etree.CharData:
		return n.Data
	case *etree.Element:
		var b strings.Builder
		for _, child := range n.Child {
			b.WriteString(ExtractText(child))
		}
		return b.String()
	default:
		return ""
	}
}
