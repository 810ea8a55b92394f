// Package css inspects user supplied stylesheets.
package css

import (
	"bytes"
	"regexp"
	"slices"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// stop collecting after that many problems, stylesheet is hopeless anyway
const maxErrors = 32

var classPattern = regexp.MustCompile(`\.(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)

// Stylesheet is a summary of parsed CSS.
type Stylesheet struct {
	// Selectors in order of appearance, grouped selectors are split.
	Selectors []string
	// Imports lists @import targets, they are not copied to the output.
	Imports []string
	Errors  []error

	classes map[string]bool
}

// Parse collects selectors and imports. Syntax errors do not stop parsing.
func Parse(data []byte, log *zap.Logger) *Stylesheet {
	sheet := &Stylesheet{classes: make(map[string]bool)}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				// EOF or read error
				return sheet
			}
			log.Debug("CSS parse error", zap.Error(parser.Err()))
			sheet.Errors = append(sheet.Errors, parser.Err())
			if len(sheet.Errors) >= maxErrors {
				return sheet
			}
		case css.AtRuleGrammar:
			if string(data) == "@import" {
				if url := importURL(parser.Values()); url != "" {
					sheet.Imports = append(sheet.Imports, url)
				}
			}
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			sheet.addSelectors(data, parser.Values())
		}
	}
}

func (s *Stylesheet) addSelectors(data []byte, values []css.Token) {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	for sel := range strings.SplitSeq(sb.String(), ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		s.Selectors = append(s.Selectors, sel)
		for _, m := range classPattern.FindAllStringSubmatch(sel, -1) {
			s.classes[m[1]] = true
		}
	}
}

// HasClass reports whether any selector refers to the class.
func (s *Stylesheet) HasClass(name string) bool {
	return s.classes[name]
}

// MissingClasses returns requested classes no selector refers to, sorted.
func (s *Stylesheet) MissingClasses(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !s.classes[n] {
			missing = append(missing, n)
		}
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}

// importURL handles @import "url"; @import url("url"); @import url(url);
func importURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
