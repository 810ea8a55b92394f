package convert

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"

	sprig "github.com/go-task/slim-sprig/v3"

	"osis2html/config"
)

//go:embed templates/index.html.tmpl
var indexTemplate string

//go:embed templates/book.html.tmpl
var bookTemplate string

// BookLink describes book page for linking.
type BookLink struct {
	ShortName string
	LongName  string
	File      string
}

// Site holds values shared by all pages.
type Site struct {
	Title      string
	Lang       string
	LangName   string
	EditionID  string
	Generator  string
	Stylesheet string
	Index      string
	OldTitle   string
	NewTitle   string
	Old        []BookLink
	New        []BookLink
}

// BookPage is a set of values available to book page template.
type BookPage struct {
	*Site
	Book       BookLink
	BookTitle  string
	Body       template.HTML
	Prev, Next *BookLink
	Navigation bool
}

type pages struct {
	index *template.Template
	book  *template.Template
}

// newPages prepares page templates, built-in ones are used unless configuration
// says otherwise.
func newPages(cfg *config.PagesConfig) (*pages, error) {
	var (
		p   pages
		err error
	)
	if p.index, err = loadTemplate("index", cfg.IndexTemplatePath, indexTemplate); err != nil {
		return nil, err
	}
	if p.book, err = loadTemplate("book", cfg.BookTemplatePath, bookTemplate); err != nil {
		return nil, err
	}
	return &p, nil
}

func loadTemplate(name, path, builtin string) (*template.Template, error) {
	text := builtin
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s template from %q: %w", name, path, err)
		}
		text = string(data)
	}
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s template: %w", name, err)
	}
	return tmpl, nil
}

func (p *pages) writeIndex(w io.Writer, site *Site) error {
	return p.index.Execute(w, site)
}

func (p *pages) writeBook(w io.Writer, page *BookPage) error {
	return p.book.Execute(w, page)
}
