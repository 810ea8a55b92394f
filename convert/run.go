// Package convert assembles HTML pages from OSIS document.
package convert

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"osis2html/bible"
	"osis2html/misc"
	"osis2html/osis"
	"osis2html/render"
	"osis2html/state"
)

// ErrBookMissing is returned when catalog book is absent from the document.
var ErrBookMissing = errors.New("book is missing from the document")

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	if cmd.Args().Len() != 2 {
		// not an error, just tell how to use it
		return cli.ShowCommandHelp(ctx, cmd.Root(), cmd.Name)
	}

	src, err := filepath.Abs(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	dst, err := filepath.Abs(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		if err == nil {
			log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	return process(ctx, src, dst, bible.Catalog(), log)
}

// bookSource is book container paired with catalog entry and output name.
type bookSource struct {
	bible.Book
	el    *etree.Element
	title string
	file  string
}

// process converts document at src into pages in dst directory. Every
// requested book must be present in the document, nothing is written
// otherwise.
func process(ctx context.Context, src, dst string, books []bible.Book, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document

	data, name, err := readSource(ctx, src, log)
	if err != nil {
		return err
	}
	doc, err := osis.Load(bytes.NewReader(data), log.Named("osis"))
	if err != nil {
		return fmt.Errorf("unable to parse OSIS source (%s): %w", name, err)
	}
	title, err := doc.Title()
	if err != nil {
		return fmt.Errorf("unable to get document title (%s): %w", name, err)
	}

	reserved := map[string]string{
		cfg.Pages.IndexName:      "index page",
		cfg.Pages.StylesheetName: "stylesheet",
	}
	sources, err := collectBooks(doc, books, reserved, func(b bible.Book, i int) string {
		return buildPageName(b, i, cfg, log)
	})
	if err != nil {
		return err
	}

	tmpl, err := newPages(&cfg.Pages)
	if err != nil {
		return err
	}
	style, err := loadStylesheet(&cfg.Pages, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	site := buildSite(doc, title, sources)
	site.Index, site.Stylesheet = cfg.Pages.IndexName, cfg.Pages.StylesheetName
	site.OldTitle, site.NewTitle = cfg.Pages.Testaments.OldTitle, cfg.Pages.Testaments.NewTitle

	write := func(name string, fn func(w io.Writer) error) error {
		out := filepath.Join(dst, name)
		if err := writeFile(out, env.Overwrite, log, fn); err != nil {
			return err
		}
		env.Rpt.Store(filepath.ToSlash(filepath.Join("pages", name)), out)
		return nil
	}

	if err := write(site.Stylesheet, func(w io.Writer) error {
		_, err := w.Write(style)
		return err
	}); err != nil {
		return err
	}
	if err := write(site.Index, func(w io.Writer) error {
		return tmpl.writeIndex(w, site)
	}); err != nil {
		return fmt.Errorf("unable to write index page: %w", err)
	}
	log.Debug("Index page written", zap.String("title", title), zap.String("lang", site.Lang), zap.String("edition", site.EditionID))

	for i := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		b := &sources[i]
		page := &BookPage{
			Site:       site,
			Book:       BookLink{ShortName: b.ShortName, LongName: b.LongName, File: b.file},
			BookTitle:  b.title,
			Navigation: cfg.Pages.Navigation,
		}
		if i > 0 {
			page.Prev = &BookLink{ShortName: sources[i-1].ShortName, LongName: sources[i-1].LongName, File: sources[i-1].file}
		}
		if i < len(sources)-1 {
			page.Next = &BookLink{ShortName: sources[i+1].ShortName, LongName: sources[i+1].LongName, File: sources[i+1].file}
		}

		tr := render.New()
		page.Body = template.HTML(tr.RenderDocument(b.el))
		if env.Rpt != nil {
			env.Rpt.StoreData(fmt.Sprintf("osis/%02d-%s.txt", i+1, b.ShortName), []byte(osis.Dump(b.el)))
		}
		if pt := tr.Passthrough(); len(pt) > 0 {
			log.Debug("Elements rendered without special handling", zap.String("book", b.ShortName), zap.Any("elements", pt))
		}

		if err := write(b.file, func(w io.Writer) error {
			return tmpl.writeBook(w, page)
		}); err != nil {
			return fmt.Errorf("unable to write page for %s: %w", b.LongName, err)
		}
		log.Debug("Book page written", zap.String("book", b.ShortName), zap.String("file", b.file))
	}
	return nil
}

// collectBooks pairs requested books with their containers and titles and
// makes sure page names do not clash with each other or with already used
// names.
func collectBooks(doc *osis.Document, books []bible.Book, used map[string]string, pageName func(bible.Book, int) string) ([]bookSource, error) {
	found := doc.Books()

	sources := make([]bookSource, 0, len(books))
	for i, b := range books {
		el, ok := found[b.ShortName]
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s)", ErrBookMissing, b.LongName, b.ShortName)
		}
		title, err := osis.BookTitle(el)
		if err != nil {
			return nil, err
		}
		file := pageName(b, i)
		if other, exists := used[file]; exists {
			return nil, fmt.Errorf("page name %q for %s is already used by %s", file, b.LongName, other)
		}
		used[file] = b.LongName
		sources = append(sources, bookSource{Book: b, el: el, title: title, file: file})
	}
	return sources, nil
}

func buildSite(doc *osis.Document, title string, sources []bookSource) *Site {
	site := &Site{
		Title:     title,
		Generator: misc.GetAppName() + " " + misc.GetVersion() + " (" + runtime.Version() + ")",
	}
	if lang := doc.Lang(); lang != language.Und {
		site.Lang = lang.String()
		site.LangName = display.Self.Name(lang)
	}

	// same work always gets the same edition id, so reruns are reproducible
	work := doc.WorkID()
	if work == "" {
		work = title
	}
	site.EditionID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("osis:"+work)).String()

	books := make([]bible.Book, 0, len(sources))
	files := make(map[string]string, len(sources))
	for _, b := range sources {
		books = append(books, b.Book)
		files[b.ShortName] = b.file
	}
	site.Old = bookLinks(bible.ByTestament(books, bible.TestamentOT), files)
	site.New = bookLinks(bible.ByTestament(books, bible.TestamentNT), files)
	return site
}

func bookLinks(books []bible.Book, files map[string]string) []BookLink {
	links := make([]BookLink, 0, len(books))
	for _, b := range books {
		links = append(links, BookLink{ShortName: b.ShortName, LongName: b.LongName, File: files[b.ShortName]})
	}
	return links
}

// writeFile creates output file and fills it. Existing files are replaced only
// when overwrite is allowed.
func writeFile(name string, overwrite bool, log *zap.Logger, fill func(w io.Writer) error) (err error) {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	return w.Flush()
}
