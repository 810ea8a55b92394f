package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"osis2html/bible"
	"osis2html/config"
	"osis2html/osis"
	"osis2html/state"
)

const sampleOSIS = `<?xml version="1.0" encoding="UTF-8"?>
<osis xmlns="http://www.bibletechnologies.net/2003/OSIS/namespace">
<osisText osisIDWork="Test" xml:lang="en">
<header><work osisWork="Test"><title>Test Bible &lt;KJV&gt;</title></work></header>
<div type="bookGroup">
<div type="book" osisID="Gen"><title type="main">GENESIS</title><chapter osisID="Gen.1"><verse sID="Gen.1.1"/>In the beginning<verse eID="Gen.1.1"/></chapter></div>
<div type="book" osisID="Exod"><title type="main">EXODUS</title><chapter osisID="Exod.1"><verse sID="Exod.1.1"/>Now these<note>Or, names</note> are<verse eID="Exod.1.1"/></chapter></div>
</div>
<div type="bookGroup">
<div type="book" osisID="Matt"><title type="main">MATTHEW</title><chapter osisID="Matt.1"><verse sID="Matt.1.1"/>The book<verse eID="Matt.1.1"/></chapter></div>
</div>
</osisText>
</osis>`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func sampleBooks(t *testing.T, ids ...string) []bible.Book {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{"Gen", "Exod", "Matt"}
	}
	books := make([]bible.Book, 0, len(ids))
	for _, id := range ids {
		b, ok := bible.Lookup(id)
		if !ok {
			t.Fatalf("unknown book %s", id)
		}
		books = append(books, b)
	}
	return books
}

func writeSample(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "sample.osis.xml")
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return name
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read output %s: %v", name, err)
	}
	return string(data)
}

func TestProcess(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSample(t, sampleOSIS)
	dst := filepath.Join(t.TempDir(), "out", "html")

	if err := process(ctx, src, dst, sampleBooks(t), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	entries, err := os.ReadDir(dst)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if want := "exodus.html genesis.html index.html matthew.html style.css"; strings.Join(names, " ") != want {
		t.Errorf("output files = %v, want %s", names, want)
	}

	index := readOutput(t, dst, "index.html")
	for _, want := range []string{
		`<html lang="en">`,
		`<title>Test Bible &lt;KJV&gt;</title>`,
		`<h2>Old Testament</h2>`,
		`<a href="genesis.html">Genesis</a>`,
		`<a href="exodus.html">Exodus</a>`,
		`<h2>New Testament</h2>`,
		`<a href="matthew.html">Matthew</a>`,
		`<link rel="stylesheet" href="style.css">`,
	} {
		if !strings.Contains(index, want) {
			t.Errorf("index page does not contain %q:\n%s", want, index)
		}
	}
	if strings.Index(index, "Genesis") > strings.Index(index, "Exodus") {
		t.Error("books are not in catalog order")
	}

	genesis := readOutput(t, dst, "genesis.html")
	for _, want := range []string{
		`<h1>GENESIS</h1><p><a name="Gen.1.1"><sup class="verseNum">1</sup></a>In the beginning</p>`,
		`<title>GENESIS - Test Bible &lt;KJV&gt;</title>`,
		`<a class="next" href="exodus.html">Exodus</a>`,
		`<a class="index" href="index.html">`,
	} {
		if !strings.Contains(genesis, want) {
			t.Errorf("genesis page does not contain %q:\n%s", want, genesis)
		}
	}
	if strings.Contains(genesis, `class="prev"`) {
		t.Error("first book should not link to previous one")
	}

	exodus := readOutput(t, dst, "exodus.html")
	if want := `Now these<sup title="Or, names">a</sup> are</p>`; !strings.Contains(exodus, want) {
		t.Errorf("exodus page does not contain %q:\n%s", want, exodus)
	}
	matthew := readOutput(t, dst, "matthew.html")
	if !strings.Contains(matthew, `<a class="prev" href="exodus.html">Exodus</a>`) || strings.Contains(matthew, `class="next"`) {
		t.Errorf("unexpected navigation on last page:\n%s", matthew)
	}

	if style := readOutput(t, dst, "style.css"); style != string(defaultStylesheet) {
		t.Error("default stylesheet was not written")
	}
}

func TestProcess_NoNavigation(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.Pages.Navigation = false
	src := writeSample(t, sampleOSIS)
	dst := t.TempDir()

	if err := process(ctx, src, dst, sampleBooks(t), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if page := readOutput(t, dst, "exodus.html"); strings.Contains(page, "<nav") {
		t.Errorf("navigation should be absent:\n%s", page)
	}
}

func TestProcess_Reproducible(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSample(t, sampleOSIS)
	first, second := t.TempDir(), t.TempDir()

	for _, dst := range []string{first, second} {
		if err := process(ctx, src, dst, sampleBooks(t), env.Log); err != nil {
			t.Fatalf("process() error = %v", err)
		}
	}
	for _, name := range []string{"index.html", "genesis.html", "exodus.html", "matthew.html"} {
		if readOutput(t, first, name) != readOutput(t, second, name) {
			t.Errorf("%s differs between runs", name)
		}
	}
}

func TestProcess_BookMissing(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSample(t, sampleOSIS)
	dst := filepath.Join(t.TempDir(), "out")

	err := process(ctx, src, dst, sampleBooks(t, "Gen", "Ruth"), env.Log)
	if !errors.Is(err, ErrBookMissing) {
		t.Fatalf("process() error = %v, want ErrBookMissing", err)
	}
	if !strings.Contains(err.Error(), "Ruth") {
		t.Errorf("error should name missing book: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("nothing should be written when book is missing")
	}
}

func TestProcess_NoTitle(t *testing.T) {
	ctx, env := setupTestEnv(t)

	t.Run("document", func(t *testing.T) {
		src := writeSample(t, `<osis><osisText><div type="book" osisID="Gen">text</div></osisText></osis>`)
		err := process(ctx, src, t.TempDir(), sampleBooks(t, "Gen"), env.Log)
		if !errors.Is(err, osis.ErrNoTitle) {
			t.Errorf("process() error = %v, want ErrNoTitle", err)
		}
	})

	t.Run("book", func(t *testing.T) {
		src := writeSample(t, `<osis><osisText><title>Bible</title><div type="book" osisID="Gen">text</div></osisText></osis>`)
		err := process(ctx, src, t.TempDir(), sampleBooks(t, "Gen"), env.Log)
		if !errors.Is(err, osis.ErrNoTitle) {
			t.Errorf("process() error = %v, want ErrNoTitle", err)
		}
	})
}

func TestProcess_Malformed(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSample(t, `<osis><osisText><title>Bible</title>`)
	if err := process(ctx, src, t.TempDir(), sampleBooks(t), env.Log); err == nil {
		t.Fatal("process() expected error for malformed input")
	}
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSample(t, sampleOSIS)
	dst := t.TempDir()

	if err := process(ctx, src, dst, sampleBooks(t), env.Log); err != nil {
		t.Fatalf("first process() error = %v", err)
	}
	err := process(ctx, src, dst, sampleBooks(t), env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second process() error = %v, want refusal to overwrite", err)
	}

	env.Overwrite = true
	if err := process(ctx, src, dst, sampleBooks(t), env.Log); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
}

func TestProcess_PageNameClash(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.OutputNameTemplate = `{{ .Testament }}`
	src := writeSample(t, sampleOSIS)

	err := process(ctx, src, t.TempDir(), sampleBooks(t), env.Log)
	if err == nil || !strings.Contains(err.Error(), "already used") {
		t.Fatalf("process() error = %v, want name clash", err)
	}
}

func TestProcess_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)

	makeArchive := func(t *testing.T, files map[string]string) string {
		t.Helper()
		name := filepath.Join(t.TempDir(), "bibles.zip")
		buf := new(bytes.Buffer)
		w := zip.NewWriter(buf)
		for n, content := range files {
			fw, err := w.Create(n)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := fw.Write([]byte(content)); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
			t.Fatal(err)
		}
		return name
	}

	t.Run("single document", func(t *testing.T) {
		arc := makeArchive(t, map[string]string{"kjv/kjv.xml": sampleOSIS, "kjv/readme.txt": "readme"})
		dst := t.TempDir()
		if err := process(ctx, arc, dst, sampleBooks(t), env.Log); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		readOutput(t, dst, "genesis.html")
	})

	t.Run("path inside archive", func(t *testing.T) {
		arc := makeArchive(t, map[string]string{"kjv/kjv.xml": sampleOSIS, "web/web.xml": sampleOSIS})
		dst := t.TempDir()
		if err := process(ctx, filepath.Join(arc, "web"), dst, sampleBooks(t), env.Log); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		readOutput(t, dst, "index.html")
	})

	t.Run("ambiguous", func(t *testing.T) {
		arc := makeArchive(t, map[string]string{"kjv/kjv.xml": sampleOSIS, "web/web.osis": sampleOSIS})
		err := process(ctx, arc, t.TempDir(), sampleBooks(t), env.Log)
		if !errors.Is(err, ErrAmbiguousSource) {
			t.Errorf("process() error = %v, want ErrAmbiguousSource", err)
		}
	})

	t.Run("no document", func(t *testing.T) {
		arc := makeArchive(t, map[string]string{"kjv/readme.txt": "readme", "other.xml": "<html/>"})
		err := process(ctx, arc, t.TempDir(), sampleBooks(t), env.Log)
		if !errors.Is(err, ErrNoDocument) {
			t.Errorf("process() error = %v, want ErrNoDocument", err)
		}
	})
}

// TestProcess_NonExistentPath tests process with non-existent path
func TestProcess_NonExistentPath(t *testing.T) {
	ctx, env := setupTestEnv(t)

	err := process(ctx, "/nonexistent/path/file.xml", t.TempDir(), sampleBooks(t), env.Log)
	if err == nil || !strings.Contains(err.Error(), "input source was not found") {
		t.Fatalf("process() error = %v, want not found", err)
	}
}

// TestProcess_CancelledContext tests process with cancelled context
func TestProcess_CancelledContext(t *testing.T) {
	ctx, env := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	src := writeSample(t, sampleOSIS)
	if err := process(cancelCtx, src, t.TempDir(), sampleBooks(t), env.Log); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestRun_Usage(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	for _, args := range [][]string{
		{"osis2html", "convert"},
		{"osis2html", "convert", "one"},
		{"osis2html", "convert", "one", "two", "three"},
	} {
		out := new(bytes.Buffer)
		app := &cli.Command{
			Name:   "osis2html",
			Writer: out,
			Commands: []*cli.Command{
				{
					Name:      "convert",
					Action:    Run,
					ArgsUsage: "SOURCE DESTINATION",
					Flags:     []cli.Flag{&cli.BoolFlag{Name: "overwrite"}},
				},
			},
		}
		if err := app.Run(ctx, args); err != nil {
			t.Errorf("Run(%v) error = %v, want nil", args, err)
		}
		if !strings.Contains(out.String(), "SOURCE DESTINATION") {
			t.Errorf("Run(%v) did not print usage: %q", args, out.String())
		}
	}
}

func TestBuildSite_Testaments(t *testing.T) {
	doc, err := osis.Load(strings.NewReader(sampleOSIS), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var sources []bookSource
	for _, id := range []string{"Gen", "Matt", "Exod"} {
		b, _ := bible.Lookup(id)
		sources = append(sources, bookSource{Book: b, file: strings.ToLower(id) + "-page.html"})
	}

	site := buildSite(doc, "Test Bible", sources)

	names := func(links []BookLink) string {
		var parts []string
		for _, l := range links {
			parts = append(parts, l.ShortName+":"+l.File)
		}
		return strings.Join(parts, ",")
	}
	if got, want := names(site.Old), "Gen:gen-page.html,Exod:exod-page.html"; got != want {
		t.Errorf("Old = %s, want %s", got, want)
	}
	if got, want := names(site.New), "Matt:matt-page.html"; got != want {
		t.Errorf("New = %s, want %s", got, want)
	}
	if site.EditionID == "" || site.EditionID != buildSite(doc, "Test Bible", sources).EditionID {
		t.Errorf("edition id must be stable, got %q", site.EditionID)
	}
}
