package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"osis2html/bible"
	"osis2html/config"
)

// NameValues is a set of values available to output name template.
type NameValues struct {
	Context   string
	ShortName string
	LongName  string
	Testament string
	// Index is 1 based position of the book in the output.
	Index int
}

// buildPageName returns file name for book page. Catalog name is used unless
// template is configured, template results are flattened to a single file
// name, cleaned and if requested transliterated.
func buildPageName(b bible.Book, index int, cfg *config.DocumentConfig, log *zap.Logger) string {
	if cfg.OutputNameTemplate == "" {
		return b.Filename
	}

	name, err := expandNameTemplate(b, index, cfg.OutputNameTemplate)
	if err != nil {
		log.Warn("Unable to prepare page name, using default", zap.String("book", b.ShortName), zap.Error(err))
		return b.Filename
	}

	name = strings.TrimSpace(name)
	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".html") || strings.EqualFold(ext, ".htm") {
		name = strings.TrimSuffix(name, ext)
	} else {
		ext = ".html"
	}
	if name == "" {
		log.Warn("Page name template produced empty name, using default", zap.String("book", b.ShortName))
		return b.Filename
	}
	if cfg.FileNameTransliterate {
		name = slug.Make(name)
	}
	// no subdirectories, pages link to each other by name
	name = strings.NewReplacer("/", "-", `\`, "-").Replace(name)
	return config.CleanFileName(name) + ext
}

func expandNameTemplate(b bible.Book, index int, field string) (string, error) {
	tmpl, err := template.New(string(config.OutputNameTemplateFieldName)).Funcs(sprig.TxtFuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.OutputNameTemplateFieldName, err)
	}

	values := NameValues{
		Context:   string(config.OutputNameTemplateFieldName),
		ShortName: b.ShortName,
		LongName:  b.LongName,
		Testament: b.Testament.String(),
		Index:     index + 1,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
