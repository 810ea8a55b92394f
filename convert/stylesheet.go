package convert

import (
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"

	"osis2html/config"
	"osis2html/css"
	"osis2html/render"
)

//go:embed default.css
var defaultStylesheet []byte

// loadStylesheet returns stylesheet to be written next to the pages. User
// stylesheet is inspected and problems are reported, but never rejected.
func loadStylesheet(cfg *config.PagesConfig, log *zap.Logger) ([]byte, error) {
	if cfg.StylesheetPath == "" {
		return defaultStylesheet, nil
	}

	data, err := os.ReadFile(cfg.StylesheetPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet from %q: %w", cfg.StylesheetPath, err)
	}

	sheet := css.Parse(data, log)
	for _, err := range sheet.Errors {
		log.Warn("Stylesheet syntax problem", zap.String("file", cfg.StylesheetPath), zap.Error(err))
	}
	if len(sheet.Imports) > 0 {
		log.Warn("Stylesheet imports are not copied to destination", zap.Strings("imports", sheet.Imports))
	}
	if missing := sheet.MissingClasses(render.Classes()...); len(missing) > 0 {
		log.Debug("Stylesheet does not style some of generated classes", zap.Strings("classes", missing))
	}
	return data, nil
}
