package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	TestamentsConfig struct {
		OldTitle string `yaml:"old_title" validate:"required"`
		NewTitle string `yaml:"new_title" validate:"required"`
	}

	PagesConfig struct {
		IndexName         string           `yaml:"index_name" validate:"required"`
		StylesheetName    string           `yaml:"stylesheet_name" validate:"required"`
		StylesheetPath    string           `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		IndexTemplatePath string           `yaml:"index_template_path" sanitize:"assure_file_access"`
		BookTemplatePath  string           `yaml:"book_template_path" sanitize:"assure_file_access"`
		Navigation        bool             `yaml:"navigation"`
		Testaments        TestamentsConfig `yaml:"testaments"`
	}

	DocumentConfig struct {
		OutputNameTemplate    string      `yaml:"output_name_template"`
		FileNameTransliterate bool        `yaml:"file_name_transliterate"`
		Pages                 PagesConfig `yaml:"pages"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

// name template is expanded per book, not when configuration is processed
var requiredOptions = []func(*gencfg.ProcessingOptions){
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
}

// decode superimposes YAML data on cfg. Unknown fields are errors.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// check sanitizes loaded values and validates the result.
func check(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg)
}

// LoadConfiguration starts from expanded built-in template, applies values
// from the file at path (if any) on top and checks the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	cfg := &Config{}
	if err := decode(defaults, cfg); err != nil {
		return nil, fmt.Errorf("built-in configuration: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("configuration file %s: %w", path, err)
		}
	}
	if err := check(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded built-in configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump returns cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
