package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"osis2html/config"
	"osis2html/state"
)

// quiet configuration, console output would mix with dumped YAML
const testConfig = `version: 1
document:
  pages:
    index_name: "contents.html"
logging:
  console:
    level: none
`

func runApp(t *testing.T, args ...string) string {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte(testConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	ctx := state.ContextWithEnv(context.Background())
	full := append([]string{"osis2html", "--config", cfgFile}, args...)
	if err := app.Run(ctx, full); err != nil {
		t.Fatalf("Run(%v) error = %v", full, err)
	}
	return out.String()
}

func TestDumpConfig_Default(t *testing.T) {
	want, err := config.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	got := runApp(t, "dumpconfig", "--default")
	if got != string(want) {
		t.Errorf("default configuration differs from built-in:\n%s", got)
	}
	if strings.Contains(got, "contents.html") {
		t.Error("default configuration must not include values from --config file")
	}
}

func TestDumpConfig_Actual(t *testing.T) {
	got := runApp(t, "dumpconfig")

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !strings.Contains(got, "index_name: contents.html") {
		t.Errorf("actual configuration misses value from file:\n%s", got)
	}
	if !strings.Contains(got, "stylesheet_name: "+cfg.Document.Pages.StylesheetName) {
		t.Errorf("actual configuration misses default value:\n%s", got)
	}
}

func TestDumpConfig_ToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dump.yaml")

	if out := runApp(t, "dumpconfig", dest); out != "" {
		t.Errorf("nothing expected on standard output, got:\n%s", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination not written: %v", err)
	}
	if !strings.Contains(string(data), "index_name: contents.html") {
		t.Errorf("dumped file misses value from configuration:\n%s", data)
	}
}
