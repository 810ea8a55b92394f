package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggingPrepare_File(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden message")
	log.Info("visible message")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "visible message") {
		t.Errorf("info message missing from log:\n%s", data)
	}
	if strings.Contains(string(data), "hidden message") {
		t.Errorf("debug message must be filtered out:\n%s", data)
	}
}

func TestLoggingPrepare_ReportForcesDebug(t *testing.T) {
	dir := t.TempDir()
	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("report Prepare() error = %v", err)
	}

	dest := filepath.Join(dir, "run.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none", Destination: dest},
	}
	log, err := conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("debug message")
	_ = log.Sync()

	if err := rpt.Close(); err != nil {
		t.Fatalf("report Close() error = %v", err)
	}
	if files := readArchive(t, rpt.Name()); !strings.Contains(files["final.log"], "debug message") {
		t.Errorf("report log = %q, want debug message", files["final.log"])
	}
}

func TestLevelOf(t *testing.T) {
	for _, name := range []string{"none", "", "verbose"} {
		if _, ok := levelOf(name); ok {
			t.Errorf("levelOf(%q) should disable output", name)
		}
	}
	for _, name := range []string{"debug", "normal"} {
		if _, ok := levelOf(name); !ok {
			t.Errorf("levelOf(%q) should enable output", name)
		}
	}
}
