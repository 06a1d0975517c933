package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"eventlog/internal/alerting"
	"eventlog/pkg/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sev, _ := cfg.Severity(); sev != models.LevelLog {
		t.Errorf("Severity = %v", sev)
	}
	if p, _ := cfg.MatchPolicy(); p != alerting.MatchAny {
		t.Errorf("MatchPolicy = %v", p)
	}
	if cfg.Colors.LogBg != "#5677fc" || cfg.Colors.ErrorBg != "#e51c23" {
		t.Errorf("Colors = %+v", cfg.Colors)
	}
	if cfg.Server.Addr != ":8080" || cfg.Report.Format != "table" || !cfg.Metrics.Enabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventlog.yaml")
	content := `
level: warn
listeners:
  match: all
colors:
  warn_bg: "#000000"
report:
  format: json
server:
  addr: ":9999"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVENTLOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sev, _ := cfg.Severity(); sev != models.LevelError {
		t.Errorf("env override not applied, Severity = %v", sev)
	}
	if p, _ := cfg.MatchPolicy(); p != alerting.MatchAll {
		t.Errorf("MatchPolicy = %v", p)
	}
	if cfg.Colors.WarnBg != "#000000" || cfg.Colors.LogBg != "#5677fc" {
		t.Errorf("Colors = %+v", cfg.Colors)
	}
	if cfg.Report.Format != "json" || cfg.Server.Addr != ":9999" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "level: loud\nlisteners:\n  match: maybe\nreport:\n  format: xml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"loud", "maybe", "xml"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("output = %s", buf.String())
	}
}
