package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty url", func(c *Config) { c.Classifier.URL = "" }, "-url"},
		{"zero timeout", func(c *Config) { c.Classifier.Timeout = 0 }, "-timeout"},
		{"zero bulk timeout", func(c *Config) { c.Classifier.BulkTimeout = 0 }, "-bulk-timeout"},
		{"threshold low", func(c *Config) { c.Analysis.Threshold = 0.05 }, "-threshold"},
		{"threshold high", func(c *Config) { c.Analysis.Threshold = 0.95 }, "-threshold"},
		{"zero debounce", func(c *Config) { c.Analysis.Debounce = 0 }, "-debounce"},
		{"zero interval", func(c *Config) { c.Stream.Interval = 0 }, "-stream-interval"},
		{"zero k", func(c *Config) { c.Signals.K = 0 }, "-signals-k"},
		{"zero tick", func(c *Config) { c.Signals.Tick = 0 }, "-signals-tick"},
		{"window below tick", func(c *Config) { c.Signals.Window = 500 * time.Millisecond }, "-signals-window"},
		{"window not multiple", func(c *Config) { c.Signals.Window = 1500 * time.Millisecond }, "multiple"},
		{"split low", func(c *Config) { c.UI.ViewSplit = 10 }, "-view-split"},
		{"split high", func(c *Config) { c.UI.ViewSplit = 90 }, "-view-split"},
		{"fps", func(c *Config) { c.UI.PlotFPS = 0 }, "-plot-fps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abusewatch.yaml")
	doc := `classifier:
  url: http://classifier:9000
  timeout: 2s
analysis:
  threshold: 0.55
stream:
  auto_start: true
ui:
  view_split: 40
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	c := Default()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Classifier.URL != "http://classifier:9000" || c.Classifier.Timeout != 2*time.Second {
		t.Fatalf("unexpected classifier config %+v", c.Classifier)
	}
	if c.Analysis.Threshold != 0.55 || !c.Stream.AutoStart || c.UI.ViewSplit != 40 {
		t.Fatalf("unexpected config %+v", c)
	}
	// Untouched keys keep their defaults.
	if c.Analysis.Debounce != 380*time.Millisecond || c.Classifier.BulkTimeout != time.Minute {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestLoadFileErrors(t *testing.T) {
	c := Default()
	if err := c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("analysis: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ABUSEWATCH_URL", "http://env:1234")
	t.Setenv("ABUSEWATCH_THRESHOLD", "0.7")
	t.Setenv("ABUSEWATCH_DEBOUNCE", "250ms")
	t.Setenv("ABUSEWATCH_TIMEOUT", "not-a-duration")
	t.Setenv("ABUSEWATCH_LOG_LEVEL", "debug")

	c := Default()
	c.ApplyEnv()
	if c.Classifier.URL != "http://env:1234" {
		t.Fatalf("url = %q", c.Classifier.URL)
	}
	if c.Analysis.Threshold != 0.7 || c.Analysis.Debounce != 250*time.Millisecond {
		t.Fatalf("analysis = %+v", c.Analysis)
	}
	if c.Classifier.Timeout != 5*time.Second {
		t.Fatalf("bad duration should be ignored, got %v", c.Classifier.Timeout)
	}
	if c.Log.Level != "debug" {
		t.Fatalf("log level = %q", c.Log.Level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ABUSEWATCH_EXPORT_DIR=/tmp/exports\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Registered so t restores the variable after godotenv sets it.
	t.Setenv("ABUSEWATCH_EXPORT_DIR", "")
	os.Unsetenv("ABUSEWATCH_EXPORT_DIR")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := Default()
	c.ApplyEnv()
	if c.UI.ExportDir != "/tmp/exports" {
		t.Fatalf("export dir = %q", c.UI.ExportDir)
	}
}

func TestRegisterFlagsOverride(t *testing.T) {
	c := Default()
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(flags)
	if err := flags.Parse([]string{"-threshold", "0.45", "-stream", "-view-split", "30", "-log-file", ""}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Analysis.Threshold != 0.45 || !c.Stream.AutoStart || c.UI.ViewSplit != 30 || c.Log.File != "" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Classifier.URL != "http://localhost:8000" {
		t.Fatalf("unset flag changed url to %q", c.Classifier.URL)
	}
}
