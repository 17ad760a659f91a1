// Package config loads abusewatch settings. Later sources override earlier
// ones: defaults, YAML file, environment (and .env), command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all abusewatch configuration.
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Stream     StreamConfig     `yaml:"stream"`
	Signals    SignalsConfig    `yaml:"signals"`
	UI         UIConfig         `yaml:"ui"`
	Log        LogConfig        `yaml:"log"`
}

// ClassifierConfig locates the external classification service.
type ClassifierConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	BulkTimeout time.Duration `yaml:"bulk_timeout"`
}

// AnalysisConfig holds live-analysis settings.
type AnalysisConfig struct {
	Threshold float64       `yaml:"threshold"`
	Debounce  time.Duration `yaml:"debounce"`
}

// StreamConfig holds simulator settings.
type StreamConfig struct {
	Interval  time.Duration `yaml:"interval"`
	AutoStart bool          `yaml:"auto_start"`
}

// SignalsConfig sizes the highlighted-phrase tracker.
type SignalsConfig struct {
	K      int           `yaml:"k"`
	Window time.Duration `yaml:"window"`
	Tick   time.Duration `yaml:"tick"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	AltScreen bool   `yaml:"alt_screen"`
	ViewSplit int    `yaml:"view_split"`
	PlotFPS   int    `yaml:"plot_fps"`
	ExportDir string `yaml:"export_dir"`
	Stats     bool   `yaml:"stats"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Classifier: ClassifierConfig{
			URL:         "http://localhost:8000",
			Timeout:     5000 * time.Millisecond,
			BulkTimeout: 60 * time.Second,
		},
		Analysis: AnalysisConfig{
			Threshold: 0.3,
			Debounce:  380 * time.Millisecond,
		},
		Stream: StreamConfig{
			Interval: 2500 * time.Millisecond,
		},
		Signals: SignalsConfig{
			K:      10,
			Window: time.Minute,
			Tick:   time.Second,
		},
		UI: UIConfig{
			AltScreen: true,
			ViewSplit: 50,
			PlotFPS:   10,
			ExportDir: ".",
			Stats:     true,
		},
		Log: LogConfig{
			File:  "abusewatch.log",
			Level: "info",
		},
	}
}

// LoadFile overlays the YAML document at path onto c. A missing file is an error.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays ABUSEWATCH_* environment variables onto c.
// Unparseable values are ignored.
func (c *Config) ApplyEnv() {
	c.Classifier.URL = getenv("ABUSEWATCH_URL", c.Classifier.URL)
	c.Classifier.Timeout = getenvDuration("ABUSEWATCH_TIMEOUT", c.Classifier.Timeout)
	c.Classifier.BulkTimeout = getenvDuration("ABUSEWATCH_BULK_TIMEOUT", c.Classifier.BulkTimeout)
	c.Analysis.Threshold = getenvFloat("ABUSEWATCH_THRESHOLD", c.Analysis.Threshold)
	c.Analysis.Debounce = getenvDuration("ABUSEWATCH_DEBOUNCE", c.Analysis.Debounce)
	c.Stream.Interval = getenvDuration("ABUSEWATCH_STREAM_INTERVAL", c.Stream.Interval)
	c.Log.File = getenv("ABUSEWATCH_LOG_FILE", c.Log.File)
	c.Log.Level = getenv("ABUSEWATCH_LOG_LEVEL", c.Log.Level)
	c.UI.ExportDir = getenv("ABUSEWATCH_EXPORT_DIR", c.UI.ExportDir)
}

// RegisterFlags binds command-line flags to c's fields, using c's current
// values as defaults.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.Classifier.URL, "url", c.Classifier.URL, "Classifier base URL")
	flags.DurationVar(&c.Classifier.Timeout, "timeout", c.Classifier.Timeout, "Per-request timeout for live analysis")
	flags.DurationVar(&c.Classifier.BulkTimeout, "bulk-timeout", c.Classifier.BulkTimeout, "Timeout for file, URL and health requests")
	flags.Float64Var(&c.Analysis.Threshold, "threshold", c.Analysis.Threshold, "Toxicity threshold [0.1,0.9]")
	flags.DurationVar(&c.Analysis.Debounce, "debounce", c.Analysis.Debounce, "Quiet window after the last keystroke")
	flags.DurationVar(&c.Stream.Interval, "stream-interval", c.Stream.Interval, "Live-stream simulator cadence")
	flags.BoolVar(&c.Stream.AutoStart, "stream", c.Stream.AutoStart, "Start the live-stream simulator on launch")
	flags.IntVar(&c.Signals.K, "signals-k", c.Signals.K, "Track the top K highlighted phrases")
	flags.DurationVar(&c.Signals.Window, "signals-window", c.Signals.Window, "Highlighted phrase window size")
	flags.DurationVar(&c.Signals.Tick, "signals-tick", c.Signals.Tick, "Highlighted phrase window tick size")
	flags.BoolVar(&c.UI.AltScreen, "alt-screen", c.UI.AltScreen, "Use the terminal alternate screen buffer")
	flags.IntVar(&c.UI.ViewSplit, "view-split", c.UI.ViewSplit, "Split the view at this % of the total screen width [20,80]")
	flags.IntVar(&c.UI.PlotFPS, "plot-fps", c.UI.PlotFPS, "Plot refresh rate (frames per second)")
	flags.StringVar(&c.UI.ExportDir, "export-dir", c.UI.ExportDir, "Directory for session exports")
	flags.BoolVar(&c.UI.Stats, "stats", c.UI.Stats, "Show client performance stats")
	flags.StringVar(&c.Log.File, "log-file", c.Log.File, "Write diagnostics to this file (empty disables)")
	flags.StringVar(&c.Log.Level, "log-level", c.Log.Level, "Log level: debug, info, warn, error")
	flags.BoolVar(&c.Log.JSON, "log-json", c.Log.JSON, "Write diagnostics as JSON")
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.Classifier.URL == "" {
		return fmt.Errorf("-url must not be empty")
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("-timeout must be > 0")
	}
	if c.Classifier.BulkTimeout <= 0 {
		return fmt.Errorf("-bulk-timeout must be > 0")
	}
	if c.Analysis.Threshold < 0.1 || c.Analysis.Threshold > 0.9 {
		return fmt.Errorf("-threshold must be in [0.1,0.9]")
	}
	if c.Analysis.Debounce <= 0 {
		return fmt.Errorf("-debounce must be > 0")
	}
	if c.Stream.Interval <= 0 {
		return fmt.Errorf("-stream-interval must be > 0")
	}
	if c.Signals.K < 1 {
		return fmt.Errorf("-signals-k must be >= 1")
	}
	if c.Signals.Tick <= 0 {
		return fmt.Errorf("-signals-tick must be > 0")
	}
	if c.Signals.Window < c.Signals.Tick {
		return fmt.Errorf("-signals-window must be >= -signals-tick")
	}
	if c.Signals.Window%c.Signals.Tick != 0 {
		return fmt.Errorf("-signals-window must be a multiple of -signals-tick (got window=%s tick=%s)", c.Signals.Window, c.Signals.Tick)
	}
	if c.UI.ViewSplit < 20 || c.UI.ViewSplit > 80 {
		return fmt.Errorf("-view-split must be in [20,80]")
	}
	if c.UI.PlotFPS < 1 {
		return fmt.Errorf("-plot-fps must be >= 1")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
