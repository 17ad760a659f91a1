package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/keilerkonzept/abusewatch/internal/config"
	"github.com/keilerkonzept/abusewatch/internal/gateway"
	"github.com/keilerkonzept/abusewatch/internal/logging"
	"github.com/keilerkonzept/abusewatch/internal/monitor"
	"github.com/keilerkonzept/abusewatch/internal/source"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

const usage = `Usage:
  abusewatch [flags]                      live monitor
  abusewatch bulk [flags] FILE|GLOB|- ... analyze text/CSV files
  abusewatch url [flags] URL              analyze a web page
  abusewatch health [flags]               check the classifier

Run any command with -h for its flags.
`

func main() {
	log.SetOutput(os.Stdout)

	args := os.Args[1:]
	name := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch name {
	case "":
		err = runMonitor(args)
	case "bulk":
		err = runBulk(ctx, args, os.Stdin, os.Stdout)
	case "url":
		err = runURL(ctx, args, os.Stdout)
	case "health":
		err = runHealth(ctx, args, os.Stdout)
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		err = fmt.Errorf("unknown command %q", name)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Fatal(err)
	}
}

// command is the shared setup of every entry point: configuration layered
// from defaults, YAML, environment and flags, plus the diagnostic log.
type command struct {
	cfg   config.Config
	flags *flag.FlagSet

	logOut io.WriteCloser
	log    *slog.Logger
}

func newCommand(name string, args []string) (*command, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	c := &command{cfg: config.Default()}
	path := configPath(args)
	if path != "" {
		if err := c.cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	c.cfg.ApplyEnv()

	c.flags = flag.NewFlagSet(name, flag.ContinueOnError)
	c.flags.String("config", path, "YAML configuration file (env ABUSEWATCH_CONFIG)")
	c.cfg.RegisterFlags(c.flags)
	return c, nil
}

// parse reads the remaining flags, validates the result and opens the log.
func (c *command) parse(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	w, err := logging.Open(c.cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	c.logOut = w
	c.log = logging.Init(w, logging.ParseLevel(c.cfg.Log.Level), c.cfg.Log.JSON)
	return nil
}

func (c *command) close() {
	if c.logOut != nil {
		_ = c.logOut.Close()
	}
}

func (c *command) gateway() *gateway.Client {
	return gateway.New(c.cfg.Classifier.URL,
		gateway.WithTimeout(c.cfg.Classifier.Timeout),
		gateway.WithBulkTimeout(c.cfg.Classifier.BulkTimeout),
		gateway.WithLogger(c.log),
	)
}

// configPath finds -config before the full flag set exists, so the file can
// be applied underneath environment and flag overrides.
func configPath(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			break
		}
		a = strings.TrimPrefix(strings.TrimPrefix(a, "-"), "-")
		if v, ok := strings.CutPrefix(a, "config="); ok {
			return v
		}
		if a == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("ABUSEWATCH_CONFIG")
}

func runMonitor(args []string) error {
	c, err := newCommand("abusewatch", args)
	if err != nil {
		return err
	}
	if err := c.parse(args); err != nil {
		return err
	}
	defer c.close()
	cfg := c.cfg

	signals := telemetry.NewSignalTracker(telemetry.SignalConfig{
		K:          cfg.Signals.K,
		TickSize:   cfg.Signals.Tick,
		WindowSize: cfg.Signals.Window,
	})
	mon := monitor.New(c.gateway(), telemetry.New(),
		monitor.WithDebounce(cfg.Analysis.Debounce),
		monitor.WithSimulator(source.NewSimulator(source.WithInterval(cfg.Stream.Interval))),
		monitor.WithSignals(signals),
		monitor.WithThreshold(cfg.Analysis.Threshold),
		monitor.WithLogger(c.log),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = mon.Run(ctx)
	}()
	if cfg.Stream.AutoStart {
		mon.StartStream()
	}

	sessionID := uuid.NewString()
	c.log.Info("session started", "session", sessionID, "url", cfg.Classifier.URL)

	m := newModel(cfg, mon, sessionID)
	opts := []tui.ProgramOption{tui.WithInputTTY()}
	if cfg.UI.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	_, err = tui.NewProgram(m, opts...).Run()
	cancel()
	<-runDone
	c.log.Info("session ended", "session", sessionID, "analyzed", mon.Aggregator().Counters().TotalAnalyzed)
	return err
}
