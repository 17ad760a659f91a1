package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/x/term"
	"github.com/google/uuid"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
	"github.com/keilerkonzept/abusewatch/internal/export"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

// stdinName is what the server sees as the file name of piped input.
const stdinName = "stdin.txt"

func runBulk(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	c, err := newCommand("bulk", args)
	if err != nil {
		return err
	}
	format := c.flags.String("format", "", "Also export results: csv or xlsx")
	showAll := c.flags.Bool("all", false, "List every row, not only toxic ones")
	if err := c.parse(args); err != nil {
		return err
	}
	defer c.close()
	if *format != "" && *format != "csv" && *format != "xlsx" {
		return fmt.Errorf("-format must be csv or xlsx")
	}

	inputs, err := expandInputs(c.flags.Args())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("bulk: no input files (use - for stdin)")
	}

	gw := c.gateway()
	sessionID := uuid.NewString()
	threshold := c.cfg.Analysis.Threshold
	for _, in := range inputs {
		name, body, err := openInput(in, stdin)
		if err != nil {
			return err
		}
		resp, err := gw.AnalyzeFile(ctx, name, body, threshold)
		if closer, ok := body.(io.Closer); ok {
			_ = closer.Close()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		printBulk(stdout, name, resp, *showAll)
		if *format == "" {
			continue
		}
		path, err := writeBulkExport(c.cfg.UI.ExportDir, sessionID, *format, resp)
		if err != nil {
			return fmt.Errorf("%s: export: %w", in, err)
		}
		fmt.Fprintf(stdout, "  exported %s\n", path)
	}
	return nil
}

// expandInputs resolves glob patterns; "-" and literal paths pass through.
func expandInputs(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if p == "-" {
			out = append(out, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no such file", p)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func openInput(path string, stdin io.Reader) (string, io.Reader, error) {
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", nil, err
		}
		return filepath.Base(path), f, nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(f.Fd()) {
		return "", nil, fmt.Errorf("bulk: refusing to read from a terminal; pipe a file into -")
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", nil, err
	}
	return stdinName, bytes.NewReader(b), nil
}

func printBulk(w io.Writer, name string, resp *classifier.BulkResponse, all bool) {
	fmt.Fprintf(w, "%s: Total %d  Toxic %d  Safe %d  Avg Risk %.1f%%  (%.0fms)\n",
		name, resp.Total, resp.ToxicCount, resp.SafeCount, resp.AvgRiskScore, resp.ProcessingTimeMs)
	for _, r := range resp.Results {
		if !all && !r.IsToxic {
			continue
		}
		sig := telemetry.TopSignal(r.RiskScore, r.Labels)
		label := "safe"
		if !sig.Safe {
			label = sig.Label
		}
		fmt.Fprintf(w, "  #%-4d %5.1f  %-11s %s\n", r.Index, r.RiskScore, label, telemetry.Preview(r.Text))
	}
}

func writeBulkExport(dir, sessionID, format string, resp *classifier.BulkResponse) (string, error) {
	path := filepath.Join(dir, export.FileName("bulk", sessionID, time.Now(), format))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if format == "xlsx" {
		err = export.WriteBulkXLSX(f, resp)
	} else {
		err = export.WriteBulkCSV(f, resp)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return path, err
}

func runURL(ctx context.Context, args []string, stdout io.Writer) error {
	c, err := newCommand("url", args)
	if err != nil {
		return err
	}
	if err := c.parse(args); err != nil {
		return err
	}
	defer c.close()
	if c.flags.NArg() != 1 {
		return fmt.Errorf("url: expected exactly one URL")
	}

	res, err := c.gateway().AnalyzeURL(ctx, c.flags.Arg(0), c.cfg.Analysis.Threshold)
	if err != nil {
		return err
	}
	printURL(stdout, res, c.cfg.Analysis.Threshold)
	return nil
}

func printURL(w io.Writer, res *classifier.URLResult, threshold float64) {
	verdict := "SAFE"
	if res.IsToxic(threshold) {
		verdict = "TOXIC"
	}
	title := res.PageTitle
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  fetched: %d, %d chars\n", res.FetchStatus, res.CharCount)
	fmt.Fprintf(w, "  risk: %.1f%% %s (%s)\n", res.RiskScore, verdict, telemetry.BandOf(res.RiskScore))
	for _, label := range classifier.Labels {
		fmt.Fprintf(w, "  %-11s %3.0f%%\n", label, res.Labels[label]*100)
	}
	if len(res.Highlights) > 0 {
		fmt.Fprintf(w, "  highlights: %s\n", strings.Join(res.Highlights, ", "))
	}
}

func runHealth(ctx context.Context, args []string, stdout io.Writer) error {
	c, err := newCommand("health", args)
	if err != nil {
		return err
	}
	if err := c.parse(args); err != nil {
		return err
	}
	defer c.close()

	h, err := c.gateway().Health(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", c.cfg.Classifier.URL, err)
	}
	fmt.Fprintf(stdout, "%s: %s (model %s)\n", c.cfg.Classifier.URL, h.Status, h.Model)
	for _, e := range h.Endpoints {
		fmt.Fprintf(stdout, "  %s\n", e)
	}
	return nil
}
