// Package export writes session and bulk results as CSV or XLSX tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

// SessionHeader is the header row of a session export.
var SessionHeader = []string{"Timestamp", "Text", "Risk Score"}

// BulkHeader is the header row of a bulk export; label columns follow classifier.Labels.
var BulkHeader = append([]string{"Index", "Text", "Risk Score", "Toxic"}, classifier.Labels...)

func sessionRows(entries []telemetry.SessionEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Timestamp, e.TextPreview, strconv.FormatFloat(e.Score, 'f', 1, 64)})
	}
	return rows
}

func bulkRows(resp *classifier.BulkResponse) [][]string {
	rows := make([][]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		row := []string{
			strconv.Itoa(r.Index),
			r.Text,
			strconv.FormatFloat(r.RiskScore, 'f', 1, 64),
			strconv.FormatBool(r.IsToxic),
		}
		for _, label := range classifier.Labels {
			row = append(row, strconv.FormatFloat(r.Labels[label]*100, 'f', 0, 64))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSessionCSV writes entries (newest first, as returned by the aggregator).
// Fields containing delimiters, quotes or newlines are quoted with inner
// quotes doubled.
func WriteSessionCSV(w io.Writer, entries []telemetry.SessionEntry) error {
	return writeCSV(w, SessionHeader, sessionRows(entries))
}

// WriteBulkCSV writes one row per bulk result with per-category percentages.
func WriteBulkCSV(w io.Writer, resp *classifier.BulkResponse) error {
	return writeCSV(w, BulkHeader, bulkRows(resp))
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadSessionCSV parses a session export back into entries.
func ReadSessionCSV(r io.Reader) ([]telemetry.SessionEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(SessionHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}
	for i, h := range SessionHeader {
		if records[0][i] != h {
			return nil, fmt.Errorf("unexpected header %q", records[0])
		}
	}
	entries := make([]telemetry.SessionEntry, 0, len(records)-1)
	for i, rec := range records[1:] {
		score, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: risk score: %w", i+1, err)
		}
		entries = append(entries, telemetry.SessionEntry{Timestamp: rec[0], TextPreview: rec[1], Score: score})
	}
	return entries, nil
}

// FileName builds an export file name such as session_1a2b3c4d_1760878987000.csv.
func FileName(kind, sessionID string, now time.Time, ext string) string {
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return fmt.Sprintf("%s_%s_%d.%s", kind, sessionID, now.UnixMilli(), ext)
}
