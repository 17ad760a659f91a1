package export

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

const (
	SessionSheet = "Session"
	BulkSheet    = "Results"
)

// WriteSessionXLSX writes entries as an Excel workbook with one sheet.
func WriteSessionXLSX(w io.Writer, entries []telemetry.SessionEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Timestamp, e.TextPreview, round1(e.Score)})
	}
	return writeXLSX(w, SessionSheet, SessionHeader, rows)
}

// WriteBulkXLSX writes bulk results as an Excel workbook with one sheet.
func WriteBulkXLSX(w io.Writer, resp *classifier.BulkResponse) error {
	rows := make([][]any, 0, len(resp.Results))
	for _, r := range resp.Results {
		row := []any{r.Index, r.Text, round1(r.RiskScore), r.IsToxic}
		for _, label := range classifier.Labels {
			row = append(row, int(r.Labels[label]*100+0.5))
		}
		rows = append(rows, row)
	}
	return writeXLSX(w, BulkSheet, BulkHeader, rows)
}

func writeXLSX(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
