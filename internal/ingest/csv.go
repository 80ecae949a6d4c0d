// Package ingest reads uploaded CSV exports into tables, runs per-file
// summarization in parallel, and hands the combined row set to the overdue
// classifier. Every row is tagged with its source key here so grouping and
// reconciliation downstream can recover file identity.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"fleetjobs/internal/analysis"
	"fleetjobs/internal/errors"
	"fleetjobs/internal/table"
)

// ReadCSV parses one CSV export into a table, tagging every row with the
// source key. The first record is the header; header names are trimmed. Rows
// shorter than the header read as missing for the absent columns.
func ReadCSV(r io.Reader, sourceKey string) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("empty CSV file", nil)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV header", err)
	}

	tbl := table.New(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read CSV record", err)
		}

		row := table.NewRow(sourceKey)
		for i, col := range tbl.Columns {
			if i < len(record) {
				row.Set(col, coerceValue(record[i]))
			} else {
				row.Set(col, table.Missing())
			}
		}
		tbl.Append(row)
	}

	return tbl, nil
}

// coerceValue tags a raw cell: day-month-year dates and plain numbers get
// typed values, everything else stays text. Date cells render back in the
// engine's day-month-year layout, so downstream due-date parsing sees the
// same string either way.
func coerceValue(s string) table.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return table.Text(s)
	}
	if t, ok := analysis.ParseDueDate(trimmed); ok {
		return table.Date(t)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return table.Number(f)
	}
	return table.Text(s)
}
