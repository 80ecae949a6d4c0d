// Package exporter renders analysis results as downloadable artifacts: a
// styled Excel workbook and a plain CSV summary.
package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"fleetjobs/internal/analysis"
)

// SheetName is the single data sheet of the exported workbook.
const SheetName = "Job Status Summary"

// TableName is the named table object laid over the data range.
const TableName = "JobSummaryTable"

type column struct {
	header string
	value  func(analysis.ReportRow) string
}

var baseColumns = []column{
	{"Date Extracted from File Name", func(r analysis.ReportRow) string { return r.Date }},
	{"File Name", func(r analysis.ReportRow) string { return r.FileName }},
	{"Vessel Name", func(r analysis.ReportRow) string { return r.VesselName }},
	{"Total Count of Jobs", func(r analysis.ReportRow) string { return r.TotalJobs }},
	{"New Job Count", func(r analysis.ReportRow) string { return r.NewJobs }},
}

var overdueColumns = []column{
	{"Overdue Jobs", func(r analysis.ReportRow) string { return r.OverdueJobs }},
	{"Critical Overdue", func(r analysis.ReportRow) string { return r.CriticalOverdue }},
	{"Overdue %", func(r analysis.ReportRow) string { return r.OverduePercent }},
	{"Critical %", func(r analysis.ReportRow) string { return r.CriticalPercent }},
}

// ExcelReporter builds the formatted workbook: styled header, banded rows, a
// named table over the data range, duplicate-vessel highlighting, and a rule
// flagging percent cells above the threshold.
type ExcelReporter struct {
	logger    *slog.Logger
	threshold float64
}

// NewExcelReporter creates an Excel reporter. The threshold is the
// percentage above which percent cells are flagged.
func NewExcelReporter(logger *slog.Logger, threshold float64) *ExcelReporter {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = 3
	}
	return &ExcelReporter{logger: logger, threshold: threshold}
}

// Build renders the workbook and returns its bytes. The overdue columns are
// emitted only when the batch produced an overdue analysis, matching the
// engine's partial-availability contract.
func (e *ExcelReporter) Build(rows []analysis.ReportRow, includeOverdue bool) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := baseColumns
	if includeOverdue {
		columns = append(append([]column{}, baseColumns...), overdueColumns...)
	}

	if err := e.writeCells(f, columns, rows); err != nil {
		return nil, err
	}
	if err := e.applyStyles(f, columns, rows); err != nil {
		return nil, err
	}
	if err := e.applyConditionalFormats(f, columns, len(rows), includeOverdue); err != nil {
		return nil, err
	}
	if err := e.sizeColumns(f, columns, rows); err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		stripes := true
		lastCell, _ := excelize.CoordinatesToCellName(len(columns), len(rows)+1)
		if err := f.AddTable(SheetName, &excelize.Table{
			Range:          fmt.Sprintf("A1:%s", lastCell),
			Name:           TableName,
			StyleName:      "TableStyleMedium2",
			ShowRowStripes: &stripes,
		}); err != nil {
			return nil, fmt.Errorf("failed to add table: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	e.logger.Debug("built excel report",
		slog.Int("rows", len(rows)),
		slog.Int("columns", len(columns)),
		slog.Bool("overdue_columns", includeOverdue))

	return buf.Bytes(), nil
}

func (e *ExcelReporter) writeCells(f *excelize.File, columns []column, rows []analysis.ReportRow) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.header
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(columns))
		for j, c := range columns {
			cells[j] = c.value(row)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write data row %d: %w", i+2, err)
		}
	}
	return nil
}

func (e *ExcelReporter) applyStyles(f *excelize.File, columns []column, rows []analysis.ReportRow) error {
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("failed to create data style: %w", err)
	}

	bandStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F0F0F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("failed to create band style: %w", err)
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, "A1", lastColumn+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i := range rows {
		sheetRow := i + 2
		style := dataStyle
		if sheetRow%2 == 0 {
			style = bandStyle
		}
		first, _ := excelize.CoordinatesToCellName(1, sheetRow)
		last, _ := excelize.CoordinatesToCellName(len(columns), sheetRow)
		if err := f.SetCellStyle(SheetName, first, last, style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", sheetRow, err)
		}
	}
	return nil
}

func (e *ExcelReporter) applyConditionalFormats(f *excelize.File, columns []column, rowCount int, includeOverdue bool) error {
	if rowCount == 0 {
		return nil
	}
	lastRow := rowCount + 1

	dupStyle, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFB266"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create duplicate-highlight style: %w", err)
	}

	if idx := columnIndex(columns, "Vessel Name"); idx > 0 {
		name, _ := excelize.ColumnNumberToName(idx)
		rangeRef := fmt.Sprintf("%s2:%s%d", name, name, lastRow)
		if err := f.SetConditionalFormat(SheetName, rangeRef, []excelize.ConditionalFormatOptions{
			{Type: "duplicate", Criteria: "=", Format: &dupStyle},
		}); err != nil {
			return fmt.Errorf("failed to add duplicate-vessel rule: %w", err)
		}
	}

	if !includeOverdue {
		return nil
	}

	alertStyle, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FF4B4B"}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
	})
	if err != nil {
		return fmt.Errorf("failed to create threshold style: %w", err)
	}

	threshold := strconv.FormatFloat(e.threshold, 'f', -1, 64)
	for _, header := range []string{"Overdue %", "Critical %"} {
		idx := columnIndex(columns, header)
		if idx == 0 {
			continue
		}
		name, _ := excelize.ColumnNumberToName(idx)
		// Percent cells are text like "25.5%": strip the sign, require the
		// remainder to be numeric, then compare against the threshold.
		criteria := fmt.Sprintf(
			`AND(ISNUMBER(VALUE(SUBSTITUTE(%s2,"%%",""))),VALUE(SUBSTITUTE(%s2,"%%",""))>%s)`,
			name, name, threshold)
		rangeRef := fmt.Sprintf("%s2:%s%d", name, name, lastRow)
		if err := f.SetConditionalFormat(SheetName, rangeRef, []excelize.ConditionalFormatOptions{
			{Type: "formula", Criteria: criteria, Format: &alertStyle},
		}); err != nil {
			return fmt.Errorf("failed to add threshold rule for %s: %w", header, err)
		}
	}
	return nil
}

func (e *ExcelReporter) sizeColumns(f *excelize.File, columns []column, rows []analysis.ReportRow) error {
	for i, c := range columns {
		width := len(c.header)
		for _, row := range rows {
			if l := len(c.value(row)); l > width {
				width = l
			}
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}
	return nil
}

// columnIndex returns the 1-based position of a header in the emitted column
// set, or 0 when absent.
func columnIndex(columns []column, header string) int {
	for i, c := range columns {
		if c.header == header {
			return i + 1
		}
	}
	return 0
}
