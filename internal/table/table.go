// Package table provides a typed abstraction over loosely structured tabular
// data. Uploaded CSV exports carry arbitrary column sets, so cells are tagged
// values and column lookup is fuzzy (case-insensitive substring on the header
// name). All header-matching logic lives here so every consumer resolves
// columns the same way.
package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindDate
)

// Value is a single tagged cell value.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{Kind: KindMissing}
}

// Text creates a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Number creates a numeric value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// Date creates a date value.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// String renders the value for display. Missing values render empty; dates
// use the day-month-year convention shared across the engine.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindDate:
		return v.Date.Format("02-01-2006")
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Row is one record of a table. SourceKey identifies the originating file and
// is attached at ingestion; it stays with the row through grouping, analysis
// and export.
type Row struct {
	SourceKey string
	cells     map[string]Value
}

// NewRow creates a row with the given source key.
func NewRow(sourceKey string) Row {
	return Row{SourceKey: sourceKey, cells: make(map[string]Value)}
}

// Set stores a cell under the trimmed column name.
func (r Row) Set(column string, v Value) {
	r.cells[strings.TrimSpace(column)] = v
}

// Get returns the cell for a column, or the missing marker.
func (r Row) Get(column string) Value {
	if v, ok := r.cells[column]; ok {
		return v
	}
	return Missing()
}

// Table is an ordered set of columns plus rows. Column names are trimmed at
// load time; order is preserved from the source.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given (already trimmed) columns.
func New(columns []string) *Table {
	trimmed := make([]string, len(columns))
	for i, c := range columns {
		trimmed[i] = strings.TrimSpace(c)
	}
	return &Table{Columns: trimmed}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether a column with the exact (trimmed) name exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// FindColumn returns the first column whose name contains the given substring,
// case-insensitively. This is the single fuzzy header lookup used for vessel,
// status and criticality columns.
func (t *Table) FindColumn(substr string) (string, bool) {
	needle := strings.ToLower(substr)
	for _, c := range t.Columns {
		if strings.Contains(strings.ToLower(c), needle) {
			return c, true
		}
	}
	return "", false
}

// FindColumnAny returns the first column matching any of the substrings, in
// column order.
func (t *Table) FindColumnAny(substrs ...string) (string, bool) {
	for _, c := range t.Columns {
		lower := strings.ToLower(c)
		for _, s := range substrs {
			if strings.Contains(lower, strings.ToLower(s)) {
				return c, true
			}
		}
	}
	return "", false
}

// UnnamedFirstColumn returns the name of the first column when its header is
// empty. Some exports carry the criticality flag in a header-less leading
// column.
func (t *Table) UnnamedFirstColumn() (string, bool) {
	if len(t.Columns) > 0 && t.Columns[0] == "" {
		return t.Columns[0], true
	}
	return "", false
}

// Append adds a row to the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Concat merges tables into one, unioning columns in first-seen order. Rows
// keep their cells and source keys; cells absent from a source table read as
// missing.
func Concat(tables ...*Table) *Table {
	merged := &Table{}
	seen := make(map[string]bool)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				merged.Columns = append(merged.Columns, c)
			}
		}
		merged.Rows = append(merged.Rows, t.Rows...)
	}
	return merged
}
