package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "text", value: Text("Pending"), expected: "Pending"},
		{name: "number trims trailing zeros", value: Number(42), expected: "42"},
		{name: "number with fraction", value: Number(3.5), expected: "3.5"},
		{name: "date", value: Date(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)), expected: "15-03-2024"},
		{name: "missing renders empty", value: Missing(), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestRowGetMissingColumn(t *testing.T) {
	row := NewRow("a.csv")
	row.Set(" Job Status ", Text("New"))

	assert.Equal(t, "New", row.Get("Job Status").String(), "column names are trimmed on set")
	assert.True(t, row.Get("Nonexistent").IsMissing())
}

func TestFindColumn(t *testing.T) {
	tbl := New([]string{"", "Vessel Name", "Job Status", "Calculated Due Date"})

	tests := []struct {
		name     string
		substr   string
		expected string
		found    bool
	}{
		{name: "case-insensitive substring", substr: "vessel", expected: "Vessel Name", found: true},
		{name: "partial header", substr: "due date", expected: "Calculated Due Date", found: true},
		{name: "no match", substr: "priority", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := tbl.FindColumn(tt.substr)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, col)
		})
	}
}

func TestFindColumnAnyPrefersColumnOrder(t *testing.T) {
	tbl := New([]string{"Priority Level", "Critical Flag"})

	col, ok := tbl.FindColumnAny("critical", "priority")
	require.True(t, ok)
	assert.Equal(t, "Priority Level", col, "first matching column wins, not first substring")
}

func TestUnnamedFirstColumn(t *testing.T) {
	withUnnamed := New([]string{"  ", "Vessel Name"})
	col, ok := withUnnamed.UnnamedFirstColumn()
	require.True(t, ok, "whitespace-only header counts as unnamed after trimming")
	assert.Equal(t, "", col)

	named := New([]string{"Flag", "Vessel Name"})
	_, ok = named.UnnamedFirstColumn()
	assert.False(t, ok)
}

func TestConcatUnionsColumns(t *testing.T) {
	a := New([]string{"Vessel Name", "Job Status"})
	rowA := NewRow("a.csv")
	rowA.Set("Vessel Name", Text("Aurora"))
	rowA.Set("Job Status", Text("New"))
	a.Append(rowA)

	b := New([]string{"Job Status", "Calculated Due Date"})
	rowB := NewRow("b.csv")
	rowB.Set("Job Status", Text("Pending"))
	rowB.Set("Calculated Due Date", Text("01-01-2024"))
	b.Append(rowB)

	merged := Concat(a, nil, b)

	assert.Equal(t, []string{"Vessel Name", "Job Status", "Calculated Due Date"}, merged.Columns)
	require.Equal(t, 2, merged.Len())

	assert.Equal(t, "a.csv", merged.Rows[0].SourceKey, "rows keep their source keys")
	assert.True(t, merged.Rows[0].Get("Calculated Due Date").IsMissing(), "cells absent from a source read as missing")
	assert.Equal(t, "Pending", merged.Rows[1].Get("Job Status").String())
}

func TestConcatEmpty(t *testing.T) {
	merged := Concat()
	assert.Equal(t, 0, merged.Len())
	assert.Empty(t, merged.Columns)
}
