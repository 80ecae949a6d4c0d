package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fleetjobs/internal/errors"
	"fleetjobs/internal/table"
)

func TestReadCSV(t *testing.T) {
	data := strings.Join([]string{
		" Vessel Name ,Job Status,Calculated Due Date",
		"Aurora,New,",
		"Aurora,Pending,01-12-2023",
		"Aurora,Completed",
	}, "\n")

	tbl, err := ReadCSV(strings.NewReader(data), "VesselA_01012024.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Vessel Name", "Job Status", "Calculated Due Date"}, tbl.Columns, "header names are trimmed")
	require.Equal(t, 3, tbl.Len())

	assert.Equal(t, "VesselA_01012024.csv", tbl.Rows[0].SourceKey)
	assert.Equal(t, "Aurora", tbl.Rows[0].Get("Vessel Name").String())
	assert.Equal(t, "01-12-2023", tbl.Rows[1].Get("Calculated Due Date").String())
	assert.True(t, tbl.Rows[2].Get("Calculated Due Date").IsMissing(), "short rows read as missing")
}

func TestReadCSVCoercesCellKinds(t *testing.T) {
	data := strings.Join([]string{
		"Vessel Name,Calculated Due Date,Hours",
		"Aurora,15/03/2024,120.5",
		"Aurora,not a date,n/a",
	}, "\n")

	tbl, err := ReadCSV(strings.NewReader(data), "a.csv")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	due := tbl.Rows[0].Get("Calculated Due Date")
	assert.Equal(t, table.KindDate, due.Kind)
	assert.Equal(t, "15-03-2024", due.String(), "date cells normalize to the day-month-year layout")

	hours := tbl.Rows[0].Get("Hours")
	assert.Equal(t, table.KindNumber, hours.Kind)
	assert.Equal(t, "120.5", hours.String())

	assert.Equal(t, table.KindText, tbl.Rows[1].Get("Calculated Due Date").Kind)
	assert.Equal(t, table.KindText, tbl.Rows[1].Get("Hours").Kind)
	assert.Equal(t, table.KindText, tbl.Rows[0].Get("Vessel Name").Kind)
}

func TestReadCSVEmptyFile(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Vessel Name,Job Status\n"), "a.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}
