package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetjobs/internal/analysis"
)

func TestProcessBatch(t *testing.T) {
	ing := NewIngester(nil, 2)

	files := []SourceFile{
		{
			Name: "VesselA_01012024.csv",
			Data: []byte("Vessel Name,Job Status,Calculated Due Date\nAurora,New,\nAurora,Pending,01-12-2023\n"),
		},
		{
			Name: "VesselB_15032024.csv",
			Data: []byte("Vessel Name,Job Status,Calculated Due Date\nBorealis,Pending,15-03-2024\n"),
		},
	}

	result, err := ing.Process(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, result.Summaries, 2)

	assert.Equal(t, "Aurora", result.Summaries[0].VesselName)
	assert.Equal(t, 2, result.Summaries[0].TotalJobs)
	assert.Equal(t, 1, result.Summaries[0].NewJobs)
	assert.Equal(t, "Borealis", result.Summaries[1].VesselName)

	require.Equal(t, 3, result.Combined.Len())
	assert.Equal(t, "VesselA_01012024.csv", result.Combined.Rows[0].SourceKey)
	assert.Equal(t, "VesselB_15032024.csv", result.Combined.Rows[2].SourceKey)
}

func TestProcessDegradesFailedFiles(t *testing.T) {
	ing := NewIngester(nil, 1)

	files := []SourceFile{
		{Name: "unreadable.csv", Err: errors.New("disk error")},
		{Name: "empty.csv", Data: []byte("")},
		{Name: "good_01012024.csv", Data: []byte("Vessel Name,Job Status\nAurora,New\n")},
	}

	result, err := ing.Process(context.Background(), files)
	require.NoError(t, err, "a bad file never fails the batch")
	require.Len(t, result.Summaries, 3)

	assert.True(t, result.Summaries[0].Failed)
	assert.Equal(t, analysis.ErrorMarker, result.Summaries[0].VesselName)
	assert.True(t, result.Summaries[1].Failed, "empty CSV is a parse failure")
	assert.False(t, result.Summaries[2].Failed)

	assert.Equal(t, 1, result.Combined.Len(), "failed files contribute no rows")
}

func TestProcessCanceledContext(t *testing.T) {
	ing := NewIngester(nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Process(ctx, []SourceFile{
		{Name: "a.csv", Data: []byte("Vessel Name\nAurora\n")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessEmptyBatch(t *testing.T) {
	ing := NewIngester(nil, 0)

	result, err := ing.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Summaries)
	assert.Equal(t, 0, result.Combined.Len())
}
