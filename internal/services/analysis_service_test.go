package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fleetjobs/internal/analysis"
	"fleetjobs/internal/config"
	"fleetjobs/internal/exporter"
	"fleetjobs/internal/ingest"
)

var testClock = func() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		MaxUploadBytes:     1 << 20,
		MaxUploadFiles:     10,
		Workers:            2,
		HighlightThreshold: 3,
	}
}

func testBatch() []ingest.SourceFile {
	return []ingest.SourceFile{
		{
			Name: "VesselA_01012024.csv",
			Data: []byte(",Vessel Name,Job Status,Calculated Due Date\n" +
				",Aurora,Pending,01-12-2023\n" +
				",Aurora,Completed,01-12-2023\n" +
				",Aurora,New,15-06-2024\n"),
		},
		{
			Name: "VesselB_15032024.csv",
			Data: []byte(",Vessel Name,Job Status,Calculated Due Date\n" +
				"C,Borealis,In Progress On Board,15-03-2024\n"),
		},
	}
}

func TestAnalyzePipeline(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	svc := NewAnalysisService(nil, testConfig(), testClock, metrics)

	report, err := svc.Analyze(context.Background(), testBatch())
	require.NoError(t, err)

	require.Len(t, report.Summaries, 2)
	assert.Equal(t, "Aurora", report.Summaries[0].VesselName)
	assert.Equal(t, 3, report.Summaries[0].TotalJobs)
	assert.Equal(t, 1, report.Summaries[0].NewJobs)
	assert.Equal(t, "01-01-2024", report.Summaries[0].ExtractedDate)

	require.True(t, report.Analysis.Available())
	assert.Equal(t, 4, report.Analysis.TotalJobs)
	assert.Equal(t, 2, report.Analysis.OverdueCount)
	assert.Equal(t, 1, report.Analysis.CriticalCount)
	assert.InDelta(t, 50, report.Analysis.OverduePercent, 0.001)
	assert.InDelta(t, 25, report.Analysis.CriticalPercent, 0.001)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "1", report.Rows[0].OverdueJobs)
	assert.Equal(t, "0", report.Rows[0].CriticalOverdue)
	assert.Equal(t, "33.33%", report.Rows[0].OverduePercent)
	assert.Equal(t, "100.0%", report.Rows[1].OverduePercent)
	assert.Equal(t, "100.0%", report.Rows[1].CriticalPercent)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.FilesProcessed))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.RowsClassified))
}

func TestAnalyzeWithoutOverdueColumns(t *testing.T) {
	svc := NewAnalysisService(nil, testConfig(), testClock, nil)

	files := []ingest.SourceFile{
		{Name: "a.csv", Data: []byte("Vessel Name,Job Status\nAurora,New\n")},
	}

	report, err := svc.Analyze(context.Background(), files)
	require.NoError(t, err)

	assert.False(t, report.Analysis.Available())
	assert.NotEmpty(t, report.Analysis.Notice)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, analysis.Unresolved, report.Rows[0].OverdueJobs, "no analysis renders as the marker, not zero")
}

func TestSeriesPipeline(t *testing.T) {
	svc := NewAnalysisService(nil, testConfig(), testClock, nil)

	series, err := svc.Series(context.Background(), testBatch())
	require.NoError(t, err)

	require.True(t, series.Distribution.HasOverdue)
	require.Len(t, series.Distribution.Labels, 2)
	assert.Equal(t, "Aurora - VesselA_01012024.csv", series.Distribution.Labels[0])
	assert.Equal(t, []int{1, 1}, series.Distribution.OverdueJobs)

	require.Len(t, series.Timeline, 2)
	assert.Equal(t, "01-01-2024", series.Timeline[0].Date)

	require.Len(t, series.Breakdown, 4)
	assert.Equal(t, "Critical Overdue", series.Breakdown[2].Label)
}

func TestExportExcelPipeline(t *testing.T) {
	svc := NewAnalysisService(nil, testConfig(), testClock, nil)

	data, name, err := svc.ExportExcel(context.Background(), testBatch())
	require.NoError(t, err)
	assert.Equal(t, "Job_Status_Report_with_Overdue_20240601_120000.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	percent, err := f.GetCellValue(exporter.SheetName, "H3")
	require.NoError(t, err)
	assert.Equal(t, "100.0%", percent)
}

func TestExportExcelNameWithoutOverdue(t *testing.T) {
	svc := NewAnalysisService(nil, testConfig(), testClock, nil)

	files := []ingest.SourceFile{
		{Name: "a_01012024.csv", Data: []byte("Vessel Name,Job Status,Calculated Due Date\nAurora,Completed,01-12-2023\n")},
	}

	_, name, err := svc.ExportExcel(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, "Job_Status_Report_20240601_120000.xlsx", name)
}
