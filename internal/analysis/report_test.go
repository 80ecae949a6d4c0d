package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportRows(t *testing.T) {
	summaries := []FileSummary{
		{FileName: "VesselA_01012024.csv", VesselName: "Aurora", TotalJobs: 3, NewJobs: 1, ExtractedDate: "01-01-2024"},
		{FileName: "broken.csv", VesselName: ErrorMarker, ExtractedDate: UnknownDate, Failed: true, FailureReason: "read failed"},
		{FileName: "orphan.csv", VesselName: "Castor", TotalJobs: 2, ExtractedDate: UnknownDate},
	}
	a := &Analysis{
		FileResults: []FileResult{
			{
				SourceKey:       "VesselA_01012024.csv",
				EffectiveDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				TotalJobs:       3,
				OverdueCount:    1,
				OverduePercent:  33.33,
				CriticalCount:   0,
				CriticalPercent: 0,
			},
		},
	}

	rows := BuildReportRows(summaries, a)
	require.Len(t, rows, 3)

	matched := rows[0]
	assert.Equal(t, "01-01-2024", matched.Date)
	assert.Equal(t, "Aurora", matched.VesselName)
	assert.Equal(t, "3", matched.TotalJobs)
	assert.Equal(t, "1", matched.NewJobs)
	assert.Equal(t, "1", matched.OverdueJobs)
	assert.Equal(t, "0", matched.CriticalOverdue)
	assert.Equal(t, "33.33%", matched.OverduePercent)
	assert.Equal(t, "0.0%", matched.CriticalPercent)
	assert.Equal(t, "exact", matched.MatchTier)

	failed := rows[1]
	assert.Equal(t, ErrorMarker, failed.TotalJobs)
	assert.Equal(t, ErrorMarker, failed.NewJobs)
	assert.Equal(t, Unresolved, failed.OverdueJobs, "failed files never resolve to counts")

	orphan := rows[2]
	assert.Equal(t, "2", orphan.TotalJobs)
	assert.Equal(t, Unresolved, orphan.OverdueJobs, "unmatched rows carry the marker, never zero")
	assert.Equal(t, Unresolved, orphan.OverduePercent)
	assert.Equal(t, "unresolved", orphan.MatchTier)
}

func TestBuildReportRowsWithoutAnalysis(t *testing.T) {
	summaries := []FileSummary{
		{FileName: "a.csv", VesselName: "Aurora", TotalJobs: 2, ExtractedDate: UnknownDate},
	}
	a := &Analysis{Notice: "required columns not found"}

	rows := BuildReportRows(summaries, a)
	require.Len(t, rows, 1)

	assert.Equal(t, "2", rows[0].TotalJobs)
	assert.Equal(t, Unresolved, rows[0].OverdueJobs)
	assert.Equal(t, Unresolved, rows[0].CriticalPercent)
}
