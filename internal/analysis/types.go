package analysis

import (
	"strconv"
	"time"

	"fleetjobs/internal/table"
)

// ErrorMarker is rendered in place of numeric fields for files that failed to
// read or parse. A bad file degrades to this marker instead of aborting the
// batch.
const ErrorMarker = "Error"

// Unresolved is rendered for display rows that could not be matched to any
// classification group. It is distinct from a zero-count match.
const Unresolved = "N/A"

// FileSummary is the one-record-per-file view: vessel, counts and the date
// extracted from the file name.
type FileSummary struct {
	FileName      string `json:"file_name"`
	VesselName    string `json:"vessel_name"`
	TotalJobs     int    `json:"total_jobs"`
	NewJobs       int    `json:"new_jobs"`
	ExtractedDate string `json:"extracted_date"`
	Failed        bool   `json:"failed,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// TotalJobsDisplay renders the total count, or the error marker for failed
// files.
func (s FileSummary) TotalJobsDisplay() string {
	if s.Failed {
		return ErrorMarker
	}
	return strconv.Itoa(s.TotalJobs)
}

// NewJobsDisplay renders the new-job count, or the error marker for failed
// files.
func (s FileSummary) NewJobsDisplay() string {
	if s.Failed {
		return ErrorMarker
	}
	return strconv.Itoa(s.NewJobs)
}

// FileResult holds the overdue classification for one source-key group.
type FileResult struct {
	SourceKey       string      `json:"file_name"`
	EffectiveDate   time.Time   `json:"effective_date"`
	TotalJobs       int         `json:"total_jobs"`
	OverdueCount    int         `json:"overdue_jobs_count"`
	OverduePercent  float64     `json:"overdue_jobs_percentage"`
	CriticalCount   int         `json:"critical_overdue_jobs_count"`
	CriticalPercent float64     `json:"critical_overdue_jobs_percentage"`
	OverdueRows     []table.Row `json:"-"`
	CriticalRows    []table.Row `json:"-"`
}

// Analysis is the aggregate classification over one upload batch. Aggregate
// percentages are recomputed from the summed counts, never averaged across
// groups, so small groups carry no extra weight.
type Analysis struct {
	FileResults     []FileResult `json:"file_results"`
	TotalJobs       int          `json:"total_jobs"`
	OverdueCount    int          `json:"overdue_jobs_count"`
	OverduePercent  float64      `json:"overdue_jobs_percentage"`
	CriticalCount   int          `json:"critical_overdue_jobs_count"`
	CriticalPercent float64      `json:"critical_overdue_jobs_percentage"`
	OverdueRows     []table.Row  `json:"-"`
	CriticalRows    []table.Row  `json:"-"`

	// Notice carries the reason when classification degraded to the empty
	// shape (missing required columns or an internal failure). Callers render
	// this state distinctly from "zero overdue found".
	Notice string `json:"notice,omitempty"`
}

// Available reports whether overdue analysis was possible for the batch.
func (a *Analysis) Available() bool {
	return a != nil && len(a.FileResults) > 0
}
