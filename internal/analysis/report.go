package analysis

import (
	"strconv"
	"strings"
)

// FormatPercent renders a percentage for tables and export as text with a
// trailing percent sign, trimming insignificant zeros but keeping one decimal:
// 100 -> "100.0%", 33.33 -> "33.33%", 12.5 -> "12.5%".
func FormatPercent(p float64) string {
	s := strconv.FormatFloat(p, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s + "%"
}

// ReportRow is the reconciled per-display-row view consumed by tables and the
// Excel export: one file summary joined with its classification result. Count
// fields are display strings so the error marker of failed files and the
// unresolved marker of unmatched rows survive into the output unchanged.
type ReportRow struct {
	Date            string `json:"date" csv:"Date Extracted from File Name"`
	FileName        string `json:"file_name" csv:"File Name"`
	VesselName      string `json:"vessel_name" csv:"Vessel Name"`
	TotalJobs       string `json:"total_jobs" csv:"Total Count of Jobs"`
	NewJobs         string `json:"new_jobs" csv:"New Job Count"`
	OverdueJobs     string `json:"overdue_jobs" csv:"Overdue Jobs"`
	CriticalOverdue string `json:"critical_overdue" csv:"Critical Overdue"`
	OverduePercent  string `json:"overdue_percent" csv:"Overdue %"`
	CriticalPercent string `json:"critical_percent" csv:"Critical %"`
	MatchTier       string `json:"match_tier,omitempty" csv:"-"`
}

// BuildReportRows joins file summaries with the analysis through the
// reconciler, one row per summary in upload order. When the analysis is
// unavailable every overdue field carries the unresolved marker; rows that
// cannot be matched to any classification group do too, so "could not match"
// is never rendered as zero.
func BuildReportRows(summaries []FileSummary, a *Analysis) []ReportRow {
	var rec *Reconciler
	if a.Available() {
		rec = NewReconciler(a.FileResults)
	}

	rows := make([]ReportRow, 0, len(summaries))
	for _, summary := range summaries {
		row := ReportRow{
			Date:            summary.ExtractedDate,
			FileName:        summary.FileName,
			VesselName:      summary.VesselName,
			TotalJobs:       summary.TotalJobsDisplay(),
			NewJobs:         summary.NewJobsDisplay(),
			OverdueJobs:     Unresolved,
			CriticalOverdue: Unresolved,
			OverduePercent:  Unresolved,
			CriticalPercent: Unresolved,
			MatchTier:       TierUnresolved.String(),
		}

		if rec != nil {
			if res := rec.Resolve(summary.FileName); res.Resolved() {
				row.OverdueJobs = strconv.Itoa(res.Result.OverdueCount)
				row.CriticalOverdue = strconv.Itoa(res.Result.CriticalCount)
				row.OverduePercent = FormatPercent(res.Result.OverduePercent)
				row.CriticalPercent = FormatPercent(res.Result.CriticalPercent)
				row.MatchTier = res.Tier.String()
			}
		}

		rows = append(rows, row)
	}
	return rows
}
