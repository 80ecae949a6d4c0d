package analysis

import (
	"fmt"
	"sort"
	"time"
)

// DistributionSeries is the per-file chart data: one label per vessel-file
// combination with the corresponding counts, ordered by extracted date.
// Overdue slices are populated only when the analysis was available; rows that
// did not reconcile contribute zero to charts (tables keep the explicit
// unresolved marker, charts cannot plot it).
type DistributionSeries struct {
	Labels       []string `json:"labels"`
	TotalJobs    []int    `json:"total_jobs"`
	NewJobs      []int    `json:"new_jobs"`
	OverdueJobs  []int    `json:"overdue_jobs,omitempty"`
	CriticalJobs []int    `json:"critical_jobs,omitempty"`
	HasOverdue   bool     `json:"has_overdue"`
}

// TimelinePoint is one date on the jobs-over-time series, summing counts of
// every file that carries that extracted date.
type TimelinePoint struct {
	Date         string `json:"date"`
	TotalJobs    int    `json:"total_jobs"`
	NewJobs      int    `json:"new_jobs"`
	OverdueJobs  int    `json:"overdue_jobs"`
	CriticalJobs int    `json:"critical_jobs"`
}

// BreakdownSlice is one slice of the status breakdown.
type BreakdownSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// BuildDistribution produces the per-file distribution series from summaries
// and the analysis. Failed summaries are skipped: their counts are unknown.
func BuildDistribution(summaries []FileSummary, a *Analysis) DistributionSeries {
	ordered := sortByExtractedDate(summaries)

	var rec *Reconciler
	if a.Available() {
		rec = NewReconciler(a.FileResults)
	}

	series := DistributionSeries{HasOverdue: rec != nil}
	for _, s := range ordered {
		if s.Failed {
			continue
		}
		series.Labels = append(series.Labels, fmt.Sprintf("%s - %s", s.VesselName, s.FileName))
		series.TotalJobs = append(series.TotalJobs, s.TotalJobs)
		series.NewJobs = append(series.NewJobs, s.NewJobs)
		if rec == nil {
			continue
		}
		var overdue, critical int
		if res := rec.Resolve(s.FileName); res.Resolved() {
			overdue = res.Result.OverdueCount
			critical = res.Result.CriticalCount
		}
		series.OverdueJobs = append(series.OverdueJobs, overdue)
		series.CriticalJobs = append(series.CriticalJobs, critical)
	}
	return series
}

// BuildTimeline aggregates summaries by extracted date, in chronological
// order. Files without a date token carry no position on a time axis and are
// omitted.
func BuildTimeline(summaries []FileSummary, a *Analysis) []TimelinePoint {
	var rec *Reconciler
	if a.Available() {
		rec = NewReconciler(a.FileResults)
	}

	byDate := make(map[string]*TimelinePoint)
	for _, s := range summaries {
		if s.Failed {
			continue
		}
		if _, ok := parseDateLabel(s.ExtractedDate); !ok {
			continue
		}
		point, ok := byDate[s.ExtractedDate]
		if !ok {
			point = &TimelinePoint{Date: s.ExtractedDate}
			byDate[s.ExtractedDate] = point
		}
		point.TotalJobs += s.TotalJobs
		point.NewJobs += s.NewJobs
		if rec != nil {
			if res := rec.Resolve(s.FileName); res.Resolved() {
				point.OverdueJobs += res.Result.OverdueCount
				point.CriticalJobs += res.Result.CriticalCount
			}
		}
	}

	points := make([]TimelinePoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		a, _ := parseDateLabel(points[i].Date)
		b, _ := parseDateLabel(points[j].Date)
		return a.Before(b)
	})
	return points
}

// BuildStatusBreakdown produces the proportional view of job statuses across
// the batch. With overdue data the slices are new / overdue / critical /
// other; without it the view degenerates to new versus existing jobs.
func BuildStatusBreakdown(summaries []FileSummary, a *Analysis) []BreakdownSlice {
	var totalJobs, newJobs int
	for _, s := range summaries {
		if s.Failed {
			continue
		}
		totalJobs += s.TotalJobs
		newJobs += s.NewJobs
	}

	var overdue, critical int
	if a.Available() {
		rec := NewReconciler(a.FileResults)
		for _, s := range summaries {
			if s.Failed {
				continue
			}
			if res := rec.Resolve(s.FileName); res.Resolved() {
				overdue += res.Result.OverdueCount
				critical += res.Result.CriticalCount
			}
		}
	}

	if overdue > 0 {
		remaining := totalJobs - newJobs - overdue
		if remaining < 0 {
			remaining = 0
		}
		if critical > 0 {
			return []BreakdownSlice{
				{Label: "New Jobs", Value: newJobs},
				{Label: "Overdue Jobs", Value: overdue - critical},
				{Label: "Critical Overdue", Value: critical},
				{Label: "Other Jobs", Value: remaining},
			}
		}
		return []BreakdownSlice{
			{Label: "New Jobs", Value: newJobs},
			{Label: "Overdue Jobs", Value: overdue},
			{Label: "Other Jobs", Value: remaining},
		}
	}

	return []BreakdownSlice{
		{Label: "New Jobs", Value: newJobs},
		{Label: "Existing Jobs", Value: totalJobs - newJobs},
	}
}

func parseDateLabel(label string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, label)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sortByExtractedDate orders summaries chronologically by their extracted
// date label, keeping files without a date at the end in input order.
func sortByExtractedDate(summaries []FileSummary) []FileSummary {
	ordered := make([]FileSummary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, aok := parseDateLabel(ordered[i].ExtractedDate)
		b, bok := parseDateLabel(ordered[j].ExtractedDate)
		if aok && bok {
			return a.Before(b)
		}
		return aok && !bok
	})
	return ordered
}
