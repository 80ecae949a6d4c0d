package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"fleetjobs/internal/table"
)

// Column names required for overdue analysis. Header names are trimmed at
// load, so exact comparison is safe here.
const (
	DueDateColumn = "Calculated Due Date"
	StatusColumn  = "Job Status"
	// FileNameColumn is the grouping fallback when rows carry no source key.
	FileNameColumn = "File Name"
	// EntireDataset is the synthetic group key when no file identity exists.
	EntireDataset = "Entire Dataset"
)

// overdueStatuses are the job statuses that can classify as overdue, compared
// trimmed and case-folded.
var overdueStatuses = map[string]bool{
	"pending":              true,
	"in progress on board": true,
}

// criticalValues are the criticality-column values treated as truthy, compared
// trimmed and case-folded.
var criticalValues = map[string]bool{
	"c":        true,
	"critical": true,
	"high":     true,
	"yes":      true,
	"true":     true,
}

// Classifier computes overdue and critical-overdue classifications over a
// combined row set. The clock is injected: "today" is only ever the fallback
// when a group key carries no date token.
type Classifier struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewClassifier creates a classifier. A nil clock defaults to time.Now.
func NewClassifier(logger *slog.Logger, clock func() time.Time) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Classifier{logger: logger, now: clock}
}

// Classify runs the overdue analysis over the combined rows of an upload
// batch. It must see all rows at once, not per-file slices: aggregate
// percentages come from summed counts.
//
// When the table lacks the due-date or status column the empty Analysis is
// returned with a notice; that state means "no analysis possible" and callers
// render it distinctly from zero overdue jobs. Any unexpected failure inside
// classification degrades to the same shape instead of propagating, so a
// malformed batch can never crash the consuming pipeline.
func (c *Classifier) Classify(ctx context.Context, tbl *table.Table) (result *Analysis) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.ErrorContext(ctx, "classification failed, degrading to empty analysis",
				slog.Any("panic", rec))
			result = &Analysis{Notice: fmt.Sprintf("overdue analysis failed: %v", rec)}
		}
	}()

	if tbl == nil || !tbl.HasColumn(DueDateColumn) || !tbl.HasColumn(StatusColumn) {
		c.logger.InfoContext(ctx, "required columns absent, overdue analysis not possible",
			slog.Bool("has_due_date", tbl != nil && tbl.HasColumn(DueDateColumn)),
			slog.Bool("has_status", tbl != nil && tbl.HasColumn(StatusColumn)))
		return &Analysis{Notice: "required columns 'Calculated Due Date' and 'Job Status' not found"}
	}

	criticalCol, criticalMode := c.resolveCriticalityColumn(tbl)
	groups, order := c.groupRows(tbl)
	today := c.now()

	result = &Analysis{}
	for _, key := range order {
		rows := groups[key]
		fr := c.classifyGroup(ctx, key, rows, criticalCol, criticalMode, today)
		result.FileResults = append(result.FileResults, fr)

		result.TotalJobs += fr.TotalJobs
		result.OverdueCount += fr.OverdueCount
		result.CriticalCount += fr.CriticalCount
		result.OverdueRows = append(result.OverdueRows, fr.OverdueRows...)
		result.CriticalRows = append(result.CriticalRows, fr.CriticalRows...)
	}

	result.OverduePercent = percent(result.OverdueCount, result.TotalJobs)
	result.CriticalPercent = percent(result.CriticalCount, result.TotalJobs)

	c.logger.InfoContext(ctx, "overdue analysis complete",
		slog.Int("groups", len(result.FileResults)),
		slog.Int("total_jobs", result.TotalJobs),
		slog.Int("overdue", result.OverdueCount),
		slog.Int("critical", result.CriticalCount))

	return result
}

type criticalityMode int

const (
	criticalityNone criticalityMode = iota
	// criticalityUnnamed flags rows whose header-less first column equals "c".
	criticalityUnnamed
	// criticalityNamed flags rows whose critical/priority column holds a
	// truthy value.
	criticalityNamed
)

func (c *Classifier) resolveCriticalityColumn(tbl *table.Table) (string, criticalityMode) {
	if col, ok := tbl.UnnamedFirstColumn(); ok {
		return col, criticalityUnnamed
	}
	if col, ok := tbl.FindColumnAny("critical", "priority"); ok {
		return col, criticalityNamed
	}
	return "", criticalityNone
}

// groupRows partitions rows by source key in priority order: the per-row
// source tag attached at ingestion, then a "File Name" column, then a single
// synthetic group. Group order follows first appearance for deterministic
// output.
func (c *Classifier) groupRows(tbl *table.Table) (map[string][]table.Row, []string) {
	groups := make(map[string][]table.Row)
	var order []string

	add := func(key string, row table.Row) {
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	tagged := false
	for _, row := range tbl.Rows {
		if row.SourceKey != "" {
			tagged = true
			break
		}
	}

	switch {
	case tagged:
		for _, row := range tbl.Rows {
			add(row.SourceKey, row)
		}
	case tbl.HasColumn(FileNameColumn):
		for _, row := range tbl.Rows {
			add(row.Get(FileNameColumn).String(), row)
		}
	default:
		for _, row := range tbl.Rows {
			add(EntireDataset, row)
		}
	}

	return groups, order
}

func (c *Classifier) classifyGroup(ctx context.Context, key string, rows []table.Row, criticalCol string, mode criticalityMode, today time.Time) FileResult {
	effective := ExtractDate(baseName(key), today, c.logger)

	fr := FileResult{
		SourceKey:     key,
		EffectiveDate: effective,
		TotalJobs:     len(rows),
	}

	for _, row := range rows {
		if !c.isOverdue(row, effective) {
			continue
		}
		fr.OverdueCount++
		fr.OverdueRows = append(fr.OverdueRows, row)

		if c.isCritical(row, criticalCol, mode) {
			fr.CriticalCount++
			fr.CriticalRows = append(fr.CriticalRows, row)
		}
	}

	fr.OverduePercent = percent(fr.OverdueCount, fr.TotalJobs)
	fr.CriticalPercent = percent(fr.CriticalCount, fr.TotalJobs)

	c.logger.DebugContext(ctx, "classified group",
		slog.String("source_key", key),
		slog.Time("effective_date", effective),
		slog.Int("total", fr.TotalJobs),
		slog.Int("overdue", fr.OverdueCount),
		slog.Int("critical", fr.CriticalCount))

	return fr
}

// isOverdue applies the overdue predicate: due date present, due <= effective,
// and an actionable status. Unparseable due dates are missing values and the
// comparison against them is false.
func (c *Classifier) isOverdue(row table.Row, effective time.Time) bool {
	due, ok := ParseDueDate(row.Get(DueDateColumn).String())
	if !ok {
		return false
	}
	if due.After(effective) {
		return false
	}
	status := strings.ToLower(strings.TrimSpace(row.Get(StatusColumn).String()))
	return overdueStatuses[status]
}

func (c *Classifier) isCritical(row table.Row, criticalCol string, mode criticalityMode) bool {
	value := strings.ToLower(strings.TrimSpace(row.Get(criticalCol).String()))
	switch mode {
	case criticalityUnnamed:
		return value == "c"
	case criticalityNamed:
		return criticalValues[value]
	default:
		return false
	}
}

// percent computes count/total as a percentage rounded to two decimals, zero
// when total is zero.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
