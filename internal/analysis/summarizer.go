package analysis

import (
	"log/slog"
	"strings"

	"fleetjobs/internal/table"
)

// VesselColumnMissing is reported as the vessel name when no header contains
// "vessel".
const VesselColumnMissing = "Vessel column not found"

// Summarizer turns one raw table into a FileSummary.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a file summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize builds the summary record for a single file. The vessel and
// status columns are located by case-insensitive substring match on the
// header name; the new-job count matches the trimmed status against "New"
// exactly, as the source systems emit it.
func (s *Summarizer) Summarize(tbl *table.Table, fileName string) FileSummary {
	summary := FileSummary{
		FileName:      fileName,
		ExtractedDate: ExtractDateLabel(fileName),
	}

	vesselCol, ok := tbl.FindColumn("vessel")
	if !ok {
		summary.VesselName = VesselColumnMissing
	} else if tbl.Len() > 0 {
		summary.VesselName = tbl.Rows[0].Get(vesselCol).String()
	}

	summary.TotalJobs = tbl.Len()

	if statusCol, ok := tbl.FindColumn("status"); ok {
		for _, row := range tbl.Rows {
			if strings.TrimSpace(row.Get(statusCol).String()) == "New" {
				summary.NewJobs++
			}
		}
	}

	s.logger.Debug("summarized file",
		slog.String("file", fileName),
		slog.String("vessel", summary.VesselName),
		slog.Int("total_jobs", summary.TotalJobs),
		slog.Int("new_jobs", summary.NewJobs))

	return summary
}

// SummarizeFailure builds the error-marker summary for a file that could not
// be read or parsed. The failure stays visible to the caller; sibling files
// keep processing.
func (s *Summarizer) SummarizeFailure(fileName string, err error) FileSummary {
	s.logger.Warn("file failed to read, summary degraded to error marker",
		slog.String("file", fileName),
		slog.String("error", err.Error()))
	return FileSummary{
		FileName:      fileName,
		VesselName:    ErrorMarker,
		ExtractedDate: ExtractDateLabel(fileName),
		Failed:        true,
		FailureReason: err.Error(),
	}
}
