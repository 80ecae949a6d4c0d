// Package services orchestrates the analysis pipeline: ingestion,
// classification, reconciliation and export, behind interfaces the transport
// layer consumes.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fleetjobs/internal/analysis"
	"fleetjobs/internal/config"
	"fleetjobs/internal/errors"
	"fleetjobs/internal/exporter"
	"fleetjobs/internal/ingest"
)

// AnalysisReport is the full outcome of one upload batch: per-file summaries
// in upload order, the aggregate overdue analysis, and the reconciled
// per-file view that tables and exports consume.
type AnalysisReport struct {
	Summaries []analysis.FileSummary `json:"summaries"`
	Analysis  *analysis.Analysis     `json:"analysis"`
	Rows      []analysis.ReportRow   `json:"rows"`
}

// SeriesReport carries chart-ready data derived from one batch.
type SeriesReport struct {
	Distribution analysis.DistributionSeries `json:"distribution"`
	Timeline     []analysis.TimelinePoint    `json:"timeline"`
	Breakdown    []analysis.BreakdownSlice   `json:"breakdown"`
}

// AnalysisService runs the end-to-end pipeline. It is stateless across
// calls: every batch is analyzed from scratch and nothing persists.
type AnalysisService struct {
	logger     *slog.Logger
	ingester   *ingest.Ingester
	classifier *analysis.Classifier
	excel      *exporter.ExcelReporter
	clock      func() time.Time
	metrics    *Metrics
}

// NewAnalysisService creates the analysis service. A nil clock defaults to
// time.Now; tests inject a fixed clock for deterministic effective dates.
func NewAnalysisService(logger *slog.Logger, cfg config.AnalysisConfig, clock func() time.Time, metrics *Metrics) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &AnalysisService{
		logger:     logger.With(slog.String("component", "analysis_service")),
		ingester:   ingest.NewIngester(logger, cfg.Workers),
		classifier: analysis.NewClassifier(logger, clock),
		excel:      exporter.NewExcelReporter(logger, cfg.HighlightThreshold),
		clock:      clock,
		metrics:    metrics,
	}
}

// Analyze ingests the batch, classifies the combined rows once, and joins the
// results back onto the per-file summaries. Files that fail to read degrade
// to error-marker summaries; a batch with no usable overdue columns yields an
// analysis with a notice instead of counts.
func (s *AnalysisService) Analyze(ctx context.Context, files []ingest.SourceFile) (*AnalysisReport, error) {
	start := s.clock()

	batch, err := s.ingester.Process(ctx, files)
	if err != nil {
		return nil, errors.NewIngestionError("batch ingestion aborted", err)
	}

	result := s.classifier.Classify(ctx, batch.Combined)
	rows := analysis.BuildReportRows(batch.Summaries, result)

	if s.metrics != nil {
		s.metrics.FilesProcessed.Add(float64(len(files)))
		s.metrics.RowsClassified.Add(float64(batch.Combined.Len()))
		s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.InfoContext(ctx, "batch analyzed",
		slog.Int("files", len(files)),
		slog.Int("total_jobs", result.TotalJobs),
		slog.Int("overdue", result.OverdueCount),
		slog.Int("critical", result.CriticalCount))

	return &AnalysisReport{
		Summaries: batch.Summaries,
		Analysis:  result,
		Rows:      rows,
	}, nil
}

// Series analyzes the batch and derives chart-ready series from it.
func (s *AnalysisService) Series(ctx context.Context, files []ingest.SourceFile) (*SeriesReport, error) {
	report, err := s.Analyze(ctx, files)
	if err != nil {
		return nil, err
	}
	return &SeriesReport{
		Distribution: analysis.BuildDistribution(report.Summaries, report.Analysis),
		Timeline:     analysis.BuildTimeline(report.Summaries, report.Analysis),
		Breakdown:    analysis.BuildStatusBreakdown(report.Summaries, report.Analysis),
	}, nil
}

// ExportExcel analyzes the batch and renders the styled workbook. It returns
// the workbook bytes and a suggested download filename.
func (s *AnalysisService) ExportExcel(ctx context.Context, files []ingest.SourceFile) ([]byte, string, error) {
	report, err := s.Analyze(ctx, files)
	if err != nil {
		return nil, "", err
	}

	data, err := s.excel.Build(report.Rows, report.Analysis.Available())
	if err != nil {
		return nil, "", errors.NewExportError("failed to build Excel report", err)
	}

	name := fmt.Sprintf("Job_Status_Report_%s.xlsx", s.clock().Format("20060102_150405"))
	if report.Analysis.OverdueCount > 0 {
		name = fmt.Sprintf("Job_Status_Report_with_Overdue_%s.xlsx", s.clock().Format("20060102_150405"))
	}

	return data, name, nil
}
