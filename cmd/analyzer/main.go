// Command analyzer runs the analysis pipeline over a directory of CSV files
// and writes the report to disk. It is the batch counterpart of the web
// server: same engine, no upload.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetjobs/internal/analysis"
	"fleetjobs/internal/config"
	"fleetjobs/internal/exporter"
	"fleetjobs/internal/infrastructure"
	"fleetjobs/internal/ingest"
	"fleetjobs/internal/services"
)

func main() {
	var (
		inputDir = flag.String("input", ".", "directory containing the CSV files to analyze")
		xlsxPath = flag.String("out", "", "write the styled Excel report to this path")
		csvPath  = flag.String("csv", "", "write the summary rows as CSV to this path")
		jsonPath = flag.String("json", "", "write the full analysis report as JSON to this path")
		dateStr  = flag.String("date", "", "override the effective date for files without one in the name (DD-MM-YYYY)")
	)
	flag.Parse()

	if err := run(*inputDir, *xlsxPath, *csvPath, *jsonPath, *dateStr); err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: %v\n", err)
		os.Exit(1)
	}
}

func run(inputDir, xlsxPath, csvPath, jsonPath, dateStr string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}

	clock := time.Now
	if dateStr != "" {
		fixed, err := time.Parse(analysis.DateLayout, dateStr)
		if err != nil {
			return fmt.Errorf("invalid -date %q, expected DD-MM-YYYY: %w", dateStr, err)
		}
		clock = func() time.Time { return fixed }
	}

	files, err := ingest.FindCSVFiles(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no CSV files found in %s", inputDir)
	}
	sources := ingest.LoadFiles(logger, files)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := services.NewAnalysisService(logger, cfg.Analysis, clock, nil)

	report, err := service.Analyze(ctx, sources)
	if err != nil {
		return err
	}
	printSummary(report)

	if xlsxPath != "" {
		data, _, err := service.ExportExcel(ctx, sources)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", xlsxPath, err)
		}
		logger.Info("wrote excel report", slog.String("path", xlsxPath))
	}

	if csvPath != "" {
		data, err := exporter.SummaryCSV(report.Rows)
		if err != nil {
			return err
		}
		if err := os.WriteFile(csvPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", csvPath, err)
		}
		logger.Info("wrote csv summary", slog.String("path", csvPath))
	}

	if jsonPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", jsonPath, err)
		}
		logger.Info("wrote json report", slog.String("path", jsonPath))
	}

	return nil
}

func printSummary(report *services.AnalysisReport) {
	fmt.Printf("Files analyzed: %d\n", len(report.Summaries))
	for _, s := range report.Summaries {
		fmt.Printf("  %-40s vessel=%s total=%s new=%s date=%s\n",
			s.FileName, s.VesselName, s.TotalJobsDisplay(), s.NewJobsDisplay(), s.ExtractedDate)
	}

	a := report.Analysis
	if !a.Available() {
		fmt.Printf("Overdue analysis unavailable: %s\n", a.Notice)
		return
	}
	fmt.Printf("Total jobs: %d  overdue: %d (%s)  critical: %d (%s)\n",
		a.TotalJobs,
		a.OverdueCount, analysis.FormatPercent(a.OverduePercent),
		a.CriticalCount, analysis.FormatPercent(a.CriticalPercent))
}
