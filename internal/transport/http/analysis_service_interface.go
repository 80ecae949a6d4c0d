package http

import (
	"context"

	"fleetjobs/internal/ingest"
	"fleetjobs/internal/services"
)

// AnalysisService is the pipeline surface the handlers consume. Tests swap in
// a stub implementation.
type AnalysisService interface {
	Analyze(ctx context.Context, files []ingest.SourceFile) (*services.AnalysisReport, error)
	Series(ctx context.Context, files []ingest.SourceFile) (*services.SeriesReport, error)
	ExportExcel(ctx context.Context, files []ingest.SourceFile) ([]byte, string, error)
}
