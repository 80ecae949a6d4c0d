package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"fleetjobs/internal/analysis"
	"fleetjobs/internal/table"
)

// SourceFile is one uploaded or discovered file. Err carries a load failure
// (for example an unreadable file on disk); such files degrade to an
// error-marker summary instead of aborting the batch.
type SourceFile struct {
	Name string
	Data []byte
	Err  error
}

// BatchResult is the outcome of ingesting one upload batch: summaries in
// upload order plus the combined row set for classification.
type BatchResult struct {
	Summaries []analysis.FileSummary
	Combined  *table.Table
}

// Ingester reads and summarizes batches of CSV files. Per-file work is
// independent and runs on a bounded worker pool; the combined table preserves
// file order so classification groups appear deterministically.
type Ingester struct {
	logger     *slog.Logger
	summarizer *analysis.Summarizer
	workers    int
}

// NewIngester creates an ingester with the given worker bound. A bound of
// zero or less defaults to the CPU count.
func NewIngester(logger *slog.Logger, workers int) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Ingester{
		logger:     logger,
		summarizer: analysis.NewSummarizer(logger),
		workers:    workers,
	}
}

// Process reads and summarizes every file in the batch. Files that fail to
// load or parse produce an error-marker summary and are excluded from the
// combined table; sibling files continue. Process never fails the whole
// batch, only cancellation stops it early.
func (i *Ingester) Process(ctx context.Context, files []SourceFile) (*BatchResult, error) {
	summaries := make([]analysis.FileSummary, len(files))
	tables := make([]*table.Table, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for idx, file := range files {
		idx, file := idx, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if file.Err != nil {
				summaries[idx] = i.summarizer.SummarizeFailure(file.Name, file.Err)
				return nil
			}

			tbl, err := ReadCSV(bytes.NewReader(file.Data), file.Name)
			if err != nil {
				summaries[idx] = i.summarizer.SummarizeFailure(file.Name, err)
				return nil
			}

			summaries[idx] = i.summarizer.Summarize(tbl, file.Name)
			tables[idx] = tbl
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{
		Summaries: summaries,
		Combined:  table.Concat(tables...),
	}

	i.logger.InfoContext(ctx, "batch ingested",
		slog.Int("files", len(files)),
		slog.Int("rows", result.Combined.Len()))

	return result, nil
}
