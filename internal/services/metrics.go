package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's prometheus collectors.
type Metrics struct {
	FilesProcessed   prometheus.Counter
	RowsClassified   prometheus.Counter
	AnalysisDuration prometheus.Histogram
}

// NewMetrics registers the pipeline collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "fleetjobs_files_processed_total",
			Help: "Number of uploaded files processed.",
		}),
		RowsClassified: factory.NewCounter(prometheus.CounterOpts{
			Name: "fleetjobs_rows_classified_total",
			Help: "Number of job rows run through the overdue classifier.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetjobs_analysis_duration_seconds",
			Help:    "Wall time of one batch analysis.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
