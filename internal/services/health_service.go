package services

import (
	"context"
	"log/slog"
	"time"
)

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// HealthService reports process liveness.
type HealthService struct {
	logger  *slog.Logger
	version string
	started time.Time
}

// NewHealthService creates a health service.
func NewHealthService(logger *slog.Logger, version string) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		logger:  logger,
		version: version,
		started: time.Now(),
	}
}

// Check returns the current health status. The engine holds no state and no
// external dependencies, so liveness is the whole story.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Version:   s.version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
