package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dataset   DatasetStatus          `json:"dataset"`
}

// HealthService reports process and dataset health.
type HealthService struct {
	version   string
	buildTime string
	data      *DataService
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service over the data service.
func NewHealthService(version, buildTime string, data *DataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		data:      data,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check returns the current health status. The service is degraded
// until the dataset has been loaded.
func (hs *HealthService) Check(ctx context.Context) HealthStatus {
	dataset := hs.data.Status()

	status := "healthy"
	if !dataset.Loaded {
		status = "degraded"
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   hs.version,
		Dataset:   dataset,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
		},
	}
}
