package store

import (
	"context"
	"time"
)

// HealthStatus reports store reachability and pool usage.
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"latency"`
	Error     string        `json:"error,omitempty"`
	PoolStats PoolStats     `json:"pool_stats"`
}

// PoolStats contains connection pool statistics.
type PoolStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}

// Health performs a liveness probe and returns detailed status.
func (s *Store) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	err := s.Ping(ctx)
	latency := time.Since(start)

	stats := s.Stats()
	status := HealthStatus{
		Healthy: err == nil,
		Latency: latency,
		PoolStats: PoolStats{
			MaxOpenConnections: stats.MaxOpenConnections,
			OpenConnections:    stats.OpenConnections,
			InUse:              stats.InUse,
			Idle:               stats.Idle,
			WaitCount:          stats.WaitCount,
			WaitDuration:       stats.WaitDuration,
		},
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

// IsHealthy reports whether the store is reachable.
func (s *Store) IsHealthy(ctx context.Context) bool {
	return s.Ping(ctx) == nil
}
