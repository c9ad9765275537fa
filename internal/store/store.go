// Package store owns the PostgreSQL connection factory, the scoped
// session (one transaction per unit of work) and the startup bootstrap
// that makes the database and schema exist before the service accepts
// traffic.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel/trace"

	"github.com/fernandezvara/catalogd/internal/store/hooks"
)

// Config holds the connection settings for the store.
type Config struct {
	// URL is the connection string for the target database (required).
	URL string
	// AdminURL points at the server's maintenance database. Only the
	// bootstrap uses it, and only when the target database is absent.
	AdminURL string
	// Database is the target database name.
	Database string

	// Pool settings
	MaxOpenConns    int           // default: 25
	MaxIdleConns    int           // default: 5
	ConnMaxLifetime time.Duration // default: 5m
	ConnMaxIdleTime time.Duration // default: 1m

	// Timeouts
	DialTimeout  time.Duration // default: 5s
	ReadTimeout  time.Duration // default: 30s
	WriteTimeout time.Duration // default: 30s

	// Observability (all optional)
	Logger          *slog.Logger
	LogQueries      bool
	MetricsRegistry prometheus.Registerer
	Tracer          trace.Tracer
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 1 * time.Minute
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
}

// Store is the session factory. It wraps a pooled bun.DB and is safe
// for concurrent use; construct it once at startup and pass it by
// reference.
type Store struct {
	*bun.DB
	config Config
}

// New opens a pooled connection to the target database and verifies it
// with a ping. The database must already exist; Bootstrap handles the
// case where it does not.
func New(cfg Config) (*Store, error) {
	cfg.applyDefaults()

	if cfg.URL == "" {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "database URL is required",
			Op:      "New",
		}
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.URL),
		pgdriver.WithDialTimeout(cfg.DialTimeout),
		pgdriver.WithReadTimeout(cfg.ReadTimeout),
		pgdriver.WithWriteTimeout(cfg.WriteTimeout),
	)

	sqlDB := sql.OpenDB(connector)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	bunDB := bun.NewDB(sqlDB, pgdialect.New())

	if cfg.Logger != nil {
		bunDB.AddQueryHook(hooks.NewLoggerHook(cfg.Logger, cfg.LogQueries))
	}
	if cfg.MetricsRegistry != nil {
		hook, err := hooks.NewMetricsHook(cfg.MetricsRegistry)
		if err != nil {
			return nil, fmt.Errorf("store: failed to create metrics hook: %w", err)
		}
		bunDB.AddQueryHook(hook)
	}
	if cfg.Tracer != nil {
		bunDB.AddQueryHook(hooks.NewTracingHook(cfg.Tracer))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := bunDB.PingContext(ctx); err != nil {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "failed to connect to database",
			Op:      "New",
			Cause:   err,
		}
	}

	return &Store{DB: bunDB, config: cfg}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.PingContext(ctx); err != nil {
		return Wrap(err, "Ping")
	}
	return nil
}

// Stats returns connection pool statistics.
func (s *Store) Stats() sql.DBStats {
	return s.DB.Stats()
}

// Config returns the configuration the store was built with.
func (s *Store) Config() Config {
	return s.config
}
