package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATEs the bootstrap has to tell apart.
const (
	sqlstateInvalidCatalog    = "3D000" // database does not exist
	sqlstateDuplicateDatabase = "42P04" // lost the CREATE DATABASE race
)

// itemsTable is the declared schema for the single persisted entity.
const itemsTable = `
CREATE TABLE items (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ
)
`

// Bootstrap makes the store ready for traffic: the target database
// exists (created through the maintenance connection when absent), the
// items table exists, and a liveness query round-trips. It never drops
// or alters existing data and is safe to run on every startup.
func Bootstrap(ctx context.Context, cfg Config) (*Store, error) {
	if err := ensureDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	s, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.EnsureSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	if err := s.verifyLiveness(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

// ensureDatabase probes the target database and creates it when the
// server answers "database does not exist". CREATE DATABASE cannot run
// inside a transaction, so it goes through a plain pgx connection in
// autocommit mode.
func ensureDatabase(ctx context.Context, cfg Config) error {
	conn, err := pgx.Connect(ctx, cfg.URL)
	if err == nil {
		return conn.Close(ctx)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != sqlstateInvalidCatalog {
		return &Error{
			Code:    CodeConnectionFailed,
			Message: "failed to reach database server",
			Op:      "Bootstrap.Probe",
			Cause:   err,
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database not found, creating",
			slog.String("database", cfg.Database))
	}

	admin, err := pgx.Connect(ctx, cfg.AdminURL)
	if err != nil {
		return &Error{
			Code:    CodeConnectionFailed,
			Message: "failed to connect to maintenance database",
			Op:      "Bootstrap.Admin",
			Cause:   err,
		}
	}
	defer admin.Close(ctx)

	_, err = admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.Database}.Sanitize())
	if err != nil {
		// Another instance may have won the race; that is still a
		// successfully ensured database.
		if errors.As(err, &pgErr) && pgErr.Code == sqlstateDuplicateDatabase {
			return nil
		}
		return &Error{
			Code:    CodeUnknown,
			Message: fmt.Sprintf("failed to create database %q", cfg.Database),
			Op:      "Bootstrap.CreateDatabase",
			Cause:   err,
		}
	}

	return nil
}

// EnsureSchema creates the items table when schema introspection says
// it is absent. Re-running on an initialized store is a no-op.
func (s *Store) EnsureSchema(ctx context.Context) error {
	exists, err := s.tableExists(ctx, "items")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if s.config.Logger != nil {
		s.config.Logger.Info("creating schema", slog.String("table", "items"))
	}

	if _, err := s.ExecContext(ctx, itemsTable); err != nil {
		return &Error{
			Code:    CodeUnknown,
			Message: "failed to create items table",
			Op:      "Bootstrap.CreateTable",
			Cause:   err,
		}
	}

	return nil
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.NewRaw(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?)",
		name,
	).Scan(ctx, &exists)
	if err != nil {
		return false, Wrap(err, "Bootstrap.TableExists")
	}
	return exists, nil
}

// verifyLiveness confirms the pooled connection is usable end-to-end.
func (s *Store) verifyLiveness(ctx context.Context) error {
	var one int
	if err := s.NewRaw("SELECT 1").Scan(ctx, &one); err != nil {
		return &Error{
			Code:    CodeConnectionFailed,
			Message: "liveness query failed",
			Op:      "Bootstrap.Verify",
			Cause:   err,
		}
	}
	return nil
}
