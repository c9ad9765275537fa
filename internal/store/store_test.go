package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// testStore connects to the database named by TEST_DATABASE_URL. Tests
// that need a live server are skipped when it is unset.
func testStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	s, err := New(Config{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestNew_MissingURL(t *testing.T) {
	_, err := New(Config{})
	if !IsConnection(err) {
		t.Errorf("expected connection error for empty URL, got %v", err)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("first EnsureSchema failed: %v", err)
	}

	// Second run must be a no-op, not an error.
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	exists, err := s.tableExists(ctx, "items")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if !exists {
		t.Error("items table should exist after EnsureSchema")
	}
}

func TestVerifyLiveness(t *testing.T) {
	s := testStore(t)

	if err := s.verifyLiveness(context.Background()); err != nil {
		t.Fatalf("liveness query failed: %v", err)
	}
}

func TestWithSession_Commit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	err := s.WithSession(ctx, func(sess *Session) error {
		_, err := sess.ExecContext(ctx,
			"INSERT INTO items (name, description, created_at) VALUES (?, ?, now())",
			"session commit", "should persist")
		return err
	})
	if err != nil {
		t.Fatalf("WithSession failed: %v", err)
	}

	var count int
	err = s.NewRaw("SELECT count(*) FROM items WHERE name = ?", "session commit").Scan(ctx, &count)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 committed row, got %d", count)
	}
}

func TestWithSession_RollbackOnError(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	boom := errors.New("unit of work failed")
	err := s.WithSession(ctx, func(sess *Session) error {
		_, execErr := sess.ExecContext(ctx,
			"INSERT INTO items (name, description, created_at) VALUES (?, ?, now())",
			"session rollback", "should not persist")
		if execErr != nil {
			return execErr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error back, got %v", err)
	}

	var count int
	err = s.NewRaw("SELECT count(*) FROM items WHERE name = ?", "session rollback").Scan(ctx, &count)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}
}

func TestWithSession_RollbackOnPanic(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate out of WithSession")
			}
		}()
		_ = s.WithSession(ctx, func(sess *Session) error {
			_, _ = sess.ExecContext(ctx,
				"INSERT INTO items (name, description, created_at) VALUES (?, ?, now())",
				"session panic", "should not persist")
			panic("unit of work panicked")
		})
	}()

	var count int
	err := s.NewRaw("SELECT count(*) FROM items WHERE name = ?", "session panic").Scan(ctx, &count)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback after panic, found %d rows", count)
	}
}

func TestHealth(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	status := s.Health(ctx)
	if !status.Healthy {
		t.Errorf("store should be healthy: %s", status.Error)
	}
	if status.Latency <= 0 {
		t.Error("latency should be positive")
	}
	if status.PoolStats.MaxOpenConnections != 5 {
		t.Errorf("expected pool max 5, got %d", status.PoolStats.MaxOpenConnections)
	}

	if !s.IsHealthy(ctx) {
		t.Error("IsHealthy should be true")
	}
}
