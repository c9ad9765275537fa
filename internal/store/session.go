package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// Session is a scoped unit-of-work handle bounding exactly one
// transaction. It is never shared across concurrent callers.
type Session struct {
	bun.Tx
	store *Store
}

// Store returns the factory that produced this session.
func (s *Session) Store() *Store {
	return s.store
}

// SessionFunc is the unit of work executed within a session.
type SessionFunc func(s *Session) error

// WithSession acquires a session, runs fn inside a transaction and
// guarantees release on every exit path: commit when fn returns nil,
// rollback when it returns an error or panics. The panic is re-raised
// after the rollback.
func (s *Store) WithSession(ctx context.Context, fn SessionFunc) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Wrap(err, "Session.Begin")
	}

	sess := &Session{Tx: tx, store: s}

	defer func() {
		if p := recover(); p != nil {
			_ = sess.rollback()
			panic(p)
		}
	}()

	if err := fn(sess); err != nil {
		if rbErr := sess.rollback(); rbErr != nil {
			return fmt.Errorf("store: rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return Wrap(err, "Session.Commit")
	}

	return nil
}

func (s *Session) rollback() error {
	if err := s.Tx.Rollback(); err != nil {
		if err == sql.ErrTxDone {
			return nil
		}
		return Wrap(err, "Session.Rollback")
	}
	return nil
}
