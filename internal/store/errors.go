package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorCode classifies a persistence failure.
type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeDuplicate        ErrorCode = "DUPLICATE"
	CodeNotNullViolation ErrorCode = "NOT_NULL"
	CodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	CodeTimeout          ErrorCode = "TIMEOUT"
	CodeUnknown          ErrorCode = "UNKNOWN"
)

// Sentinel errors for errors.Is checks.
var (
	ErrNotFound         = errors.New("store: record not found")
	ErrDuplicate        = errors.New("store: duplicate key violation")
	ErrNotNullViolation = errors.New("store: not null violation")
	ErrConnection       = errors.New("store: connection failed")
	ErrTimeout          = errors.New("store: operation timeout")
)

// Error is a classified persistence error with operation context.
type Error struct {
	Code    ErrorCode
	Message string
	Op      string // operation that failed, e.g. "items.Create"
	Cause   error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("store.%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("store: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for sentinel matching.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case CodeNotFound:
		return target == ErrNotFound
	case CodeDuplicate:
		return target == ErrDuplicate
	case CodeNotNullViolation:
		return target == ErrNotNullViolation
	case CodeConnectionFailed:
		return target == ErrConnection
	case CodeTimeout:
		return target == ErrTimeout
	}
	return false
}

// Wrap converts a raw driver error into a classified *Error. A nil error
// stays nil and an already classified error is returned unchanged.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Code: CodeNotFound, Message: "record not found", Op: op, Cause: err}
	}

	code, msg := classifySQLState(sqlstate(err))
	if msg == "" {
		msg = err.Error()
	}
	return &Error{Code: code, Message: msg, Op: op, Cause: err}
}

// sqlstate extracts the PostgreSQL error code from either driver.
// pgx surfaces *pgconn.PgError; pgdriver errors expose Field('C').
func sqlstate(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var fielder interface{ Field(byte) string }
	if errors.As(err, &fielder) {
		return fielder.Field('C')
	}
	return ""
}

// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func classifySQLState(state string) (ErrorCode, string) {
	switch state {
	case "23505":
		return CodeDuplicate, "duplicate key value violates unique constraint"
	case "23502":
		return CodeNotNullViolation, "null value in column violates not-null constraint"
	case "57014":
		return CodeTimeout, "query was cancelled due to timeout"
	case "08000", "08003", "08006":
		return CodeConnectionFailed, "database connection failed"
	default:
		return CodeUnknown, ""
	}
}

// IsNotFound reports whether err is the absent-record signal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConnection reports whether err is a connectivity failure.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}
