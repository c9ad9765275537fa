package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{
			err:      &Error{Message: "test error"},
			expected: "store: test error",
		},
		{
			err:      &Error{Op: "items.Create", Message: "failed"},
			expected: "store.items.Create: failed",
		},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, tt.err.Error())
		}
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		err    *Error
		target error
		match  bool
	}{
		{&Error{Code: CodeNotFound}, ErrNotFound, true},
		{&Error{Code: CodeDuplicate}, ErrDuplicate, true},
		{&Error{Code: CodeConnectionFailed}, ErrConnection, true},
		{&Error{Code: CodeTimeout}, ErrTimeout, true},
		{&Error{Code: CodeNotFound}, ErrDuplicate, false},
		{&Error{Code: CodeUnknown}, ErrNotFound, false},
	}

	for _, tt := range tests {
		if errors.Is(tt.err, tt.target) != tt.match {
			t.Errorf("expected Is(%v, %v) = %v", tt.err.Code, tt.target, tt.match)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{Code: CodeUnknown, Cause: cause}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, "Test") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrap_AlreadyWrapped(t *testing.T) {
	original := &Error{Code: CodeNotFound, Message: "original"}
	wrapped := Wrap(original, "Test")

	if wrapped != original {
		t.Error("already wrapped error should be returned as-is")
	}
}

func TestWrap_NoRows(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("scanning row: %w", sql.ErrNoRows), "items.Get")

	var storeErr *Error
	if !errors.As(wrapped, &storeErr) {
		t.Fatal("expected *Error")
	}

	if storeErr.Code != CodeNotFound {
		t.Errorf("expected CodeNotFound, got %s", storeErr.Code)
	}
	if storeErr.Op != "items.Get" {
		t.Errorf("expected items.Get, got %s", storeErr.Op)
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should match")
	}
}

func TestWrap_PgconnError(t *testing.T) {
	tests := []struct {
		sqlstate string
		expected ErrorCode
	}{
		{"23505", CodeDuplicate},
		{"23502", CodeNotNullViolation},
		{"57014", CodeTimeout},
		{"08000", CodeConnectionFailed},
		{"08006", CodeConnectionFailed},
		{"99999", CodeUnknown},
	}

	for _, tt := range tests {
		pgErr := &pgconn.PgError{Code: tt.sqlstate, Message: "test"}
		wrapped := Wrap(pgErr, "items.Create")

		var storeErr *Error
		if !errors.As(wrapped, &storeErr) {
			t.Fatalf("sqlstate %s: expected *Error", tt.sqlstate)
		}
		if storeErr.Code != tt.expected {
			t.Errorf("sqlstate %s: expected %s, got %s", tt.sqlstate, tt.expected, storeErr.Code)
		}
	}
}

// fieldError mimics the pgdriver error surface, which exposes the
// SQLSTATE through Field('C') instead of a struct field.
type fieldError struct {
	state string
}

func (e fieldError) Error() string { return "driver error" }

func (e fieldError) Field(k byte) string {
	if k == 'C' {
		return e.state
	}
	return ""
}

func TestWrap_DriverFieldError(t *testing.T) {
	wrapped := Wrap(fieldError{state: "23505"}, "items.Create")

	if !IsDuplicate(wrapped) {
		t.Errorf("expected duplicate classification, got %v", wrapped)
	}
}

func TestWrap_PlainError(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), "items.List")

	var storeErr *Error
	if !errors.As(wrapped, &storeErr) {
		t.Fatal("expected *Error")
	}
	if storeErr.Code != CodeUnknown {
		t.Errorf("expected CodeUnknown, got %s", storeErr.Code)
	}
	if storeErr.Message != "boom" {
		t.Errorf("expected original message, got %s", storeErr.Message)
	}
}

func TestIsConnection(t *testing.T) {
	if !IsConnection(&Error{Code: CodeConnectionFailed}) {
		t.Error("IsConnection should return true")
	}
	if IsConnection(&Error{Code: CodeNotFound}) {
		t.Error("IsConnection should return false for other codes")
	}
}
