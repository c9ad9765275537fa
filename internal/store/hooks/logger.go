// Package hooks provides observability query hooks for the store.
package hooks

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// LoggerHook logs queries through slog. Failed queries are always
// logged; successful ones only when logAll is set.
type LoggerHook struct {
	logger *slog.Logger
	logAll bool
}

// NewLoggerHook creates a new logger hook.
func NewLoggerHook(logger *slog.Logger, logAll bool) *LoggerHook {
	return &LoggerHook{logger: logger, logAll: logAll}
}

// BeforeQuery implements bun.QueryHook.
func (h *LoggerHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *LoggerHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	attrs := []slog.Attr{
		slog.Duration("duration", duration),
		slog.String("operation", OperationType(event.Query)),
	}

	if event.Err != nil {
		attrs = append(attrs, slog.String("query", truncate(event.Query, 500)))
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		h.logger.LogAttrs(ctx, slog.LevelError, "database query failed", attrs...)
		return
	}

	if h.logAll {
		attrs = append(attrs, slog.String("query", truncate(event.Query, 500)))
		h.logger.LogAttrs(ctx, slog.LevelDebug, "database query", attrs...)
	}
}

func truncate(query string, max int) string {
	if len(query) <= max {
		return query
	}
	return query[:max] + "..."
}

// OperationType extracts the statement verb from a query.
func OperationType(query string) string {
	query = strings.TrimSpace(strings.ToUpper(query))
	switch {
	case strings.HasPrefix(query, "SELECT"):
		return "select"
	case strings.HasPrefix(query, "INSERT"):
		return "insert"
	case strings.HasPrefix(query, "UPDATE"):
		return "update"
	case strings.HasPrefix(query, "DELETE"):
		return "delete"
	case strings.HasPrefix(query, "CREATE"):
		return "create"
	case strings.HasPrefix(query, "BEGIN"):
		return "begin"
	case strings.HasPrefix(query, "COMMIT"):
		return "commit"
	case strings.HasPrefix(query, "ROLLBACK"):
		return "rollback"
	default:
		return "other"
	}
}
