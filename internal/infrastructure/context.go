package infrastructure

import (
	"context"
	"log/slog"
)

// runIDContextKey carries the id of the report run a record belongs to
const runIDContextKey contextKey = "run_id"

// WithRunID attaches a report run id to the context. Loggers built by this
// package add it to every record logged with that context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// GetRunID returns the report run id, or "" outside a run
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDContextKey).(string); ok {
		return runID
	}
	return ""
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
