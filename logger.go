package trialfacet

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with trialfacet-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithRequestID adds a request id field to the logger.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("request_id", id),
	}
}

// WithEntity adds the entity type field to the logger.
func (l *Logger) WithEntity(entity string) *Logger {
	return &Logger{
		Logger: l.Logger.With("entity", entity),
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, activeFields, matched int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"active_fields", activeFields,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"active_fields", activeFields,
			"matched", matched,
			"took", took,
		)
	}
}

// LogAvailable logs an available-filters computation.
func (l *Logger) LogAvailable(ctx context.Context, matched, hideable int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "available filters failed",
			"matched", matched,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "available filters computed",
			"matched", matched,
			"hideable", hideable,
			"took", took,
		)
	}
}

// LogLoad logs the construction of a facet service over a dataset.
func (l *Logger) LogLoad(ctx context.Context, entities int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"entities", entities,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset loaded",
			"entities", entities,
		)
	}
}
