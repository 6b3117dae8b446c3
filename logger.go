package tabgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tabgo-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithLayout adds a layout field to the logger.
func (l *Logger) WithLayout(layout string) *Logger {
	return &Logger{
		Logger: l.Logger.With("layout", layout),
	}
}

// WithDataset adds a dataset name field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// WithCols adds a column count field to the logger.
func (l *Logger) WithCols(cols int) *Logger {
	return &Logger{
		Logger: l.Logger.With("cols", cols),
	}
}

// LogLoad logs a table load operation.
func (l *Logger) LogLoad(ctx context.Context, layout string, rows, cols int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"layout", layout,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"layout", layout,
			"rows", rows,
			"cols", cols,
		)
	}
}

// LogResolve logs a catalog dataset resolution.
func (l *Logger) LogResolve(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset resolution failed",
			"dataset", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset resolved",
			"dataset", name,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(layout, query string, result int64) {
	l.Debug("query completed",
		"layout", layout,
		"query", query,
		"result", result,
	)
}

// LogUpdate logs a predicated update operation.
func (l *Logger) LogUpdate(layout string, updated int) {
	l.Debug("update completed",
		"layout", layout,
		"updated", updated,
	)
}
