package dnaclass

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dnaclass-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource adds a source field naming the dataset or snapshot.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", source),
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, source string, records, dropped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"source", source,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset loaded",
		"source", source,
		"records", records,
		"dropped", dropped,
	)
}

// LogTrain logs a training run.
func (l *Logger) LogTrain(ctx context.Context, records, classes, features int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"records", records,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "model trained",
		"records", records,
		"classes", classes,
		"features", features,
		"duration", duration,
	)
}

// LogPredict logs a single prediction.
func (l *Logger) LogPredict(ctx context.Context, length int, label string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "prediction failed",
			"length", length,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "prediction completed",
		"length", length,
		"label", label,
	)
}

// LogSnapshot logs a snapshot save or open.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed",
		"name", name,
	)
}

// LogRequest logs a served HTTP request.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status, bytes int, duration time.Duration) {
	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	}
	l.Log(ctx, level, "request",
		"method", method,
		"path", path,
		"status", status,
		"bytes", bytes,
		"duration", duration,
	)
}
