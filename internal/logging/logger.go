// Package logging provides structured logging configuration using log/slog.
//
// Each import pass tags its log entries with the pass name through a
// context value, so a multi-pass run can be traced pass by pass.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format for machine parsing, "text" for human readability.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ctxKey int

const passKey ctxKey = 0

// WithPass returns a context carrying the name of the running pass.
func WithPass(ctx context.Context, pass string) context.Context {
	return context.WithValue(ctx, passKey, pass)
}

// FromContext returns a logger enriched with the pass name stored in
// the context, if any. All log entries from that logger can then be
// correlated to a single pass.
//
// Usage:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("pass complete", "records", len(records))
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if pass, ok := ctx.Value(passKey).(string); ok && pass != "" {
		logger = logger.With("pass", pass)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// This is useful for creating operation-specific loggers that carry
// consistent context through a multi-step process.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
