// Package ctxlog carries a run-scoped slog.Logger through context.Context so
// stages can log with the run's attributes attached.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// RunID returns a run_id attribute.
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}

// Stage returns a stage attribute.
func Stage(name string) slog.Attr {
	return slog.String("stage", name)
}

// Error returns an error attribute; a nil error yields an empty message.
func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
