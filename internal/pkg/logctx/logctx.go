package logctx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// With returns a context carrying logger; the request logging middleware stores one
// tagged with the request id.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// From falls back to slog.Default for contexts that never passed through a request.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
