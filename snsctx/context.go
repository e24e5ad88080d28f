// Package snsctx carries per-call diagnostics settings through the context
// handed to bus operations.
package snsctx

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	ctxKeyVerbose ctxKey = iota
	ctxKeyLogger
)

// IsVerbose reports whether transports should dump raw traffic.
func IsVerbose(ctx context.Context) bool {
	val, ok := ctx.Value(ctxKeyVerbose).(bool)
	return ok && val
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxKeyVerbose, value)
}

// WithLogger attaches a logger used by drivers and transports for the
// lifetime of ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// Logger returns the logger attached to ctx or the default one.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKeyLogger).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
