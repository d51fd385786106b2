package logging

import (
	"context"
	"log/slog"
)

type loggerContextKey struct{}

var discard = slog.New(slog.DiscardHandler)

// FromContext returns the logger on the context, or a logger that discards
// everything. A library should stay silent unless the caller asks otherwise.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return discard
	}
	return logger
}

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// EnsureLogger adds logger to the context unless the caller already put one there
func EnsureLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if existing, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && existing != nil {
		return ctx
	}
	if logger == nil {
		return ctx
	}
	return AddToContext(ctx, logger)
}

func AddMetaToContext(ctx context.Context, args ...slog.Attr) context.Context {
	logger := FromContext(ctx)

	// Convert our []slog.Attr to []any
	anySlice := make([]any, len(args))
	for i, arg := range args {
		anySlice[i] = arg
	}

	withMeta := logger.With(anySlice...)

	return AddToContext(ctx, withMeta)
}
