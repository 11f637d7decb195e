// Package ctxlog carries a slog.Logger through context.Context, along with
// the name of the graph being compiled so nested stages log it once.
package ctxlog

import (
	"context"
	"log/slog"
)

// GraphKey is the log attribute naming the graph a line belongs to.
const GraphKey = "graph"

type (
	loggerKey struct{}
	graphKey  struct{}
)

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With returns a context whose logger has the given attributes added.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// WithGraph tags the context's logger with graph. It returns ctx unchanged
// when it is already tagged with the same graph.
func WithGraph(ctx context.Context, graph string) context.Context {
	if current, ok := ctx.Value(graphKey{}).(string); ok && current == graph {
		return ctx
	}
	ctx = With(ctx, GraphKey, graph)
	return context.WithValue(ctx, graphKey{}, graph)
}

// FromContext extracts the slog.Logger from a context. A context without a
// logger is a programming error and panics.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}
