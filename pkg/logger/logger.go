package logger

import (
	"context"

	"go.uber.org/zap"

	"projectpulse/pkg/trace"
)

// New builds the production zap logger shared by every component. Callers
// own the Sync on shutdown.
func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}

// WithTrace returns the logger annotated with the trace_id carried in ctx,
// if any.
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
