package kikgo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/kikgo/ndarray"
)

// Logger wraps slog.Logger with consistent field names for comparisons.
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
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithMetric adds a metric name field to the logger.
func (l *Logger) WithMetric(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", name),
	}
}

// WithScope adds a scope field to the logger.
func (l *Logger) WithScope(s Scope) *Logger {
	return &Logger{
		Logger: l.Logger.With("scope", s.String()),
	}
}

// LogCompare logs a metric invocation.
func (l *Logger) LogCompare(ctx context.Context, experimental, simulated ndarray.Shape, lazy bool, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compare failed",
			"experimental", experimental.String(),
			"simulated", simulated.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compare completed",
			"experimental", experimental.String(),
			"simulated", simulated.String(),
			"lazy", lazy,
			"elapsed", elapsed,
		)
	}
}

// LogMatch logs a pattern matching run.
func (l *Logger) LogMatch(ctx context.Context, patterns, dictionary, keep int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pattern match failed",
			"patterns", patterns,
			"dictionary", dictionary,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "pattern match completed",
			"patterns", patterns,
			"dictionary", dictionary,
			"keep", keep,
			"elapsed", elapsed,
		)
	}
}
