package pivotring

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with index-specific context.
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

// WithPivots adds a pivot count field to the logger.
func (l *Logger) WithPivots(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("pivots", n),
	}
}

// WithRings adds a ring count field to the logger.
func (l *Logger) WithRings(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rings", n),
	}
}

// LogAdd logs an add operation.
func (l *Logger) LogAdd(ctx context.Context, id uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"id", id,
		)
	}
}

// LogFinalize logs the end of the build phase.
func (l *Logger) LogFinalize(ctx context.Context, numValues int, overflow int) {
	l.InfoContext(ctx, "index finalized",
		"values", numValues,
		"overflow", overflow,
	)
}

// LogCoverage logs an element beyond the largest radius of a pivot.
func (l *Logger) LogCoverage(ctx context.Context, pivot int, dist, maxRadius float64) {
	l.WarnContext(ctx, "element beyond largest radius",
		"pivot", pivot,
		"distance", dist,
		"max_radius", maxRadius,
	)
}

// LogSearch logs a range search.
func (l *Logger) LogSearch(ctx context.Context, threshold float64, stats SearchStats, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range search failed",
			"threshold", threshold,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range search completed",
			"threshold", threshold,
			"candidates", stats.Candidates,
			"distance_calls", stats.DistanceCalls(),
			"results", stats.Results,
			"elapsed", elapsed,
		)
	}
}
