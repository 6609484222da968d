package attractor

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with attractor-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithStateCount adds the model size to the logger.
func (l *Logger) WithStateCount(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("state_count", n),
	}
}

// WithWorkers adds the worker pool size to the logger.
func (l *Logger) WithWorkers(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("workers", n),
	}
}

// LogSinkSweep logs the outcome of the sink detection pass.
func (l *Logger) LogSinkSweep(ctx context.Context, sinks int, elapsed time.Duration) {
	l.InfoContext(ctx, "sink sweep completed",
		"sinks", sinks,
		"elapsed", elapsed,
	)
}

// LogProgress logs progress of a long parallel pass.
func (l *Logger) LogProgress(ctx context.Context, phase string, done, total int) {
	l.DebugContext(ctx, "progress",
		"phase", phase,
		"done", done,
		"total", total,
	)
}

// LogReach logs one reachability fixpoint.
func (l *Logger) LogReach(ctx context.Context, dir Direction, seed, result int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reach failed",
			"direction", dir.String(),
			"seed", seed,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "reach completed",
		"direction", dir.String(),
		"seed", seed,
		"result", result,
		"elapsed", elapsed,
	)
}

// LogUniverse logs the start of one worklist iteration.
func (l *Logger) LogUniverse(ctx context.Context, size, pending, pivots int) {
	l.DebugContext(ctx, "decomposing universe",
		"states", size,
		"pending", pending,
		"pivots", pivots,
	)
}

// LogComponent logs a reported terminal component.
func (l *Logger) LogComponent(ctx context.Context, index, states int) {
	l.DebugContext(ctx, "terminal component",
		"index", index,
		"states", states,
	)
}

// LogRun logs the end of a decomposition run.
func (l *Logger) LogRun(ctx context.Context, components, universes int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decomposition failed",
			"components", components,
			"universes", universes,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "decomposition completed",
		"components", components,
		"universes", universes,
		"elapsed", elapsed,
	)
}
