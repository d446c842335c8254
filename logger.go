package sphkmeans

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with clustering-specific context.
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

// NewJSONLogger creates a Logger that writes JSON-formatted logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithRunID tags every record with the run identifier.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", id)}
}

// WithSeed adds the trial seed.
func (l *Logger) WithSeed(seed int64) *Logger {
	return &Logger{Logger: l.Logger.With("seed", seed)}
}

// WithK adds the cluster count.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// LogTrial logs a finished trial. The seed is expected on l via WithSeed.
func (l *Logger) LogTrial(ctx context.Context, tr TrialResult, err error) {
	if err != nil {
		l.ErrorContext(ctx, "trial failed", "error", err)
		return
	}
	if !tr.Converged {
		l.WarnContext(ctx, "trial stopped before convergence",
			"objective", tr.Objective,
			"iterations", tr.Iterations,
		)
		return
	}
	l.DebugContext(ctx, "trial completed",
		"objective", tr.Objective,
		"iterations", tr.Iterations,
		"repairs", tr.Repairs,
		"duration", tr.Duration,
	)
}

// LogBest logs the outcome of a run.
func (l *Logger) LogBest(ctx context.Context, res *Result, elapsed time.Duration) {
	l.InfoContext(ctx, "run completed",
		"trials", len(res.Trials),
		"seed", res.Seed,
		"objective", res.Objective,
		"entropy", res.Entropy,
		"purity", res.Purity,
		"elapsed", elapsed,
	)
}
