package sphkmeans

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting clustering metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Implementations must be safe for concurrent use when trials run in parallel.
type MetricsCollector interface {
	// RecordTrial is called after each trial.
	// iterations and repairs are zero when err is non-nil.
	RecordTrial(seed int64, iterations, repairs int, duration time.Duration, err error)

	// RecordImprovement is called whenever a trial becomes the best of its run.
	RecordImprovement(seed int64, objective float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrial(int64, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordImprovement(int64, float64)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	TrialCount      atomic.Int64
	TrialErrors     atomic.Int64
	TrialTotalNanos atomic.Int64
	Iterations      atomic.Int64
	Repairs         atomic.Int64
	Improvements    atomic.Int64

	mu            sync.Mutex
	bestObjective float64
	bestSeed      int64
	hasBest       bool
}

// RecordTrial implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrial(seed int64, iterations, repairs int, duration time.Duration, err error) {
	b.TrialCount.Add(1)
	b.TrialTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrialErrors.Add(1)
		return
	}
	b.Iterations.Add(int64(iterations))
	b.Repairs.Add(int64(repairs))
}

// RecordImprovement implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImprovement(seed int64, objective float64) {
	b.Improvements.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasBest || objective > b.bestObjective {
		b.bestObjective = objective
		b.bestSeed = seed
		b.hasBest = true
	}
}

// AvgIterations returns the mean number of passes over successful trials.
func (b *BasicMetricsCollector) AvgIterations() float64 {
	ok := b.TrialCount.Load() - b.TrialErrors.Load()
	if ok == 0 {
		return 0
	}
	return float64(b.Iterations.Load()) / float64(ok)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	b.mu.Lock()
	best, seed := math.Inf(-1), int64(-1)
	if b.hasBest {
		best, seed = b.bestObjective, b.bestSeed
	}
	b.mu.Unlock()

	var avgNanos int64
	if n := b.TrialCount.Load(); n > 0 {
		avgNanos = b.TrialTotalNanos.Load() / n
	}

	return BasicMetricsStats{
		TrialCount:    b.TrialCount.Load(),
		TrialErrors:   b.TrialErrors.Load(),
		TrialAvgNanos: avgNanos,
		Iterations:    b.Iterations.Load(),
		AvgIterations: b.AvgIterations(),
		Repairs:       b.Repairs.Load(),
		Improvements:  b.Improvements.Load(),
		BestObjective: best,
		BestSeed:      seed,
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrialCount    int64
	TrialErrors   int64
	TrialAvgNanos int64
	Iterations    int64
	AvgIterations float64
	Repairs       int64
	Improvements  int64
	BestObjective float64
	BestSeed      int64
}
