package sphkmeans

import (
	"log/slog"
	"os"

	"github.com/hupe1980/sphkmeans/internal/kmeans"
	"github.com/hupe1980/sphkmeans/resource"
)

const (
	// MaxTrials is the number of seeds in the default sequence.
	MaxTrials = 20

	// DefaultMaxIterations bounds the passes of a single trial.
	DefaultMaxIterations = 1000

	// DefaultTolerance is the slack allowed above a cosine of 1.
	DefaultTolerance = kmeans.DefaultTolerance
)

// DefaultSeeds returns the fixed seed sequence 1, 3, ..., 39.
func DefaultSeeds() []int64 {
	seeds := make([]int64, MaxTrials)
	for i := range seeds {
		seeds[i] = int64(2*i + 1)
	}
	return seeds
}

type options struct {
	trials            int
	seeds             []int64
	parallelism       int
	matVecParallelism int
	tolerance         float64
	maxIterations     int
	classes           []int
	trueK             int
	metricsCollector  MetricsCollector
	logger            *Logger
	controller        *resource.Controller

	// runTrial replaces the clustering engine in tests.
	runTrial trialFunc
}

// Option configures a Run.
type Option func(*options)

// WithTrials sets the number of seeds to try. The value is clamped to
// [0, MaxTrials] and to the length of the seed sequence. With zero trials
// Run returns the empty result.
func WithTrials(n int) Option {
	return func(o *options) {
		o.trials = n
	}
}

// WithSeeds replaces the seed sequence. Trials are taken from its front.
func WithSeeds(seeds ...int64) Option {
	return func(o *options) {
		o.seeds = seeds
	}
}

// WithParallelism runs up to n trials concurrently.
// Each concurrent trial holds its own centroid and similarity buffers.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMatVecParallelism computes the per-centroid similarity products of one
// trial on up to n goroutines.
func WithMatVecParallelism(n int) Option {
	return func(o *options) {
		o.matVecParallelism = n
	}
}

// WithTolerance sets the slack above a cosine of 1 that is accepted before a
// similarity is reported as a DataError.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithMaxIterations bounds the passes of each trial. 0 removes the bound.
//
// Inputs whose seed documents point in the same direction can keep the
// empty-cluster repair from settling, so an unbounded trial may not return.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithGroundTruth scores every trial against per-document class ids in
// [0, trueK).
func WithGroundTruth(classes []int, trueK int) Option {
	return func(o *options) {
		o.classes = classes
		o.trueK = trueK
	}
}

// WithMetricsCollector configures a metrics collector for trials.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sphkmeans.BasicMetricsCollector{}
//	res, _ := sphkmeans.Run(ctx, m, k, sphkmeans.WithMetricsCollector(metrics))
//	fmt.Printf("avg iterations: %.1f\n", metrics.AvgIterations())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger on stderr with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(os.Stderr, level)
	}
}

// WithResourceController shares trial slots and buffer memory with other runs.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		trials:           MaxTrials,
		seeds:            DefaultSeeds(),
		parallelism:      1,
		tolerance:        DefaultTolerance,
		maxIterations:    DefaultMaxIterations,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	o.trials = max(0, min(o.trials, MaxTrials, len(o.seeds)))
	o.parallelism = max(1, o.parallelism)
	return o
}
