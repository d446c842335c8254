package sphkmeans

import (
	"context"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sphkmeans/eval"
	"github.com/hupe1980/sphkmeans/internal/kmeans"
	"github.com/hupe1980/sphkmeans/sparse"
)

// trialFunc clusters the matrix from one seed.
type trialFunc func(ctx context.Context, seed int64) (kmeans.Outcome, error)

// TrialResult summarises one seed of a run.
type TrialResult struct {
	Seed       int64         `json:"seed"`
	Objective  float64       `json:"objective"`
	Iterations int           `json:"iterations"`
	Repairs    int           `json:"repairs"`
	Converged  bool          `json:"converged"`
	Entropy    float64       `json:"entropy"`
	Purity     float64       `json:"purity,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Result is the best trial of a run.
//
// A run without trials reports Seed -1, Objective -1, Entropy 1 and Purity -1
// with every document in cluster 0. Entropy and Purity keep those values when
// no ground truth is given.
type Result struct {
	RunID     string  `json:"run_id"`
	K         int     `json:"k"`
	TrueK     int     `json:"true_k,omitempty"`
	Seed      int64   `json:"seed"`
	Objective float64 `json:"objective"`
	Entropy   float64 `json:"entropy"`
	Purity    float64 `json:"purity"`

	// Assignment holds the cluster id of every document in row order.
	Assignment []int `json:"-"`

	// Contingency counts class and cluster co-occurrences of Assignment.
	// It is nil without ground truth.
	Contingency *eval.Contingency `json:"-"`

	// Trials lists every trial in seed order.
	Trials []TrialResult `json:"trials"`
}

// Members returns the documents assigned to cluster.
func (r *Result) Members(cluster int) *roaring.Bitmap {
	return kmeans.Assignment(r.Assignment).Members(cluster)
}

// Sizes returns the number of documents in each cluster.
func (r *Result) Sizes() []int {
	return kmeans.Assignment(r.Assignment).Sizes(r.K)
}

// Run clusters the rows of m into k groups once per seed and returns the trial
// with the greatest objective. Ties go to the seed that comes first in the
// sequence, also when trials run concurrently.
func Run(ctx context.Context, m *sparse.Matrix, k int, optFns ...Option) (*Result, error) {
	o := applyOptions(optFns)

	if k <= 0 {
		return nil, ErrInvalidK
	}
	if m.Rows() < k {
		return nil, ErrNotEnoughDocuments
	}

	res := &Result{
		RunID:      uuid.NewString(),
		K:          k,
		Seed:       -1,
		Objective:  -1,
		Entropy:    1,
		Purity:     -1,
		Assignment: make([]int, m.Rows()),
	}

	if o.classes != nil {
		if o.trueK <= 0 {
			return nil, ErrInvalidTrueK
		}
		// Validates the labels before any trial runs.
		ct, err := eval.NewContingency(res.Assignment, o.classes, k, o.trueK)
		if err != nil {
			return nil, translateError(err)
		}
		res.TrueK = o.trueK
		res.Contingency = ct
	}

	dnorms := m.RowNorms()
	if err := kmeans.CheckNorms(dnorms); err != nil {
		return nil, err
	}

	log := o.logger.WithRunID(res.RunID).WithK(k)
	d := &driver{
		m:       m,
		k:       k,
		dnorms:  dnorms,
		o:       o,
		log:     log,
		trials:  make([]TrialResult, o.trials),
		best:    res.Assignment,
		bestIdx: -1,
	}

	start := time.Now()
	if err := d.run(ctx); err != nil {
		return nil, err
	}

	res.Trials = d.trials
	if d.bestIdx >= 0 {
		best := d.trials[d.bestIdx]
		res.Seed = best.Seed
		res.Objective = best.Objective
		if o.classes != nil {
			res.Entropy, res.Purity = best.Entropy, best.Purity
			ct, err := eval.NewContingency(res.Assignment, o.classes, k, o.trueK)
			if err != nil {
				return nil, translateError(err)
			}
			res.Contingency = ct
		}
	}

	log.LogBest(ctx, res, time.Since(start))
	return res, nil
}

type driver struct {
	m      *sparse.Matrix
	k      int
	dnorms []float64
	o      options
	log    *Logger

	mu      sync.Mutex
	trials  []TrialResult
	best    []int
	bestIdx int
}

// run feeds seed indices in order to a pool of workers. A single worker
// reproduces the sequential restart loop.
func (d *driver) run(ctx context.Context) error {
	if d.o.trials == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range d.o.trials {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range min(d.o.parallelism, d.o.trials) {
		g.Go(func() error {
			return d.worker(gctx, jobs)
		})
	}

	return g.Wait()
}

// worker owns one set of trial buffers and reuses it for every seed it receives.
func (d *driver) worker(ctx context.Context, jobs <-chan int) error {
	rc := d.o.controller

	run := d.o.runTrial
	if run == nil {
		bytes := kmeans.BufferBytes(d.m.Rows(), d.m.Cols(), d.k)
		if err := rc.AcquireMemory(ctx, bytes); err != nil {
			return err
		}
		defer rc.ReleaseMemory(bytes)

		trial, err := kmeans.NewTrial(d.m, d.dnorms, d.k, kmeans.Options{
			Tolerance:     d.o.tolerance,
			MaxIterations: d.o.maxIterations,
			Parallelism:   d.o.matVecParallelism,
		})
		if err != nil {
			return translateError(err)
		}
		run = trial.Run
	}

	for i := range jobs {
		if err := rc.AcquireTrial(ctx); err != nil {
			return err
		}
		err := d.trial(ctx, run, i)
		rc.ReleaseTrial()
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *driver) trial(ctx context.Context, run trialFunc, i int) error {
	seed := d.o.seeds[i]

	start := time.Now()
	out, err := run(ctx, seed)
	elapsed := time.Since(start)

	tr := TrialResult{Seed: seed, Duration: elapsed}
	if err != nil {
		d.o.metricsCollector.RecordTrial(seed, 0, 0, elapsed, err)
		d.log.WithSeed(seed).LogTrial(ctx, tr, err)
		return &ErrTrial{Seed: seed, cause: translateError(err)}
	}

	tr.Objective = out.Objective
	tr.Iterations = out.Iterations
	tr.Repairs = out.Repairs
	tr.Converged = out.Converged

	if d.o.classes != nil {
		scores, err := eval.Evaluate(out.Assignment, d.o.classes, d.k, d.o.trueK)
		if err != nil {
			return &ErrTrial{Seed: seed, cause: translateError(err)}
		}
		tr.Entropy, tr.Purity = scores.Entropy, scores.Purity
	}

	d.o.metricsCollector.RecordTrial(seed, out.Iterations, out.Repairs, elapsed, nil)
	d.log.WithSeed(seed).LogTrial(ctx, tr, nil)

	d.record(ctx, i, tr, out.Assignment)
	return nil
}

// record stores the trial and copies its assignment when it beats the current
// best. out aliases the worker's buffers, so the copy happens under the lock
// before the worker moves on.
func (d *driver) record(ctx context.Context, i int, tr TrialResult, out kmeans.Assignment) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.trials[i] = tr
	if d.bestIdx >= 0 {
		cur := d.trials[d.bestIdx].Objective
		if tr.Objective < cur || (tr.Objective == cur && i > d.bestIdx) {
			return
		}
	}

	d.bestIdx = i
	copy(d.best, out)
	d.o.metricsCollector.RecordImprovement(tr.Seed, tr.Objective)
	d.log.WithSeed(tr.Seed).DebugContext(ctx, "new best trial", "objective", tr.Objective)
}
