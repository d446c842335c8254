package kmeans

import (
	"context"
	"math"
	"math/rand"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sphkmeans/distance"
	"github.com/hupe1980/sphkmeans/sparse"
)

// DefaultTolerance is the slack allowed above a cosine of 1 before a
// similarity is treated as a numeric defect.
const DefaultTolerance = 0.1

// Options configures a Trial.
type Options struct {
	// Tolerance is the allowed floating point slack above a similarity of 1.
	Tolerance float64

	// MaxIterations bounds the number of passes. 0 means run until convergence.
	// Inputs whose seed centroids share a direction can make the empty-cluster
	// repair oscillate forever, so callers should set a bound.
	MaxIterations int

	// Parallelism is the number of goroutines computing per-centroid products.
	// Values <= 1 compute them sequentially.
	Parallelism int
}

// DefaultOptions are the options used when none are given.
var DefaultOptions = Options{
	Tolerance: DefaultTolerance,
}

// Outcome summarises a finished trial.
type Outcome struct {
	Seed       int64
	Objective  float64
	Iterations int
	Repairs    int
	// Converged is false when the trial stopped at MaxIterations.
	Converged bool
	// Assignment is the best assignment checkpointed during the trial.
	// It aliases the Trial's buffer and is overwritten by the next Run.
	Assignment Assignment
}

// Trial runs spherical k-means for one seed at a time.
// A Trial is not safe for concurrent use; create one per goroutine.
type Trial struct {
	m      *sparse.Matrix
	dnorms []float64
	k      int
	docs   int
	dims   int
	opts   Options

	centroids []int64 // k rows of dims
	cnorms    []float64
	prod      []int64 // k rows of docs
	counts    []int
	labels    Assignment
	best      Assignment

	rng *rand.Rand
}

// BufferBytes estimates the memory a Trial allocates for the given shape.
func BufferBytes(docs, dims, k int) int64 {
	const word = 8
	return int64(k)*int64(dims)*word + // centroids
		int64(k)*int64(docs)*word + // products
		int64(k)*2*word + // norms + counts
		int64(docs)*2*word // current + best assignment
}

// NewTrial allocates the working state for clustering m into k groups.
// dnorms holds the norm of every row of m and must not contain zeros.
func NewTrial(m *sparse.Matrix, dnorms []float64, k int, opts Options) (*Trial, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if m.Rows() < k {
		return nil, ErrNotEnoughDocuments
	}
	if len(dnorms) != m.Rows() {
		panic("kmeans: document norms do not match matrix rows")
	}
	if err := CheckNorms(dnorms); err != nil {
		return nil, err
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}

	docs, dims := m.Rows(), m.Cols()
	return &Trial{
		m:         m,
		dnorms:    dnorms,
		k:         k,
		docs:      docs,
		dims:      dims,
		opts:      opts,
		centroids: make([]int64, k*dims),
		cnorms:    make([]float64, k),
		prod:      make([]int64, k*docs),
		counts:    make([]int, k),
		labels:    NewAssignment(docs),
		best:      NewAssignment(docs),
	}, nil
}

func (t *Trial) centroid(j int) []int64 { return t.centroids[j*t.dims : (j+1)*t.dims] }

func (t *Trial) product(j int) []int64 { return t.prod[j*t.docs : (j+1)*t.docs] }

// Run clusters the matrix from the given seed until no document changes
// cluster during a full pass. It returns the best objective seen and the
// assignment checkpointed with it.
//
// Every document starts in cluster 0, so a first pass that leaves all of them
// there counts as unchanged.
func (t *Trial) Run(ctx context.Context, seed int64) (Outcome, error) {
	t.rng = rand.New(rand.NewSource(seed))
	t.init()

	out := Outcome{Seed: seed, Objective: math.Inf(-1)}
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if t.opts.MaxIterations > 0 && out.Iterations >= t.opts.MaxIterations {
			break
		}
		out.Iterations++

		if err := t.similarities(ctx); err != nil {
			return Outcome{}, err
		}

		obj, changed, err := t.assign()
		if err != nil {
			return Outcome{}, err
		}

		checkpointed := false
		if obj > out.Objective {
			out.Objective = obj
			copy(t.best, t.labels)
			checkpointed = true
		}

		repaired := t.repair(checkpointed)
		if repaired {
			out.Repairs++
		}

		if changed || repaired {
			t.rebuild()
		}

		if !changed {
			out.Converged = true
			break
		}
	}

	out.Assignment = t.best
	return out, nil
}

// init picks k distinct seed documents and slices them into the centroids.
func (t *Trial) init() {
	clear(t.labels)
	t.best.Reset()
	clear(t.centroids)
	clear(t.counts)

	chosen := make(map[int]struct{}, t.k)
	seeds := make([]int, 0, t.k)
	for len(seeds) < t.k {
		d := t.rng.Intn(t.docs)
		if _, dup := chosen[d]; dup {
			continue
		}
		chosen[d] = struct{}{}
		seeds = append(seeds, d)
	}
	slices.Sort(seeds)

	for j, d := range seeds {
		c := t.centroid(j)
		t.m.SliceRow(d, c)
		t.cnorms[j] = t.m.RowNorm(d)
	}
}

// similarities fills prod[j] = M * centroid[j] for every cluster.
func (t *Trial) similarities(ctx context.Context) error {
	if t.opts.Parallelism <= 1 {
		for j := range t.k {
			t.m.MatVec(t.centroid(j), t.product(j))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Parallelism)
	for j := range t.k {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t.m.MatVec(t.centroid(j), t.product(j))
			return nil
		})
	}
	return g.Wait()
}

// assign moves every document to its most similar cluster (first wins on ties)
// and returns the objective of the pass and whether any label changed.
func (t *Trial) assign() (float64, bool, error) {
	clear(t.counts)
	changed := false
	obj := 0.0

	limit := 1 + t.opts.Tolerance
	for i := range t.docs {
		best, top := -1, math.Inf(-1)
		for j := range t.k {
			// A zero centroid attracts nothing; its cosine is undefined.
			if t.cnorms[j] == 0 {
				continue
			}
			sim, err := distance.Cosine(t.prod[j*t.docs+i], t.cnorms[j], t.dnorms[i])
			if err != nil {
				return 0, false, &DataError{Doc: i, Cluster: j, Reason: err.Error()}
			}
			if sim > limit || sim < -limit || math.IsNaN(sim) {
				return 0, false, &DataError{Doc: i, Cluster: j, Similarity: sim, Reason: "similarity out of bounds"}
			}
			if sim > top {
				top = sim
				best = j
			}
		}
		if best < 0 {
			return 0, false, &DataError{Doc: i, Cluster: -1, Reason: "no cluster with a non-zero centroid"}
		}

		if t.labels[i] != best {
			changed = true
			t.labels[i] = best
		}
		t.counts[best]++
		obj += top
	}
	return obj, changed, nil
}

// repair refills empty clusters with a random half of the strictly largest
// cluster (lowest id on ties). The largest cluster is computed and shuffled
// once per pass and every empty cluster receives the same first half, so with
// several empty clusters the highest empty id ends up owning it.
// When mirror is set, the moves are applied to the best assignment too.
func (t *Trial) repair(mirror bool) bool {
	if !slices.Contains(t.counts, 0) {
		return false
	}

	largest := 0
	for j, c := range t.counts {
		if c > t.counts[largest] {
			largest = j
		}
	}

	members := t.labels.Members(largest).ToArray()
	t.rng.Shuffle(len(members), func(a, b int) {
		members[a], members[b] = members[b], members[a]
	})
	half := members[:len(members)/2]

	for j, c := range t.counts {
		if c != 0 {
			continue
		}
		moveTo(t.labels, half, j)
		if mirror {
			moveTo(t.best, half, j)
		}
	}
	return true
}

func moveTo(a Assignment, docs []uint32, cluster int) {
	for _, d := range docs {
		a[d] = cluster
	}
}

// rebuild recomputes every centroid as the sum of its members and its norm.
func (t *Trial) rebuild() {
	clear(t.centroids)
	clear(t.prod)
	for i, c := range t.labels {
		t.m.AccumulateRow(i, t.centroid(c))
	}
	for j := range t.k {
		t.cnorms[j] = distance.Norm(t.centroid(j))
	}
}
