package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sphkmeans/sparse"
	"github.com/hupe1980/sphkmeans/testutil"
)

func buildMatrix(t *testing.T, rows [][]sparse.Entry) *sparse.Matrix {
	t.Helper()
	b := sparse.NewBuilder()
	for _, r := range rows {
		require.NoError(t, b.AddRow(r))
	}
	return b.Build()
}

// axisDocs are four 2-d documents: two lean towards x, two towards y.
func axisDocs(t *testing.T) *sparse.Matrix {
	return buildMatrix(t, [][]sparse.Entry{
		{{Col: 0, Val: 3}, {Col: 1, Val: 4}},
		{{Col: 0, Val: 4}, {Col: 1, Val: 3}},
		{{Col: 1, Val: 5}},
		{{Col: 0, Val: 5}},
	})
}

func TestTrial_AxisDocs(t *testing.T) {
	ctx := context.Background()
	m := axisDocs(t)

	trial, err := NewTrial(m, m.RowNorms(), 2, DefaultOptions)
	require.NoError(t, err)

	// {0,2} has centroid (3,9); each member has cosine 45/(5*sqrt(90)).
	dominant := 36 / math.Sqrt(90)

	found := false
	for seed := int64(1); seed < 40; seed += 2 {
		out, err := trial.Run(ctx, seed)
		require.NoError(t, err)
		assert.True(t, out.Converged)
		assert.Equal(t, seed, out.Seed)
		assert.LessOrEqual(t, out.Objective, dominant+1e-9)
		assert.Greater(t, out.Objective, 3.7)
		assert.NotContains(t, out.Assignment.Sizes(2), 0)

		if math.Abs(out.Objective-dominant) < 1e-9 {
			found = true
			assert.Equal(t, out.Assignment[0], out.Assignment[2])
			assert.Equal(t, out.Assignment[1], out.Assignment[3])
			assert.NotEqual(t, out.Assignment[0], out.Assignment[1])
		}
	}
	assert.True(t, found, "no seed reached the dominant-axis split")
}

func TestTrial_Deterministic(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewRNG(11).ClusteredCorpus(3, 15, 6)
	norms := c.Matrix.RowNorms()

	a, err := NewTrial(c.Matrix, norms, 3, DefaultOptions)
	require.NoError(t, err)
	b, err := NewTrial(c.Matrix, norms, 3, Options{Parallelism: 4})
	require.NoError(t, err)

	for _, seed := range []int64{1, 5, 33} {
		outA, err := a.Run(ctx, seed)
		require.NoError(t, err)
		gotA := outA.Assignment.Clone()

		outB, err := b.Run(ctx, seed)
		require.NoError(t, err)

		assert.Equal(t, outA.Objective, outB.Objective)
		assert.Equal(t, outA.Iterations, outB.Iterations)
		assert.Equal(t, gotA, outB.Assignment)

		// Re-running the same trial from the same seed reproduces it.
		again, err := a.Run(ctx, seed)
		require.NoError(t, err)
		assert.Equal(t, gotA, again.Assignment)
	}
}

func TestTrial_Properties(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewRNG(3).ClusteredCorpus(4, 12, 5)

	for _, k := range []int{1, 2, 4, 6} {
		trial, err := NewTrial(c.Matrix, c.Matrix.RowNorms(), k, DefaultOptions)
		require.NoError(t, err)

		for seed := int64(1); seed < 20; seed += 2 {
			out, err := trial.Run(ctx, seed)
			require.NoError(t, err)
			assert.True(t, out.Converged)
			assert.LessOrEqual(t, out.Objective, float64(c.Matrix.Rows())*(1+DefaultTolerance))
			assert.Greater(t, out.Objective, 0.0)
			assert.Len(t, out.Assignment, c.Matrix.Rows())
			for _, cl := range out.Assignment {
				assert.GreaterOrEqual(t, cl, 0)
				assert.Less(t, cl, k)
			}
			assert.NotContains(t, out.Assignment.Sizes(k), 0, "k=%d seed=%d", k, seed)
		}
	}
}

func TestTrial_SingleCluster(t *testing.T) {
	m := axisDocs(t)
	trial, err := NewTrial(m, m.RowNorms(), 1, DefaultOptions)
	require.NoError(t, err)

	out, err := trial.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Assignment{0, 0, 0, 0}, out.Assignment)
	assert.True(t, out.Converged)
	assert.Equal(t, 1, out.Iterations)
}

func TestTrial_EmptyClusterRepair(t *testing.T) {
	// Identical documents force every document into cluster 0 on the first pass,
	// leaving cluster 1 empty until the repair moves half of cluster 0 over.
	rows := make([][]sparse.Entry, 6)
	for i := range rows {
		rows[i] = []sparse.Entry{{Col: 0, Val: 2}}
	}
	m := buildMatrix(t, rows)

	trial, err := NewTrial(m, m.RowNorms(), 2, Options{MaxIterations: 50})
	require.NoError(t, err)

	out, err := trial.Run(context.Background(), 7)
	require.NoError(t, err)
	// The first pass leaves every document in cluster 0, so nothing changed:
	// the trial repairs once and stops.
	assert.True(t, out.Converged)
	assert.Equal(t, 1, out.Iterations)
	assert.Equal(t, 1, out.Repairs)
	assert.InDelta(t, 6.0, out.Objective, 1e-9)
	// The first pass is checkpointed and mirrors the repair.
	assert.Equal(t, []int{3, 3}, out.Assignment.Sizes(2))
}

func TestTrial_ParallelDocumentsConverge(t *testing.T) {
	// Distinct documents pointing the same way all tie into cluster 0.
	m := buildMatrix(t, [][]sparse.Entry{
		{{Col: 0, Val: 1}},
		{{Col: 0, Val: 2}},
		{{Col: 0, Val: 3}},
		{{Col: 0, Val: 4}},
	})

	trial, err := NewTrial(m, m.RowNorms(), 2, Options{MaxIterations: 5000})
	require.NoError(t, err)

	for _, seed := range []int64{1, 3, 5} {
		out, err := trial.Run(context.Background(), seed)
		require.NoError(t, err)
		assert.True(t, out.Converged, "seed=%d", seed)
		assert.Equal(t, 1, out.Iterations, "seed=%d", seed)
		assert.Equal(t, 1, out.Repairs, "seed=%d", seed)
		assert.InDelta(t, 4.0, out.Objective, 1e-9)
		assert.Equal(t, []int{2, 2}, out.Assignment.Sizes(2))
	}
}

func TestTrial_Repair(t *testing.T) {
	tests := []struct {
		name     string
		labels   []int
		counts   []int
		source   int // cluster the moved documents come from
		target   int // cluster that ends up owning them
		moved    int
		repaired bool
	}{
		{
			name:     "tie for largest goes to first cluster",
			labels:   []int{0, 0, 2, 2, 2, 0},
			counts:   []int{3, 0, 3, 0},
			source:   0,
			target:   3,
			moved:    1,
			repaired: true,
		},
		{
			name:     "strictly largest cluster",
			labels:   []int{0, 2, 2, 2, 2, 0},
			counts:   []int{2, 0, 4, 0},
			source:   2,
			target:   3,
			moved:    2,
			repaired: true,
		},
		{
			name:   "no empty cluster",
			labels: []int{0, 1, 2, 3, 0, 1},
			counts: []int{2, 2, 1, 1},
		},
	}

	rows := make([][]sparse.Entry, 6)
	for i := range rows {
		rows[i] = []sparse.Entry{{Col: int32(i), Val: 1}}
	}
	m := buildMatrix(t, rows)

	for _, tt := range tests {
		for _, mirror := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/mirror=%t", tt.name, mirror), func(t *testing.T) {
				trial, err := NewTrial(m, m.RowNorms(), len(tt.counts), DefaultOptions)
				require.NoError(t, err)
				trial.rng = rand.New(rand.NewSource(1))
				copy(trial.labels, tt.labels)
				copy(trial.best, tt.labels)
				copy(trial.counts, tt.counts)

				assert.Equal(t, tt.repaired, trial.repair(mirror))

				moved := 0
				for i, before := range tt.labels {
					after := trial.labels[i]
					if after == before {
						continue
					}
					moved++
					// Only members of the source cluster move, and every
					// empty cluster receives the same half, so the highest
					// empty id keeps it.
					assert.Equal(t, tt.source, before, "doc %d", i)
					assert.Equal(t, tt.target, after, "doc %d", i)
				}
				assert.Equal(t, tt.moved, moved)

				// Clusters other than the source keep their members.
				for i, before := range tt.labels {
					if before != tt.source {
						assert.Equal(t, before, trial.labels[i], "doc %d", i)
					}
				}

				if mirror {
					assert.Equal(t, trial.labels, trial.best)
				} else {
					assert.Equal(t, Assignment(tt.labels), trial.best)
				}
			})
		}
	}
}

func TestTrial_MaxIterations(t *testing.T) {
	c := testutil.NewRNG(5).ClusteredCorpus(3, 10, 4)
	trial, err := NewTrial(c.Matrix, c.Matrix.RowNorms(), 3, Options{MaxIterations: 1})
	require.NoError(t, err)

	out, err := trial.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, out.Converged)
	assert.Equal(t, 1, out.Iterations)
}

func TestTrial_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testutil.NewRNG(5).ClusteredCorpus(2, 10, 4)
	trial, err := NewTrial(c.Matrix, c.Matrix.RowNorms(), 2, DefaultOptions)
	require.NoError(t, err)

	_, err = trial.Run(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTrial_Errors(t *testing.T) {
	m := axisDocs(t)

	_, err := NewTrial(m, m.RowNorms(), 0, DefaultOptions)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = NewTrial(m, m.RowNorms(), 5, DefaultOptions)
	assert.ErrorIs(t, err, ErrNotEnoughDocuments)

	zero := buildMatrix(t, [][]sparse.Entry{{{Col: 0, Val: 1}}, nil})
	_, err = NewTrial(zero, zero.RowNorms(), 1, DefaultOptions)
	var de *DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Doc)
	assert.Equal(t, -1, de.Cluster)
}

func TestTrial_SimilarityGuard(t *testing.T) {
	m := axisDocs(t)
	// Understated document norms push cosines above 1+tolerance.
	norms := []float64{1, 1, 1, 1}
	trial, err := NewTrial(m, norms, 2, DefaultOptions)
	require.NoError(t, err)

	_, err = trial.Run(context.Background(), 1)
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Greater(t, de.Similarity, 1+DefaultTolerance)
}

func TestTrial_RunStartsFromClusterZero(t *testing.T) {
	m := axisDocs(t)
	trial, err := NewTrial(m, m.RowNorms(), 2, DefaultOptions)
	require.NoError(t, err)

	trial.rng = rand.New(rand.NewSource(1))
	trial.init()
	assert.Equal(t, Assignment{0, 0, 0, 0}, trial.labels)
	assert.Equal(t, Assignment{-1, -1, -1, -1}, trial.best)
}

func TestAssignment(t *testing.T) {
	a := NewAssignment(3)
	assert.Equal(t, Assignment{-1, -1, -1}, a)

	a[0], a[1], a[2] = 1, 0, 1
	assert.Equal(t, []int{1, 2}, a.Sizes(2))
	assert.Equal(t, []uint32{0, 2}, a.Members(1).ToArray())

	b := a.Clone()
	b[0] = 0
	assert.Equal(t, 1, a[0])
}

func TestBufferBytes(t *testing.T) {
	assert.Equal(t, int64(2*3*8+2*4*8+2*2*8+4*2*8), BufferBytes(4, 3, 2))
}
