package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/sphkmeans/sparse"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Corpus is a synthetic labelled document collection.
type Corpus struct {
	Matrix  *sparse.Matrix
	Rows    [][]sparse.Entry
	Classes []int
	Topics  []string
	DocIDs  []int
}

// ClusteredCorpus generates groups*perGroup documents. Documents of topic g draw
// term counts from their own block of terms columns, so topics are orthogonal.
// Each document additionally has a private column with value 1.
func (r *RNG) ClusteredCorpus(groups, perGroup, terms int) *Corpus {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := groups * perGroup
	c := &Corpus{
		Rows:    make([][]sparse.Entry, 0, docs),
		Classes: make([]int, 0, docs),
		Topics:  make([]string, groups),
		DocIDs:  make([]int, 0, docs),
	}
	for g := range groups {
		c.Topics[g] = fmt.Sprintf("topic-%02d", g)
	}

	b := sparse.NewBuilder(sparse.WithCapacity(docs, docs*(terms+1)))
	private := int32(groups * terms)
	for g := range groups {
		for d := range perGroup {
			row := make([]sparse.Entry, 0, terms+1)
			for k := range terms {
				v := int32(r.rand.Intn(4))
				if k == d%terms && v == 0 {
					v = 1
				}
				if v > 0 {
					row = append(row, sparse.Entry{Col: int32(g*terms + k), Val: v})
				}
			}
			row = append(row, sparse.Entry{Col: private, Val: 1})
			private++

			if err := b.AddRow(row); err != nil {
				panic(err)
			}
			c.Rows = append(c.Rows, row)
			c.Classes = append(c.Classes, g)
			c.DocIDs = append(c.DocIDs, 1000+len(c.DocIDs))
		}
	}
	c.Matrix = b.Build()
	return c
}

// InputText renders the corpus in the comma separated triple format
// (docid,col,val,...) with one document per line.
func (c *Corpus) InputText() string {
	var sb strings.Builder
	for i, row := range c.Rows {
		for j, e := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%d,%d,%d", c.DocIDs[i], e.Col, e.Val)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ClassText renders the ground truth as docid,topic lines.
func (c *Corpus) ClassText() string {
	var sb strings.Builder
	for i, cls := range c.Classes {
		fmt.Fprintf(&sb, "%d,%s\n", c.DocIDs[i], c.Topics[cls])
	}
	return sb.String()
}
