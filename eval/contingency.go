package eval

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when assignment and class slices differ in length.
	ErrLengthMismatch = errors.New("eval: assignment and classes differ in length")
	// ErrEmpty is returned when there are no documents to score.
	ErrEmpty = errors.New("eval: no documents")
)

// ErrLabelOutOfRange reports a cluster or class id outside its declared range.
type ErrLabelOutOfRange struct {
	Doc   int
	Kind  string // "cluster" or "class"
	Label int
	Limit int
}

func (e *ErrLabelOutOfRange) Error() string {
	return fmt.Sprintf("eval: document %d: %s %d out of range [0,%d)", e.Doc, e.Kind, e.Label, e.Limit)
}

// Contingency is a trueK x K table of (class, cluster) co-occurrence counts,
// stored row-major with one row per class.
type Contingency struct {
	classes  int
	clusters int
	counts   []int
	sizes    []int // documents per cluster
	total    int
}

// NewContingency counts (class, cluster) pairs for every document.
func NewContingency(assignment, classes []int, k, trueK int) (*Contingency, error) {
	if len(assignment) != len(classes) {
		return nil, ErrLengthMismatch
	}
	if len(assignment) == 0 {
		return nil, ErrEmpty
	}

	c := &Contingency{
		classes:  trueK,
		clusters: k,
		counts:   make([]int, trueK*k),
		sizes:    make([]int, k),
		total:    len(assignment),
	}
	for doc, j := range assignment {
		i := classes[doc]
		if j < 0 || j >= k {
			return nil, &ErrLabelOutOfRange{Doc: doc, Kind: "cluster", Label: j, Limit: k}
		}
		if i < 0 || i >= trueK {
			return nil, &ErrLabelOutOfRange{Doc: doc, Kind: "class", Label: i, Limit: trueK}
		}
		c.counts[i*k+j]++
		c.sizes[j]++
	}
	return c, nil
}

// Classes returns the number of ground-truth classes (rows).
func (c *Contingency) Classes() int { return c.classes }

// Clusters returns the number of clusters (columns).
func (c *Contingency) Clusters() int { return c.clusters }

// Total returns the number of documents counted.
func (c *Contingency) Total() int { return c.total }

// At returns the number of documents of class i assigned to cluster j.
func (c *Contingency) At(class, cluster int) int {
	return c.counts[class*c.clusters+cluster]
}

// Size returns the number of documents in cluster j.
func (c *Contingency) Size(cluster int) int { return c.sizes[cluster] }

// ByCluster returns the table in K x trueK orientation, one row per cluster,
// which is how it is printed for humans.
func (c *Contingency) ByCluster() [][]int {
	out := make([][]int, c.clusters)
	for j := range out {
		row := make([]int, c.classes)
		for i := range row {
			row[i] = c.At(i, j)
		}
		out[j] = row
	}
	return out
}
