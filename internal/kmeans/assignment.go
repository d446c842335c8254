package kmeans

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Assignment maps each document index to a cluster id.
// A value of -1 marks a document that has not been assigned yet.
type Assignment []int

// NewAssignment returns an assignment of n unassigned documents.
func NewAssignment(n int) Assignment {
	a := make(Assignment, n)
	a.Reset()
	return a
}

// Reset marks every document as unassigned.
func (a Assignment) Reset() {
	for i := range a {
		a[i] = -1
	}
}

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment { return slices.Clone(a) }

// Members returns the documents assigned to cluster.
func (a Assignment) Members(cluster int) *roaring.Bitmap {
	bm := roaring.New()
	for doc, c := range a {
		if c == cluster {
			bm.Add(uint32(doc))
		}
	}
	return bm
}

// Sizes returns the number of documents in each of the k clusters.
func (a Assignment) Sizes(k int) []int {
	sizes := make([]int, k)
	for _, c := range a {
		if c >= 0 && c < k {
			sizes[c]++
		}
	}
	return sizes
}
