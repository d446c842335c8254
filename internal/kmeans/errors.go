package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when the number of clusters is not positive.
	ErrInvalidK = errors.New("kmeans: k must be positive")

	// ErrNotEnoughDocuments is returned when there are fewer documents than clusters.
	ErrNotEnoughDocuments = errors.New("kmeans: fewer documents than clusters")
)

// DataError reports input data that drives the numeric state out of its domain,
// e.g. a document with zero norm or a cosine similarity above 1+tolerance.
type DataError struct {
	Doc        int
	Cluster    int // -1 if not tied to a cluster
	Similarity float64
	Reason     string
}

func (e *DataError) Error() string {
	if e.Cluster < 0 {
		return fmt.Sprintf("data error: document %d: %s", e.Doc, e.Reason)
	}
	return fmt.Sprintf("data error: document %d, cluster %d: %s (similarity=%g)", e.Doc, e.Cluster, e.Reason, e.Similarity)
}

// CheckNorms returns a *DataError for the first document with zero length.
func CheckNorms(norms []float64) error {
	for i, n := range norms {
		if n == 0 {
			return &DataError{Doc: i, Cluster: -1, Reason: "zero-norm document"}
		}
	}
	return nil
}
