package sphkmeans

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sphkmeans/eval"
	"github.com/hupe1980/sphkmeans/internal/kmeans"
)

var (
	// ErrInvalidK is returned when the number of clusters is not positive.
	ErrInvalidK = errors.New("number of clusters must be positive")

	// ErrNotEnoughDocuments is returned when the matrix has fewer rows than clusters.
	ErrNotEnoughDocuments = errors.New("fewer documents than clusters")

	// ErrLabelMismatch is returned when the ground truth does not cover every document.
	ErrLabelMismatch = errors.New("class labels do not match documents")

	// ErrInvalidTrueK is returned when the number of true classes is not positive.
	ErrInvalidTrueK = errors.New("number of classes must be positive")
)

// DataError reports a document that drives the similarity computation out of
// its numeric domain, such as a zero-norm row.
type DataError = kmeans.DataError

// ErrTrial wraps the failure of a single trial.
type ErrTrial struct {
	Seed  int64
	cause error
}

func (e *ErrTrial) Error() string {
	return fmt.Sprintf("trial with seed %d: %v", e.Seed, e.cause)
}

func (e *ErrTrial) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, kmeans.ErrInvalidK):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, kmeans.ErrNotEnoughDocuments):
		return fmt.Errorf("%w: %w", ErrNotEnoughDocuments, err)
	case errors.Is(err, eval.ErrLengthMismatch):
		return fmt.Errorf("%w: %w", ErrLabelMismatch, err)
	}

	var lr *eval.ErrLabelOutOfRange
	if errors.As(err, &lr) && lr.Kind == "class" {
		return fmt.Errorf("%w: %w", ErrLabelMismatch, err)
	}

	return err
}
