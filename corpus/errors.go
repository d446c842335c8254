package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyClasses is returned when a class file names more labels than allowed.
	ErrTooManyClasses = errors.New("corpus: too many classes")

	// ErrDocumentMismatch is returned when a class file does not list the
	// matrix documents in the same order.
	ErrDocumentMismatch = errors.New("corpus: class file does not match documents")
)

// ParseError reports a malformed field.
type ParseError struct {
	Line  int
	Field int
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("corpus: line %d, field %d: %v", e.Line, e.Field, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }
