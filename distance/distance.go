package distance

import (
	"errors"
	"math"
)

// ErrZeroNorm is returned by Cosine when either operand has zero length.
var ErrZeroNorm = errors.New("distance: zero-norm vector")

// Integer is the set of element types Norm accepts.
type Integer interface {
	~int | ~int32 | ~int64
}

// Norm returns the Euclidean length of v using max-element rescaling:
// m * sqrt(sum((v_i/m)^2)) with m = max|v_i|. The zero vector has norm 0.
func Norm[T Integer](v []T) float64 {
	var m float64
	for _, x := range v {
		if a := math.Abs(float64(x)); a > m {
			m = a
		}
	}
	if m == 0 {
		return 0
	}

	var sum float64
	for _, x := range v {
		r := float64(x) / m
		sum += r * r
	}
	return m * math.Sqrt(sum)
}

// NormInt32 is Norm specialised for CSR value slices.
func NormInt32(v []int32) float64 { return Norm(v) }

// Cosine returns dot / (na * nb).
// Returns ErrZeroNorm if either norm is zero (the similarity is undefined).
func Cosine(dot int64, na, nb float64) (float64, error) {
	if na == 0 || nb == 0 {
		return 0, ErrZeroNorm
	}
	return float64(dot) / (na * nb), nil
}
