package sparse

import (
	"fmt"
	"iter"

	"github.com/hupe1980/sphkmeans/distance"
)

// Entry is a single non-zero cell of a row.
type Entry struct {
	Col int32
	Val int32
}

// Matrix is an immutable CSR matrix of non-negative integer values.
//
// rowPtr has Rows()+1 elements; the entries of row i live in
// cols[rowPtr[i]:rowPtr[i+1]] and vals[rowPtr[i]:rowPtr[i+1]].
type Matrix struct {
	rowPtr []int
	cols   []int32
	vals   []int32
	dims   int
}

// Rows returns the number of rows (documents).
func (m *Matrix) Rows() int { return len(m.rowPtr) - 1 }

// Cols returns the inferred dimensionality (1 + max column index).
func (m *Matrix) Cols() int { return m.dims }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.vals) }

// RowLen returns the number of entries in row i.
func (m *Matrix) RowLen(i int) int {
	m.checkRow(i)
	return m.rowPtr[i+1] - m.rowPtr[i]
}

// Row yields the entries of row i in storage order.
func (m *Matrix) Row(i int) iter.Seq[Entry] {
	m.checkRow(i)
	return func(yield func(Entry) bool) {
		for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
			if !yield(Entry{Col: m.cols[p], Val: m.vals[p]}) {
				return
			}
		}
	}
}

// SliceRow expands row i into dst, which must be pre-zeroed and hold Cols() elements.
func (m *Matrix) SliceRow(i int, dst []int64) {
	m.checkRow(i)
	m.checkDense(dst)
	for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
		dst[m.cols[p]] = int64(m.vals[p])
	}
}

// AccumulateRow adds row i into dst in place (dst += row i).
func (m *Matrix) AccumulateRow(i int, dst []int64) {
	m.checkRow(i)
	m.checkDense(dst)
	for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
		dst[m.cols[p]] += int64(m.vals[p])
	}
}

// MatVec computes dst[i] = sum(val * vec[col]) over the entries of every row i.
// vec must hold Cols() elements and dst Rows() elements.
func (m *Matrix) MatVec(vec []int64, dst []int64) {
	m.checkDense(vec)
	if len(dst) != m.Rows() {
		panic(fmt.Sprintf("sparse: matvec output has length %d, want %d", len(dst), m.Rows()))
	}
	for i := range dst {
		var sum int64
		for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
			sum += int64(m.vals[p]) * vec[m.cols[p]]
		}
		dst[i] = sum
	}
}

// RowNorm returns the Euclidean length of row i.
func (m *Matrix) RowNorm(i int) float64 {
	m.checkRow(i)
	return distance.NormInt32(m.vals[m.rowPtr[i]:m.rowPtr[i+1]])
}

// RowNorms returns the Euclidean length of every row.
func (m *Matrix) RowNorms() []float64 {
	norms := make([]float64, m.Rows())
	for i := range norms {
		norms[i] = m.RowNorm(i)
	}
	return norms
}

func (m *Matrix) checkRow(i int) {
	if i < 0 || i >= m.Rows() {
		panic(fmt.Sprintf("sparse: row index %d out of range [0,%d)", i, m.Rows()))
	}
}

func (m *Matrix) checkDense(v []int64) {
	if len(v) != m.dims {
		panic(fmt.Sprintf("sparse: dense vector has length %d, want %d", len(v), m.dims))
	}
}
