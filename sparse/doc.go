// Package sparse provides the compressed sparse row (CSR) document matrix used by
// the clustering engine.
//
// Rows are documents, columns are term dimensions and values are non-negative
// integer term weights. A Matrix is immutable once built and safe for
// concurrent readers, so independent clustering trials can share one instance.
//
// # Building
//
//	b := sparse.NewBuilder()
//	_ = b.AddRow([]sparse.Entry{{Col: 0, Val: 3}, {Col: 1, Val: 4}})
//	m := b.Build()
//
// # Kernels
//
// The kernels operate on dense int64 buffers owned by the caller:
//
//	m.SliceRow(i, dst)       // dst[col] = val for row i (dst pre-zeroed)
//	m.MatVec(centroid, out)  // out[i] = <row i, centroid>
//	m.AccumulateRow(i, dst)  // dst[col] += val for row i
package sparse
