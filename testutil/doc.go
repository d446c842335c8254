// Package testutil provides testing utilities for sphkmeans.
//
// This package is intended for use in tests and benchmarks only.
//
// # Synthetic Corpora
//
//	rng := testutil.NewRNG(seed)
//	c := rng.ClusteredCorpus(4, 25, 8)  // 4 topics, 25 docs each, 8 terms per topic
//	m := c.Matrix                        // *sparse.Matrix
//	labels := c.Classes                  // ground-truth topic per document
//
// Every document also carries one private term, so no two documents point in
// the same direction and clustering trials always converge.
package testutil
