// Package sphkmeans clusters sparse document vectors with spherical k-means.
//
// Documents are rows of a sparse.Matrix holding non-negative integer term
// counts. Each trial seeds K centroids from distinct documents, assigns every
// document to its most cosine-similar centroid and rebuilds the centroids
// until no document changes cluster. Run repeats the trial over a fixed
// sequence of seeds and keeps the one with the greatest objective, the sum of
// every document's similarity to its centroid.
//
// # Quick Start
//
//	m, docIDs, _ := corpus.ReadMatrix(f)
//	res, _ := sphkmeans.Run(ctx, m, 20, sphkmeans.WithTrials(20))
//	fmt.Printf("obj: %.3f seed: %d\n", res.Objective, res.Seed)
//
// # Ground Truth
//
// With WithGroundTruth, every trial's best assignment is scored against the
// supplied class labels and the winning trial carries its entropy, purity and
// contingency table:
//
//	res, _ := sphkmeans.Run(ctx, m, 20, sphkmeans.WithGroundTruth(classes, 20))
//	fmt.Printf("entropy: %.3f purity: %.3f\n", res.Entropy, res.Purity)
//
// # Concurrency
//
// Trials run one after another by default. WithParallelism runs them
// concurrently with private buffers; the selected trial is the same as in
// sequential mode because ties are broken by position in the seed sequence.
// A shared resource.Controller bounds trial slots and buffer memory across
// runs.
package sphkmeans
