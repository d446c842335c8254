// Package kmeans implements one trial of spherical k-means over a sparse
// document matrix.
//
// A Trial owns every mutable buffer of a clustering run (centroids, similarity
// products, current and best assignment, cluster sizes), so distinct Trials may
// run concurrently against the same read-only matrix.
//
// Centroids are the integer sums of their members' raw vectors; similarity is
// the cosine between a document and a centroid. Empty clusters are refilled
// with a random half of the largest cluster.
package kmeans
