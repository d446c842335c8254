// Package distance provides the vector math used by spherical k-means.
//
// All vectors are integer-valued (term counts and their sums), so norms are
// computed with max-element rescaling: every squared term stays in [0,1]
// regardless of the magnitude of the input.
//
// # Usage
//
//	n := distance.Norm(centroid)
//	sim, err := distance.Cosine(dot, n, docNorm)
package distance
