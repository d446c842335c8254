// Package eval scores a clustering against ground-truth class labels.
//
// Scores are derived from a class-by-cluster contingency table:
//
//	entropy = sum_j (n_j/N) * H(j),  H(j) = -sum_i p_ij log2 p_ij
//	purity  = sum_j (n_j/N) * max_i p_ij
//
// with p_ij = n_ij / n_j. Empty clusters contribute zero to both sums.
package eval
