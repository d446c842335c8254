package eval

import "math"

// Scores holds the size-weighted entropy and purity of a clustering.
type Scores struct {
	Entropy float64 `json:"entropy"`
	Purity  float64 `json:"purity"`
}

// ClusterScore holds the entropy and purity of a single cluster.
type ClusterScore struct {
	Size    int     `json:"size"`
	Entropy float64 `json:"entropy"`
	Purity  float64 `json:"purity"`
}

// PerCluster returns the entropy (base 2) and purity of every cluster.
// Empty clusters report zero for both.
func (c *Contingency) PerCluster() []ClusterScore {
	out := make([]ClusterScore, c.clusters)
	for j := range out {
		n := c.sizes[j]
		out[j].Size = n
		if n == 0 {
			continue
		}
		for i := range c.classes {
			m := c.At(i, j)
			if m == 0 {
				continue
			}
			p := float64(m) / float64(n)
			out[j].Entropy -= p * math.Log2(p)
			if p > out[j].Purity {
				out[j].Purity = p
			}
		}
	}
	return out
}

// Scores aggregates per-cluster entropy and purity weighted by cluster size.
func (c *Contingency) Scores() Scores {
	var s Scores
	total := float64(c.total)
	for _, cs := range c.PerCluster() {
		w := float64(cs.Size) / total
		s.Entropy += w * cs.Entropy
		s.Purity += w * cs.Purity
	}
	return s
}

// Evaluate builds the contingency table and returns its scores.
func Evaluate(assignment, classes []int, k, trueK int) (Scores, error) {
	c, err := NewContingency(assignment, classes, k, trueK)
	if err != nil {
		return Scores{}, err
	}
	return c.Scores(), nil
}
