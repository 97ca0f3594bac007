// Package matcher compares face embeddings and maintains the stored
// template over time. Embeddings are expected L2-normalized, so cosine
// similarity reduces to a dot product.
package matcher

import "math"

// Result is the outcome of comparing a live embedding against a stored
// template.
type Result struct {
	IsMatch    bool    `json:"is_match"`
	Similarity float64 `json:"similarity"`
}

// Compare scores two embeddings by dot product. A score exactly at the
// threshold counts as a match. Mismatched or empty vectors never match.
func Compare(live, stored []float64, threshold float64) Result {
	if len(live) == 0 || len(live) != len(stored) {
		return Result{}
	}
	var dot float64
	for i := range live {
		dot += live[i] * stored[i]
	}
	return Result{IsMatch: dot >= threshold, Similarity: dot}
}

// AdaptiveUpdate blends a fresh embedding into the stored template after
// a successful match, tracking gradual appearance drift. The result is
// re-normalized so future comparisons stay dot-product cosine. alpha is
// the weight of the new sample; the stored template dominates.
func AdaptiveUpdate(stored, live []float64, alpha float64) []float64 {
	if len(stored) != len(live) {
		return stored
	}
	blended := make([]float64, len(stored))
	for i := range stored {
		blended[i] = (1-alpha)*stored[i] + alpha*live[i]
	}
	return Normalize(blended)
}

// Normalize scales v to unit L2 length. A zero vector is returned
// unchanged.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
