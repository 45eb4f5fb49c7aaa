package embeddings

import (
	"math"
	"sort"
)

// Cosine computes the cosine similarity between two vectors, in [-1, 1].
// If either vector has zero norm the result is 0.0; this is a defined
// degenerate case, not an error.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindSimilar returns the indices of candidates whose cosine similarity to
// query is at least threshold, sorted by similarity descending. Ties keep
// the original candidate order.
func FindSimilar(query []float32, candidates [][]float32, threshold float64) []int {
	type match struct {
		idx        int
		similarity float64
	}

	var matches []match
	for i, cand := range candidates {
		if sim := Cosine(query, cand); sim >= threshold {
			matches = append(matches, match{idx: i, similarity: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	indices := make([]int, len(matches))
	for i, m := range matches {
		indices[i] = m.idx
	}
	return indices
}
