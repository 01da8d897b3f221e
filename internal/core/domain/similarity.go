package domain

import (
	"fmt"
	"math"
)

// CosineSimilarity computes dot(a,b) / (||a|| * ||b||).
//
// Returns 0 if either vector has zero norm. Returns
// ErrDimensionMismatch if the vectors have different lengths, which
// always indicates a data-integrity bug (e.g. the embedding model
// changed without reindexing).
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
