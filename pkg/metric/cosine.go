package metric

import "math"

// Cosine returns the cosine similarity between two vectors, range
// [-1, 1]. Mismatched dimensions and zero vectors score 0 rather than
// erroring, so one broken embedding cannot poison a whole matrix.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineMatrix computes the full reference x candidate similarity
// matrix. Row i holds the similarities of references[i] against every
// candidate.
func CosineMatrix(references, candidates [][]float64) [][]float64 {
	matrix := make([][]float64, len(references))
	for i, reference := range references {
		row := make([]float64, len(candidates))
		for j, candidate := range candidates {
			row[j] = Cosine(reference, candidate)
		}
		matrix[i] = row
	}
	return matrix
}
