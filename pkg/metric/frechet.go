package metric

import (
	"errors"
	"fmt"
	"math"
)

// FrechetDistance estimates the distance between two embedding
// distributions under a diagonal covariance assumption: the squared
// distance between the set means plus the summed squared difference
// of per-dimension standard deviations. Lower is closer; identical
// sets score 0. The sets must hold the same number of vectors of the
// same dimension.
func FrechetDistance(references, candidates [][]float64) (float64, error) {
	if len(references) != len(candidates) {
		return 0, errors.New("embedding set sizes differ")
	}

	refMean, refVar, err := momentStats(references)
	if err != nil {
		return 0, fmt.Errorf("failed to compute reference moments: %w", err)
	}
	candMean, candVar, err := momentStats(candidates)
	if err != nil {
		return 0, fmt.Errorf("failed to compute candidate moments: %w", err)
	}
	if len(refMean) != len(candMean) {
		return 0, errors.New("embedding dimensions differ between sets")
	}

	distance := 0.0
	for i := range refMean {
		delta := refMean[i] - candMean[i]
		sigma := math.Sqrt(refVar[i]) - math.Sqrt(candVar[i])
		distance += delta*delta + sigma*sigma
	}
	return distance, nil
}

// CentroidSimilarity is the cosine similarity between the mean vectors
// of the two embedding sets, range [-1, 1]. Higher is closer.
func CentroidSimilarity(references, candidates [][]float64) (float64, error) {
	refMean, _, err := momentStats(references)
	if err != nil {
		return 0, fmt.Errorf("failed to compute reference centroid: %w", err)
	}
	candMean, _, err := momentStats(candidates)
	if err != nil {
		return 0, fmt.Errorf("failed to compute candidate centroid: %w", err)
	}
	if len(refMean) != len(candMean) {
		return 0, errors.New("embedding dimensions differ between sets")
	}

	return Cosine(refMean, candMean), nil
}

func momentStats(vectors [][]float64) (means, variances []float64, err error) {
	if len(vectors) == 0 {
		return nil, nil, errors.New("empty embedding set")
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, nil, errors.New("zero-dimensional embeddings")
	}

	means = make([]float64, dim)
	for _, vector := range vectors {
		if len(vector) != dim {
			return nil, nil, errors.New("inconsistent embedding dimensions")
		}
		for i, value := range vector {
			means[i] += value
		}
	}
	for i := range means {
		means[i] /= float64(len(vectors))
	}

	variances = make([]float64, dim)
	for _, vector := range vectors {
		for i, value := range vector {
			delta := value - means[i]
			variances[i] += delta * delta
		}
	}
	for i := range variances {
		variances[i] /= float64(len(vectors))
	}

	return means, variances, nil
}
