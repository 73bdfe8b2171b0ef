package metric

import "testing"

func TestFrechetDistance(t *testing.T) {
	t.Run("identical sets score zero", func(t *testing.T) {
		set := [][]float64{{1, 2}, {3, 4}, {5, 6}}
		got, err := FrechetDistance(set, set)
		if err != nil {
			t.Fatalf("FrechetDistance() error = %v", err)
		}
		if !almostEqual(got, 0) {
			t.Errorf("FrechetDistance() = %v, want 0", got)
		}
	})

	t.Run("shifted sets score positive", func(t *testing.T) {
		references := [][]float64{{0, 0}, {1, 1}}
		candidates := [][]float64{{10, 10}, {11, 11}}
		got, err := FrechetDistance(references, candidates)
		if err != nil {
			t.Fatalf("FrechetDistance() error = %v", err)
		}
		if got <= 0 {
			t.Errorf("FrechetDistance() = %v, want positive", got)
		}
	})

	t.Run("closer sets score lower", func(t *testing.T) {
		references := [][]float64{{0, 0}, {1, 1}}
		near := [][]float64{{0.5, 0.5}, {1.5, 1.5}}
		far := [][]float64{{10, 10}, {12, 12}}

		nearScore, err := FrechetDistance(references, near)
		if err != nil {
			t.Fatalf("FrechetDistance() error = %v", err)
		}
		farScore, err := FrechetDistance(references, far)
		if err != nil {
			t.Fatalf("FrechetDistance() error = %v", err)
		}
		if nearScore >= farScore {
			t.Errorf("near = %v should be lower than far = %v", nearScore, farScore)
		}
	})

	t.Run("empty set errors", func(t *testing.T) {
		if _, err := FrechetDistance(nil, [][]float64{{1}}); err == nil {
			t.Error("FrechetDistance() error = nil, want error")
		}
	})

	t.Run("dimension mismatch errors", func(t *testing.T) {
		if _, err := FrechetDistance([][]float64{{1, 2}}, [][]float64{{1, 2, 3}}); err == nil {
			t.Error("FrechetDistance() error = nil, want error")
		}
	})

	t.Run("set size mismatch errors", func(t *testing.T) {
		references := [][]float64{{1, 2}, {3, 4}}
		candidates := [][]float64{{1, 2}, {3, 4}, {5, 6}}
		if _, err := FrechetDistance(references, candidates); err == nil {
			t.Error("FrechetDistance() error = nil, want error")
		}
	})

	t.Run("ragged set errors", func(t *testing.T) {
		if _, err := FrechetDistance([][]float64{{1, 2}, {1}}, [][]float64{{1, 2}, {3, 4}}); err == nil {
			t.Error("FrechetDistance() error = nil, want error")
		}
	})
}

func TestCentroidSimilarity(t *testing.T) {
	t.Run("aligned centroids score one", func(t *testing.T) {
		references := [][]float64{{1, 0}, {1, 0}}
		candidates := [][]float64{{2, 0}}
		got, err := CentroidSimilarity(references, candidates)
		if err != nil {
			t.Fatalf("CentroidSimilarity() error = %v", err)
		}
		if !almostEqual(got, 1) {
			t.Errorf("CentroidSimilarity() = %v, want 1", got)
		}
	})

	t.Run("orthogonal centroids score zero", func(t *testing.T) {
		references := [][]float64{{1, 0}}
		candidates := [][]float64{{0, 1}}
		got, err := CentroidSimilarity(references, candidates)
		if err != nil {
			t.Fatalf("CentroidSimilarity() error = %v", err)
		}
		if !almostEqual(got, 0) {
			t.Errorf("CentroidSimilarity() = %v, want 0", got)
		}
	})

	t.Run("empty set errors", func(t *testing.T) {
		if _, err := CentroidSimilarity([][]float64{{1}}, nil); err == nil {
			t.Error("CentroidSimilarity() error = nil, want error")
		}
	})
}
