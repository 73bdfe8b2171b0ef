// Package metric provides the text and embedding similarity scores the
// evaluation pipeline aligns questions with.
package metric

// Scorer rates how well a candidate text matches a reference text.
// Every implementation in this package treats higher as better and
// documents its own output range.
type Scorer interface {
	Name() string
	Score(reference, candidate string) float64
}

// MeanScorer averages the scores of its component scorers, range
// [0, 1] when every component stays in that range.
type MeanScorer struct {
	scorers []Scorer
}

func NewMeanScorer(scorers ...Scorer) *MeanScorer {
	return &MeanScorer{scorers: scorers}
}

func (s *MeanScorer) Name() string {
	return "combined"
}

func (s *MeanScorer) Score(reference, candidate string) float64 {
	if len(s.scorers) == 0 {
		return 0
	}

	total := 0.0
	for _, scorer := range s.scorers {
		total += scorer.Score(reference, candidate)
	}
	return total / float64(len(s.scorers))
}
