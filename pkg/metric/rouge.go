package metric

// RougeLScorer computes the ROUGE-L F1 measure: the longest common
// token subsequence between reference and candidate, combined from
// precision and recall. Range [0, 1]. Tokens are stemmed by default so
// inflection variants still line up.
type RougeLScorer struct {
	stem bool
}

func NewRougeLScorer() *RougeLScorer {
	return &RougeLScorer{stem: true}
}

func (s *RougeLScorer) Name() string {
	return "rougeL"
}

func (s *RougeLScorer) Score(reference, candidate string) float64 {
	refTokens := overlapTokens(reference, s.stem)
	candTokens := overlapTokens(candidate, s.stem)
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	lcs := lcsLength(refTokens, candTokens)
	if lcs == 0 {
		return 0
	}

	precision := float64(lcs) / float64(len(candTokens))
	recall := float64(lcs) / float64(len(refTokens))
	return 2 * precision * recall / (precision + recall)
}

func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				current[j] = previous[j-1] + 1
			case previous[j] >= current[j-1]:
				current[j] = previous[j]
			default:
				current[j] = current[j-1]
			}
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}
