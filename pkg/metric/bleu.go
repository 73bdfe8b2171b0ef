package metric

import (
	"math"
	"strings"
)

// BLEUScorer computes sentence-level BLEU-4 against a single
// reference, range [0, 1]. Zero n-gram numerators are smoothed with a
// small epsilon so short strings do not collapse the geometric mean
// to zero outright.
type BLEUScorer struct {
	epsilon float64
}

func NewBLEUScorer() *BLEUScorer {
	return &BLEUScorer{epsilon: 0.1}
}

func (s *BLEUScorer) Name() string {
	return "bleu4"
}

func (s *BLEUScorer) Score(reference, candidate string) float64 {
	refTokens := lexicalTokens(reference)
	candTokens := lexicalTokens(candidate)
	if len(candTokens) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= 4; n++ {
		logSum += 0.25 * math.Log(s.modifiedPrecision(refTokens, candTokens, n))
	}

	return brevityPenalty(len(refTokens), len(candTokens)) * math.Exp(logSum)
}

// modifiedPrecision is the clipped n-gram precision: candidate n-gram
// counts are capped at their reference counts before dividing by the
// candidate n-gram total.
func (s *BLEUScorer) modifiedPrecision(refTokens, candTokens []string, n int) float64 {
	candCounts := ngramCounts(candTokens, n)
	denominator := 0
	for _, count := range candCounts {
		denominator += count
	}
	if denominator < 1 {
		denominator = 1
	}

	refCounts := ngramCounts(refTokens, n)
	numerator := 0
	for gram, count := range candCounts {
		if refCount := refCounts[gram]; count > refCount {
			numerator += refCount
		} else {
			numerator += count
		}
	}

	if numerator == 0 {
		return s.epsilon / float64(denominator)
	}
	return float64(numerator) / float64(denominator)
}

func brevityPenalty(refLen, candLen int) float64 {
	if candLen >= refLen {
		return 1
	}
	if candLen == 0 {
		return 0
	}
	return math.Exp(1 - float64(refLen)/float64(candLen))
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}
