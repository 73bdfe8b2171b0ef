package eval

import (
	"context"
	"math"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/metric"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/quiz"
)

// MetricStats summarizes one metric's aligned scores within a source
// group. Std is the population standard deviation.
type MetricStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// SourceMetrics aggregates evaluation results for one source corpus.
// The corpus-level fields stay nil when no embedding client is
// configured or their computation failed for this group.
type SourceMetrics struct {
	Samples            int                    `json:"n_samples"`
	Failed             int                    `json:"n_failed"`
	TotalReference     int                    `json:"total_reference_questions"`
	TotalCandidate     int                    `json:"total_candidate_questions"`
	Metrics            map[string]MetricStats `json:"metrics"`
	FrechetDistance    *float64               `json:"frechet_distance,omitempty"`
	CentroidSimilarity *float64               `json:"centroid_similarity,omitempty"`
}

type sourceGroup struct {
	samples        int
	failed         int
	totalReference int
	totalCandidate int
	pools          map[string][]float64
	statements     []string
	matchedTexts   []string
	pairs          []string
	matchedPairs   []string
}

// Aggregate groups per-sample results by source and computes, per
// group, the aggregate statistics of every metric's aligned scores.
// Failed samples are counted but contribute no scores.
//
// The corpus-level distributional metrics compare the group's reference
// questions with the best-matched candidate subset (one candidate per
// reference, so both sets have equal cardinality): Fréchet distance
// over embedded question/answer pairs and centroid similarity over
// embedded statements. A failure in either computation leaves that
// field nil for the group and never aborts other metrics or groups.
func (e *Evaluator) Aggregate(ctx context.Context, results []SampleResult) map[string]*SourceMetrics {
	groups := make(map[string]*sourceGroup)
	for _, result := range results {
		group, ok := groups[result.Source]
		if !ok {
			group = &sourceGroup{pools: make(map[string][]float64)}
			groups[result.Source] = group
		}

		if result.Error != "" {
			group.failed++
			continue
		}

		group.samples++
		group.totalReference += result.Reference
		group.totalCandidate += result.Candidate

		for _, question := range result.Questions {
			for name, score := range question.Scores {
				group.pools[name] = append(group.pools[name], score)
			}
			group.statements = append(group.statements, question.Statement)
			group.matchedTexts = append(group.matchedTexts, question.MatchedText)
			group.pairs = append(group.pairs, pairText(question.Reference))
			group.matchedPairs = append(group.matchedPairs, pairText(question.Matched))
		}
	}

	out := make(map[string]*SourceMetrics, len(groups))
	for source, group := range groups {
		stats := make(map[string]MetricStats, len(group.pools))
		for name, scores := range group.pools {
			stats[name] = statsOf(scores)
		}

		metrics := &SourceMetrics{
			Samples:        group.samples,
			Failed:         group.failed,
			TotalReference: group.totalReference,
			TotalCandidate: group.totalCandidate,
			Metrics:        stats,
		}

		if e.client != nil && len(group.statements) > 0 && len(group.matchedTexts) > 0 {
			if distance, err := e.frechet(ctx, group.pairs, group.matchedPairs); err != nil {
				logger.Warn("[Eval] Frechet distance unavailable for source", "source", source, "error", err)
			} else {
				metrics.FrechetDistance = &distance
			}
			if similarity, err := e.centroid(ctx, group.statements, group.matchedTexts); err != nil {
				logger.Warn("[Eval] Centroid similarity unavailable for source", "source", source, "error", err)
			} else {
				metrics.CentroidSimilarity = &similarity
			}
		}

		out[source] = metrics
	}
	return out
}

func (e *Evaluator) frechet(ctx context.Context, refs, cands []string) (float64, error) {
	refVectors, err := e.embedTexts(ctx, refs)
	if err != nil {
		return 0, err
	}
	candVectors, err := e.embedTexts(ctx, cands)
	if err != nil {
		return 0, err
	}
	return metric.FrechetDistance(refVectors, candVectors)
}

func (e *Evaluator) centroid(ctx context.Context, refs, cands []string) (float64, error) {
	refVectors, err := e.embedTexts(ctx, refs)
	if err != nil {
		return 0, err
	}
	candVectors, err := e.embedTexts(ctx, cands)
	if err != nil {
		return 0, err
	}
	return metric.CentroidSimilarity(refVectors, candVectors)
}

// pairText renders a question as the query/answer pair the Fréchet
// metric embeds.
func pairText(question common.Question) string {
	query, answer := quiz.QueryAnswer(question)
	return strings.TrimSpace(query + " " + answer)
}

func statsOf(scores []float64) MetricStats {
	if len(scores) == 0 {
		return MetricStats{}
	}

	sum := 0.0
	min := scores[0]
	max := scores[0]
	for _, score := range scores {
		sum += score
		if score < min {
			min = score
		}
		if score > max {
			max = score
		}
	}
	mean := sum / float64(len(scores))

	variance := 0.0
	for _, score := range scores {
		delta := score - mean
		variance += delta * delta
	}
	variance /= float64(len(scores))

	return MetricStats{
		Mean: mean,
		Std:  math.Sqrt(variance),
		Min:  min,
		Max:  max,
	}
}
