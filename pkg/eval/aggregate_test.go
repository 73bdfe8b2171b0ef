package eval

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
)

// scoredResult builds a valid sample result with one question score per
// given value, scored identically under bleu4 and rougeL.
func scoredResult(id int, source string, scores ...float64) SampleResult {
	questions := make([]QuestionScore, len(scores))
	for i, score := range scores {
		questions[i] = QuestionScore{
			Reference: common.Question{
				Content: fmt.Sprintf("reference %d-%d is _", id, i),
				Options: []string{"A. x"},
				Correct: 0,
			},
			Statement:    fmt.Sprintf("reference %d-%d is x", id, i),
			MatchedIndex: 0,
			Matched: common.Question{
				Content: fmt.Sprintf("candidate %d-%d is _", id, i),
				Options: []string{"A. y"},
				Correct: 0,
			},
			MatchedText: fmt.Sprintf("candidate %d-%d is y", id, i),
			Scores:      map[string]float64{"bleu4": score, "rougeL": score},
		}
	}
	return SampleResult{
		ID:        id,
		Source:    source,
		Reference: len(scores),
		Candidate: len(scores) + 1,
		Questions: questions,
	}
}

func TestAggregateCounts(t *testing.T) {
	results := []SampleResult{
		scoredResult(1, "race", 0.2, 0.4),
		scoredResult(2, "race", 0.6, 0.8, 1.0),
		scoredResult(3, "race", 0.0),
	}

	groups := NewEvaluator().Aggregate(context.Background(), results)
	if len(groups) != 1 {
		t.Fatalf("Aggregate() produced %d groups, want 1", len(groups))
	}

	race := groups["race"]
	if race == nil {
		t.Fatal("Aggregate() is missing the race group")
	}
	if race.Samples != 3 {
		t.Errorf("Samples = %d, want 3", race.Samples)
	}
	if race.Failed != 0 {
		t.Errorf("Failed = %d, want 0", race.Failed)
	}
	if race.TotalReference != 6 {
		t.Errorf("TotalReference = %d, want 6", race.TotalReference)
	}
	if race.TotalCandidate != 9 {
		t.Errorf("TotalCandidate = %d, want 9", race.TotalCandidate)
	}

	stats, ok := race.Metrics["bleu4"]
	if !ok {
		t.Fatal("bleu4 stats missing")
	}
	if !almostEqual(stats.Mean, 0.5) {
		t.Errorf("Mean = %v, want 0.5", stats.Mean)
	}
	if !almostEqual(stats.Min, 0) {
		t.Errorf("Min = %v, want 0", stats.Min)
	}
	if !almostEqual(stats.Max, 1) {
		t.Errorf("Max = %v, want 1", stats.Max)
	}
	if wantStd := math.Sqrt(7.0 / 60.0); !almostEqual(stats.Std, wantStd) {
		t.Errorf("Std = %v, want %v", stats.Std, wantStd)
	}

	if race.FrechetDistance != nil {
		t.Error("FrechetDistance set without an embedding client")
	}
	if race.CentroidSimilarity != nil {
		t.Error("CentroidSimilarity set without an embedding client")
	}
}

func TestAggregateFailedSamples(t *testing.T) {
	results := []SampleResult{
		scoredResult(1, "dream", 0.5),
		{ID: 2, Source: "dream", Candidate: 4, Error: missingQuestions},
	}

	groups := NewEvaluator().Aggregate(context.Background(), results)
	dream := groups["dream"]
	if dream.Samples != 1 {
		t.Errorf("Samples = %d, want 1", dream.Samples)
	}
	if dream.Failed != 1 {
		t.Errorf("Failed = %d, want 1", dream.Failed)
	}
	if dream.TotalReference != 1 {
		t.Errorf("TotalReference = %d, want 1", dream.TotalReference)
	}
	if !almostEqual(dream.Metrics["bleu4"].Mean, 0.5) {
		t.Errorf("Mean = %v, want 0.5", dream.Metrics["bleu4"].Mean)
	}
}

func TestAggregateSplitsSources(t *testing.T) {
	results := []SampleResult{
		scoredResult(1, "race", 0.2),
		scoredResult(2, "dream", 0.8),
	}

	groups := NewEvaluator().Aggregate(context.Background(), results)
	if len(groups) != 2 {
		t.Fatalf("Aggregate() produced %d groups, want 2", len(groups))
	}
	if !almostEqual(groups["race"].Metrics["bleu4"].Mean, 0.2) {
		t.Errorf("race mean = %v, want 0.2", groups["race"].Metrics["bleu4"].Mean)
	}
	if !almostEqual(groups["dream"].Metrics["bleu4"].Mean, 0.8) {
		t.Errorf("dream mean = %v, want 0.8", groups["dream"].Metrics["bleu4"].Mean)
	}
}

func TestAggregateDistributional(t *testing.T) {
	evaluator := NewEvaluator(WithEmbeddingClient(&stubAIClient{}))

	groups := evaluator.Aggregate(context.Background(), []SampleResult{
		scoredResult(1, "race", 0.5, 0.7),
	})

	race := groups["race"]
	if race.FrechetDistance == nil {
		t.Fatal("FrechetDistance is nil with an embedding client")
	}
	if !almostEqual(*race.FrechetDistance, 0) {
		t.Errorf("FrechetDistance = %v, want 0 for identical embeddings", *race.FrechetDistance)
	}
	if race.CentroidSimilarity == nil {
		t.Fatal("CentroidSimilarity is nil with an embedding client")
	}
	if !almostEqual(*race.CentroidSimilarity, 1) {
		t.Errorf("CentroidSimilarity = %v, want 1 for identical embeddings", *race.CentroidSimilarity)
	}
}

func TestAggregateDistributionalFailureIsolation(t *testing.T) {
	client := &stubAIClient{errSubstring: "poison"}
	evaluator := NewEvaluator(WithEmbeddingClient(client))

	poisoned := scoredResult(1, "bad", 0.4)
	poisoned.Questions[0].Statement = "poison statement"
	poisoned.Questions[0].Reference.Content = "poison reference _"

	groups := evaluator.Aggregate(context.Background(), []SampleResult{
		poisoned,
		scoredResult(2, "good", 0.6),
	})

	bad := groups["bad"]
	if bad.FrechetDistance != nil || bad.CentroidSimilarity != nil {
		t.Error("distributional metrics set for the failing group")
	}
	if _, ok := bad.Metrics["bleu4"]; !ok {
		t.Error("per-question stats dropped for the failing group")
	}

	good := groups["good"]
	if good.FrechetDistance == nil || good.CentroidSimilarity == nil {
		t.Error("distributional metrics missing for the healthy group")
	}
}
