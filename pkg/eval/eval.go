// Package eval aligns generated questions with their reference sets,
// scores the matches, and aggregates the scores per source corpus.
//
// Evaluation follows a recall strategy: every reference question is
// credited with the best-scoring candidate available, so a strong
// candidate may be matched more than once. Samples are independent and
// evaluated concurrently; results are merged and sorted by sample id.
package eval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/align"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/metric"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/quiz"
)

const (
	cosineMetric     = "cosine"
	missingQuestions = "missing questions"
	defaultWorkers   = 4
)

// Sample pairs the reference questions of one dataset item with the
// questions a generator produced for it.
type Sample struct {
	ID        int               `json:"id"`
	Source    string            `json:"source"`
	Reference []common.Question `json:"reference"`
	Candidate []common.Question `json:"candidate"`
}

// QuestionScore records how one reference question fared against the
// candidate set: the statement it was flattened to, the candidate the
// primary alignment selected, and one score per metric.
type QuestionScore struct {
	Reference    common.Question    `json:"reference"`
	Statement    string             `json:"statement"`
	MatchedIndex int                `json:"matched_index"`
	Matched      common.Question    `json:"matched"`
	MatchedText  string             `json:"matched_statement"`
	Scores       map[string]float64 `json:"scores"`
}

// SampleResult is the outcome of evaluating one sample. A sample with
// an empty reference or candidate set carries an Error instead of
// question scores and is excluded from score aggregation.
type SampleResult struct {
	ID        int             `json:"id"`
	Source    string          `json:"source"`
	Reference int             `json:"n_reference"`
	Candidate int             `json:"n_candidate"`
	Error     string          `json:"error,omitempty"`
	Questions []QuestionScore `json:"question_scores,omitempty"`
}

// Evaluator scores generated question sets against reference sets.
// The zero configuration evaluates lexically with BLEU-4 and ROUGE-L;
// an embedding client adds cosine alignment and the corpus-level
// distributional metrics.
type Evaluator struct {
	scorers  []metric.Scorer
	client   ai.EvalAIClient
	workers  int
	progress func(done, total int)
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEmbeddingClient configures the embedding client used for semantic
// alignment and corpus-level metrics. Without one, evaluation is
// lexical only.
func WithEmbeddingClient(client ai.EvalAIClient) EvaluatorOption {
	return func(e *Evaluator) {
		e.client = client
	}
}

// WithWorkers bounds how many samples are evaluated concurrently.
func WithWorkers(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithScorers replaces the default lexical scorer set. Alignment uses
// the mean of the configured scorers.
func WithScorers(scorers ...metric.Scorer) EvaluatorOption {
	return func(e *Evaluator) {
		if len(scorers) > 0 {
			e.scorers = scorers
		}
	}
}

// WithProgress registers a callback invoked after each evaluated
// sample. Calls from concurrent workers may arrive slightly out of
// order; consumers should treat done as a lower bound.
func WithProgress(fn func(done, total int)) EvaluatorOption {
	return func(e *Evaluator) {
		e.progress = fn
	}
}

// NewEvaluator creates an Evaluator with the given options applied.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		scorers: []metric.Scorer{metric.NewBLEUScorer(), metric.NewRougeLScorer()},
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateAll evaluates every sample on a bounded worker pool and
// returns the per-sample results sorted by sample id. Samples that
// cannot be scored produce failed results; only context cancellation
// aborts the run.
func (e *Evaluator) EvaluateAll(ctx context.Context, samples []Sample) ([]SampleResult, error) {
	results := make([]SampleResult, 0, len(samples))
	var mu sync.Mutex

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for _, sample := range samples {
		s := sample
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			result := e.evaluateSample(ectx, s)
			mu.Lock()
			results = append(results, result)
			done := len(results)
			mu.Unlock()
			if e.progress != nil {
				e.progress(done, len(samples))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate samples: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (e *Evaluator) evaluateSample(ctx context.Context, sample Sample) SampleResult {
	result := SampleResult{
		ID:        sample.ID,
		Source:    sample.Source,
		Reference: len(sample.Reference),
		Candidate: len(sample.Candidate),
	}
	if len(sample.Reference) == 0 || len(sample.Candidate) == 0 {
		result.Error = missingQuestions
		return result
	}

	refTexts := statements(sample.Reference)
	candTexts := statements(sample.Candidate)

	lexical := align.BestMatches(refTexts, candTexts, metric.NewMeanScorer(e.scorers...))

	var semantic []align.Match
	if e.client != nil {
		matches, err := e.semanticMatches(ctx, refTexts, candTexts)
		if err != nil {
			logger.Warn("[Eval] Semantic alignment failed, keeping lexical scores only",
				"sample", sample.ID, "error", err)
		} else {
			semantic = matches
		}
	}

	primary := lexical
	if semantic != nil {
		primary = semantic
	}

	questions := make([]QuestionScore, len(sample.Reference))
	for i := range sample.Reference {
		scores := make(map[string]float64, len(e.scorers)+1)
		for _, scorer := range e.scorers {
			scores[scorer.Name()] = scorer.Score(refTexts[i], candTexts[lexical[i].Index])
		}
		if semantic != nil {
			scores[cosineMetric] = semantic[i].Score
		}

		match := primary[i]
		questions[i] = QuestionScore{
			Reference:    sample.Reference[i],
			Statement:    refTexts[i],
			MatchedIndex: match.Index,
			Matched:      sample.Candidate[match.Index],
			MatchedText:  candTexts[match.Index],
			Scores:       scores,
		}
	}
	result.Questions = questions
	return result
}

// semanticMatches aligns references with candidates on the cosine
// similarity of their embeddings.
func (e *Evaluator) semanticMatches(ctx context.Context, refTexts, candTexts []string) ([]align.Match, error) {
	refVectors, err := e.embedTexts(ctx, refTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed reference questions: %w", err)
	}
	candVectors, err := e.embedTexts(ctx, candTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed candidate questions: %w", err)
	}
	return align.FromMatrix(metric.CosineMatrix(refVectors, candVectors)), nil
}

func (e *Evaluator) embedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	inputs := make([][]byte, len(texts))
	for i, text := range texts {
		inputs[i] = []byte(text)
	}

	vectors, err := e.client.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d want %d", len(vectors), len(texts))
	}

	out := make([][]float64, len(vectors))
	for i, vector := range vectors {
		row := make([]float64, len(vector))
		for j, v := range vector {
			row[j] = float64(v)
		}
		out[i] = row
	}
	return out, nil
}

func statements(questions []common.Question) []string {
	texts := make([]string, len(questions))
	for i, question := range questions {
		texts[i] = quiz.Statement(question)
	}
	return texts
}
