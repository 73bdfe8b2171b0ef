package ai

import "context"

// ModelMetrics contains accumulated usage and timing metrics from
// embedding model operations.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	WallClockMs    int64   `json:"wall_clock_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// EvalAIClient defines the model operations the evaluation pipeline
// depends on: vector embeddings plus usage accounting. Implementations
// bound their own request concurrency and timeouts, so callers may
// treat every call as a local, bounded-latency operation.
//
// Empty or whitespace-only inputs embed to the zero vector of the
// configured dimension rather than erroring; batch results keep input
// order.
type EvalAIClient interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)
	GenerateEmbeddingsChunks(ctx context.Context, chunks [][][]byte) ([][]float32, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
