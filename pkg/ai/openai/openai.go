package openai

import (
	"sync"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const (
	defaultTimeoutMin            = 5
	defaultMaxConcurrentRequests = 4
)

// EvalOpenAIClient provides embeddings through an OpenAI-compatible
// API for the evaluation pipeline.
//
// An EvalOpenAIClient should be created using NewEvalOpenAIClient.
type EvalOpenAIClient struct {
	embeddingModel string

	embeddingURL string
	embeddingKey string

	timeoutMin int
	maxTokens  int

	embeddingLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	EmbeddingClient *openai.Client
}

// NewEvalOpenAIClientParams defines the configuration parameters for
// creating a new EvalOpenAIClient.
//
// EmbeddingModel specifies the model used for embeddings.
// EmbeddingURL and EmbeddingKey configure the embedding API endpoint.
// MaxInputTokens caps the encoder tokens sent per input (0 disables
// the cap). MaxConcurrentRequests bounds in-flight embedding requests.
type NewEvalOpenAIClientParams struct {
	EmbeddingModel string

	EmbeddingURL string
	EmbeddingKey string

	TimeoutMin            int
	MaxInputTokens        int
	MaxConcurrentRequests int64
}

// NewEvalOpenAIClient creates and returns a new EvalOpenAIClient
// configured with the provided parameters.
//
// Example:
//
//	params := openai.NewEvalOpenAIClientParams{
//		EmbeddingModel: "text-embedding-3-small",
//		EmbeddingURL:   "https://api.openai.com/v1",
//		EmbeddingKey:   os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewEvalOpenAIClient(params)
func NewEvalOpenAIClient(
	params NewEvalOpenAIClientParams,
) *EvalOpenAIClient {
	if params.TimeoutMin <= 0 {
		params.TimeoutMin = defaultTimeoutMin
	}
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = defaultMaxConcurrentRequests
	}

	return &EvalOpenAIClient{
		embeddingModel: params.EmbeddingModel,

		embeddingURL: params.EmbeddingURL,
		embeddingKey: params.EmbeddingKey,

		timeoutMin: params.TimeoutMin,
		maxTokens:  params.MaxInputTokens,

		embeddingLock: semaphore.NewWeighted(params.MaxConcurrentRequests),

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
