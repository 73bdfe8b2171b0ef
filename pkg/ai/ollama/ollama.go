package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

const (
	defaultTimeoutMin            = 5
	defaultMaxConcurrentRequests = 2
)

// EvalOllamaClient implements the ai.EvalAIClient interface using Ollama
// as the backend, embedding through locally-hosted models.
type EvalOllamaClient struct {
	embeddingModel string

	timeoutMin int
	maxTokens  int

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client

	Client *api.Client
}

// NewEvalOllamaClientParams contains configuration options for creating a new EvalOllamaClient.
type NewEvalOllamaClientParams struct {
	EmbeddingModel string

	BaseURL string
	ApiKey  string

	TimeoutMin            int
	MaxInputTokens        int
	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewEvalOllamaClient creates a new Ollama-based embedding client with the
// specified configuration. It connects to the Ollama server at the given
// BaseURL (or the default if empty) and uses the configured embedding model.
func NewEvalOllamaClient(
	params NewEvalOllamaClientParams,
) (*EvalOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	if params.TimeoutMin <= 0 {
		params.TimeoutMin = defaultTimeoutMin
	}
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = defaultMaxConcurrentRequests
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	cli := api.NewClient(u, httpClient)

	sem := semaphore.NewWeighted(params.MaxConcurrentRequests)

	return &EvalOllamaClient{
		embeddingModel: params.EmbeddingModel,

		timeoutMin: params.TimeoutMin,
		maxTokens:  params.MaxInputTokens,

		reqLock: sem,

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		baseURL:    u,
		apiKey:     params.ApiKey,
		httpClient: httpClient,

		Client: cli,
	}, nil
}
