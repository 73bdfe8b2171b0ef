package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
)

// CachingAIClient wraps an EvalAIClient with a persistent embedding
// cache. Cache keys combine the model name and the input text, so one
// store can hold vectors from multiple models. Cache failures degrade
// to the wrapped client and are logged, never returned.
type CachingAIClient struct {
	inner   ai.EvalAIClient
	storage EvalStorage
	model   string
}

type NewCachingAIClientParams struct {
	// Inner is the client that generates embeddings on cache misses.
	Inner ai.EvalAIClient
	// Storage persists generated embeddings between runs.
	Storage EvalStorage
	// Model is the embedding model name used for cache keys.
	Model string
}

// NewCachingAIClient creates a caching wrapper around an existing
// embedding client.
func NewCachingAIClient(params NewCachingAIClientParams) *CachingAIClient {
	return &CachingAIClient{
		inner:   params.Inner,
		storage: params.Storage,
		model:   params.Model,
	}
}

// GenerateEmbedding returns the cached vector for the input when
// present and generates plus stores it otherwise.
func (c *CachingAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	res, err := c.GenerateEmbeddings(ctx, [][]byte{input})
	if err != nil {
		return nil, err
	}
	if len(res) != 1 {
		return nil, fmt.Errorf("unexpected embedding result size: got %d want 1", len(res))
	}
	return res[0], nil
}

// GenerateEmbeddings resolves as many inputs as possible from the cache
// and sends only the misses to the wrapped client. Results keep input
// order. Empty or whitespace-only inputs are never cached.
func (c *CachingAIClient) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(inputs))
	keys := make([]string, len(inputs))
	cacheable := make([]bool, len(inputs))
	lookup := make([]string, 0, len(inputs))
	for i, in := range inputs {
		if len(strings.TrimSpace(string(in))) == 0 {
			continue
		}
		keys[i] = util.EmbeddingKey(c.model, string(in))
		cacheable[i] = true
		lookup = append(lookup, keys[i])
	}

	cached := map[string][]float32{}
	if len(lookup) > 0 {
		found, err := c.storage.GetCachedEmbeddings(ctx, lookup)
		if err != nil {
			logger.Warn("[Cache] Failed to read embedding cache", "error", err)
		} else if found != nil {
			cached = found
		}
	}

	missing := make([][]byte, 0, len(inputs))
	missingIdx := make([]int, 0, len(inputs))
	for i := range inputs {
		if cacheable[i] {
			if vec, ok := cached[keys[i]]; ok {
				out[i] = vec
				continue
			}
		}
		missing = append(missing, inputs[i])
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		generated, err := c.inner.GenerateEmbeddings(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(generated) != len(missing) {
			return nil, fmt.Errorf("embedding result size mismatch: got %d want %d", len(generated), len(missing))
		}
		fresh := make(map[string][]float32, len(missing))
		for j, idx := range missingIdx {
			out[idx] = generated[j]
			if cacheable[idx] {
				fresh[keys[idx]] = generated[j]
			}
		}
		if len(fresh) > 0 {
			if err := c.storage.PutCachedEmbeddings(ctx, fresh); err != nil {
				logger.Warn("[Cache] Failed to write embedding cache", "error", err)
			}
		}
	}

	return out, nil
}

// GenerateEmbeddingsChunks flattens the chunks and embeds them through
// the cache, preserving chunk order and input order within each chunk.
func (c *CachingAIClient) GenerateEmbeddingsChunks(ctx context.Context, chunks [][][]byte) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	flat := make([][]byte, 0, total)
	for _, chunk := range chunks {
		flat = append(flat, chunk...)
	}
	return c.GenerateEmbeddings(ctx, flat)
}

// ResetMetrics resets the wrapped client's usage metrics.
func (c *CachingAIClient) ResetMetrics() {
	c.inner.ResetMetrics()
}

// GetMetrics returns the wrapped client's usage metrics. Cache hits do
// not contribute to the metrics.
func (c *CachingAIClient) GetMetrics() ai.ModelMetrics {
	return c.inner.GetMetrics()
}
