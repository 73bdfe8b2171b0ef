package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/errgroup"
)

const defaultDimensions = 4096

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model on Ollama.
//
// The input is provided as a byte slice and converted to a string before
// being sent to the embedding model. The returned slice contains the
// embedding vector as float32 values.
func (c *EvalOllamaClient) GenerateEmbedding(
	ctx context.Context,
	input []byte,
) ([]float32, error) {
	res, err := c.GenerateEmbeddings(ctx, [][]byte{input})
	if err != nil {
		return nil, err
	}
	if len(res) != 1 {
		return nil, fmt.Errorf("unexpected embedding result size: got %d want 1", len(res))
	}
	return res[0], nil
}

// GenerateEmbeddings creates embeddings for multiple inputs in a single
// Embed request. Results keep input order; empty inputs map to the zero
// vector of the configured dimension without being sent to the model.
func (c *EvalOllamaClient) GenerateEmbeddings(
	ctx context.Context,
	inputs [][]byte,
) ([][]float32, error) {
	dim := int(util.GetEnvNumeric("AI_EMBED_DIM", defaultDimensions))
	if len(inputs) == 0 {
		return nil, nil
	}

	idxMap := make([]int, 0, len(inputs))
	stringsIn := make([]string, 0, len(inputs))
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		if len(in) == 0 || len(strings.TrimSpace(string(in))) == 0 {
			out[i] = make([]float32, dim)
			continue
		}
		idxMap = append(idxMap, i)
		stringsIn = append(stringsIn, string(in))
	}
	if len(stringsIn) == 0 {
		return out, nil
	}

	if c.maxTokens > 0 {
		for i, in := range stringsIn {
			truncated, err := ai.TruncateTokens(in, c.maxTokens)
			if err != nil {
				return nil, fmt.Errorf("failed to truncate embedding input: %w", err)
			}
			stringsIn[i] = truncated
		}
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	req := &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: stringsIn,
	}

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.Client.Embed(rCtx, req)
	if err != nil {
		return nil, err
	}

	durationMs := res.TotalDuration.Milliseconds()
	metrics := ai.ModelMetrics{
		InputTokens:  res.PromptEvalCount,
		OutputTokens: 0,
		TotalTokens:  res.PromptEvalCount,
		DurationMs:   durationMs,
	}
	c.modifyMetrics(metrics)

	if len(res.Embeddings) != len(stringsIn) {
		return nil, fmt.Errorf("embedding response size mismatch: got %d want %d", len(res.Embeddings), len(stringsIn))
	}

	for i, embedding := range res.Embeddings {
		vec := make([]float32, 0, dim)
		for _, v := range embedding {
			if len(vec) >= dim {
				break
			}
			vec = append(vec, float32(v))
		}
		if len(vec) < dim {
			padded := make([]float32, dim)
			copy(padded, vec)
			vec = padded
		}
		out[idxMap[i]] = vec
	}
	return out, nil
}

// GenerateEmbeddingsChunks generates embeddings for each chunk and returns a single
// flattened result slice, preserving chunk order and input order within each chunk.
//
// Chunk requests are executed concurrently; the client's internal semaphore limits
// actual parallelism.
func (c *EvalOllamaClient) GenerateEmbeddingsChunks(ctx context.Context, chunks [][][]byte) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	outChunks := make([][][]float32, len(chunks))
	eg, ectx := errgroup.WithContext(ctx)
	for i := range chunks {
		idx := i
		chunk := chunks[i]
		eg.Go(func() error {
			res, err := c.GenerateEmbeddings(ectx, chunk)
			if err != nil {
				return err
			}
			outChunks[idx] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range outChunks {
		total += len(c)
	}
	out := make([][]float32, 0, total)
	for _, c := range outChunks {
		out = append(out, c...)
	}
	return out, nil
}
