package ai

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const embeddingEncoding = "o200k_base"

// CountTokens returns the number of encoder tokens in text under the
// encoding the embedding models share.
func CountTokens(text string) (int, error) {
	enc, err := tiktoken.GetEncoding(embeddingEncoding)
	if err != nil {
		return 0, fmt.Errorf("failed to load token encoding: %w", err)
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// TruncateTokens cuts text down to at most limit encoder tokens. Text
// already at or under the limit is returned unchanged, as is any text
// when limit is zero or negative (no budget configured).
func TruncateTokens(text string, limit int) (string, error) {
	if limit <= 0 {
		return text, nil
	}

	enc, err := tiktoken.GetEncoding(embeddingEncoding)
	if err != nil {
		return "", fmt.Errorf("failed to load token encoding: %w", err)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text, nil
	}
	return enc.Decode(tokens[:limit]), nil
}
