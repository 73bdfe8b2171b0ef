package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// EmbeddingKey derives the cache key for an embedded text from the
// model name and the text content.
func EmbeddingKey(model string, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
