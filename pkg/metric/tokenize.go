package metric

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var (
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}]+|[^\p{L}\p{N}\s]`)
	alnumPattern = regexp.MustCompile(`[a-z0-9]+`)
)

// lexicalTokens lowercases the text and splits it into word and
// punctuation tokens, so "Hello, world!" scores the same however the
// generator spaces its punctuation.
func lexicalTokens(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// overlapTokens lowercases the text and keeps alphanumeric runs only,
// optionally reducing each token to its stem so inflection differences
// do not break subsequence matches.
func overlapTokens(text string, stem bool) []string {
	tokens := alnumPattern.FindAllString(strings.ToLower(text), -1)
	if !stem {
		return tokens
	}

	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		word, err := snowball.Stem(token, "english", true)
		if err != nil {
			stemmed[i] = token
			continue
		}
		stemmed[i] = word
	}
	return stemmed
}
