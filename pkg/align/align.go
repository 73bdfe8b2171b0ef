// Package align pairs reference items with their best-scoring
// candidates. Alignment is greedy per reference: no global assignment
// is attempted, and a strong candidate may win several references.
package align

import (
	"sort"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/metric"
)

// Match pairs one reference item with its best-scoring candidate.
type Match struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// BestMatches scores every candidate against every reference and
// keeps, per reference, the candidate with the highest score. Ties go
// to the earliest candidate and candidate reuse is allowed, so the
// result always has exactly one entry per reference. Empty references
// or candidates yield an empty result.
func BestMatches(references, candidates []string, scorer metric.Scorer) []Match {
	if len(references) == 0 || len(candidates) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(references))
	for i, reference := range references {
		best := Match{Index: 0, Score: scorer.Score(reference, candidates[0])}
		for j := 1; j < len(candidates); j++ {
			if score := scorer.Score(reference, candidates[j]); score > best.Score {
				best = Match{Index: j, Score: score}
			}
		}
		matches[i] = best
	}
	return matches
}

// FromMatrix selects the argmax of every row of a precomputed
// similarity matrix, with the same tie and reuse semantics as
// BestMatches. A matrix without rows or without columns yields an
// empty result.
func FromMatrix(matrix [][]float64) []Match {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(matrix))
	for i, row := range matrix {
		best := Match{Index: 0, Score: row[0]}
		for j := 1; j < len(row); j++ {
			if row[j] > best.Score {
				best = Match{Index: j, Score: row[j]}
			}
		}
		matches[i] = best
	}
	return matches
}

// UniqueMatches turns a reuse-allowed match set into a one-to-one
// assignment: references claim their candidate in descending score
// order, and a reference whose candidate was already claimed ends up
// unmatched with Index -1 and score 0. Equal scores keep reference
// order. The input slice is not modified.
func UniqueMatches(matches []Match) []Match {
	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return matches[order[a]].Score > matches[order[b]].Score
	})

	unique := make([]Match, len(matches))
	for i := range unique {
		unique[i] = Match{Index: -1}
	}

	claimed := make(map[int]bool, len(matches))
	for _, i := range order {
		match := matches[i]
		if match.Index < 0 || claimed[match.Index] {
			continue
		}
		claimed[match.Index] = true
		unique[i] = match
	}
	return unique
}

// Matched maps matches back to the candidate items they selected, in
// reference order. Unmatched entries are skipped, so the result of a
// reuse-allowed alignment always has one item per reference.
func Matched[T any](candidates []T, matches []Match) []T {
	items := make([]T, 0, len(matches))
	for _, match := range matches {
		if match.Index < 0 || match.Index >= len(candidates) {
			continue
		}
		items = append(items, candidates[match.Index])
	}
	return items
}
