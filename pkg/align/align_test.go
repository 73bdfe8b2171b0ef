package align

import (
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/metric"
)

func TestBestMatches(t *testing.T) {
	scorer := pairScorer{scores: map[[2]string]float64{
		{"ref a", "cand x"}: 0.2,
		{"ref a", "cand y"}: 0.9,
		{"ref a", "cand z"}: 0.4,
		{"ref b", "cand x"}: 0.7,
		{"ref b", "cand y"}: 0.1,
		{"ref b", "cand z"}: 0.3,
	}}

	references := []string{"ref a", "ref b"}
	candidates := []string{"cand x", "cand y", "cand z"}

	got := BestMatches(references, candidates, scorer)
	want := []Match{
		{Index: 1, Score: 0.9},
		{Index: 0, Score: 0.7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BestMatches() = %#v, want %#v", got, want)
	}

	again := BestMatches(references, candidates, scorer)
	if !reflect.DeepEqual(again, got) {
		t.Errorf("BestMatches() is not deterministic: %#v vs %#v", again, got)
	}
}

func TestBestMatchesCandidateReuse(t *testing.T) {
	scorer := pairScorer{scores: map[[2]string]float64{
		{"ref a", "weak"}:   0.1,
		{"ref a", "strong"}: 0.8,
		{"ref b", "weak"}:   0.2,
		{"ref b", "strong"}: 0.9,
	}}

	got := BestMatches([]string{"ref a", "ref b"}, []string{"weak", "strong"}, scorer)
	want := []Match{
		{Index: 1, Score: 0.8},
		{Index: 1, Score: 0.9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BestMatches() = %#v, want %#v", got, want)
	}
}

func TestBestMatchesTieKeepsFirstCandidate(t *testing.T) {
	got := BestMatches([]string{"ref"}, []string{"first", "second", "third"}, constantScorer{value: 0.5})
	want := []Match{{Index: 0, Score: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BestMatches() = %#v, want %#v", got, want)
	}
}

func TestBestMatchesRealScorer(t *testing.T) {
	references := []string{"the moon orbits the earth"}
	candidates := []string{"bananas are yellow", "the moon orbits the earth"}

	got := BestMatches(references, candidates, metric.NewRougeLScorer())
	if len(got) != 1 {
		t.Fatalf("BestMatches() returned %d matches, want 1", len(got))
	}
	if got[0].Index != 1 {
		t.Errorf("BestMatches()[0].Index = %d, want 1", got[0].Index)
	}
	if got[0].Score != 1 {
		t.Errorf("BestMatches()[0].Score = %v, want 1", got[0].Score)
	}
}

func TestBestMatchesEmptyInputs(t *testing.T) {
	scorer := constantScorer{value: 1}

	if got := BestMatches(nil, []string{"cand"}, scorer); len(got) != 0 {
		t.Errorf("BestMatches(no references) = %#v, want empty", got)
	}
	if got := BestMatches([]string{"ref"}, nil, scorer); len(got) != 0 {
		t.Errorf("BestMatches(no candidates) = %#v, want empty", got)
	}
}

func TestFromMatrix(t *testing.T) {
	tests := []struct {
		name   string
		matrix [][]float64
		want   []Match
	}{
		{
			name: "argmax per row",
			matrix: [][]float64{
				{0.1, 0.8, 0.3},
				{0.6, 0.2, 0.4},
			},
			want: []Match{
				{Index: 1, Score: 0.8},
				{Index: 0, Score: 0.6},
			},
		},
		{
			name: "tie keeps first column",
			matrix: [][]float64{
				{0.5, 0.5, 0.5},
			},
			want: []Match{{Index: 0, Score: 0.5}},
		},
		{
			name: "shared best column",
			matrix: [][]float64{
				{0.2, 0.9},
				{0.1, 0.7},
			},
			want: []Match{
				{Index: 1, Score: 0.9},
				{Index: 1, Score: 0.7},
			},
		},
		{
			name:   "empty matrix",
			matrix: [][]float64{},
			want:   []Match{},
		},
		{
			name:   "rows without columns",
			matrix: [][]float64{{}, {}},
			want:   []Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromMatrix(tt.matrix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromMatrix() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUniqueMatches(t *testing.T) {
	tests := []struct {
		name    string
		matches []Match
		want    []Match
	}{
		{
			name: "higher score claims contested candidate",
			matches: []Match{
				{Index: 1, Score: 0.4},
				{Index: 1, Score: 0.9},
				{Index: 0, Score: 0.5},
			},
			want: []Match{
				{Index: -1, Score: 0},
				{Index: 1, Score: 0.9},
				{Index: 0, Score: 0.5},
			},
		},
		{
			name: "equal scores keep reference order",
			matches: []Match{
				{Index: 2, Score: 0.5},
				{Index: 2, Score: 0.5},
			},
			want: []Match{
				{Index: 2, Score: 0.5},
				{Index: -1, Score: 0},
			},
		},
		{
			name: "disjoint matches pass through",
			matches: []Match{
				{Index: 0, Score: 0.3},
				{Index: 1, Score: 0.2},
			},
			want: []Match{
				{Index: 0, Score: 0.3},
				{Index: 1, Score: 0.2},
			},
		},
		{
			name:    "empty input",
			matches: []Match{},
			want:    []Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := make([]Match, len(tt.matches))
			copy(input, tt.matches)

			got := UniqueMatches(tt.matches)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UniqueMatches() = %#v, want %#v", got, tt.want)
			}
			if !reflect.DeepEqual(tt.matches, input) {
				t.Errorf("UniqueMatches() modified its input: %#v", tt.matches)
			}
		})
	}
}

func TestMatched(t *testing.T) {
	candidates := []string{"cand x", "cand y", "cand z"}
	matches := []Match{
		{Index: 2, Score: 0.9},
		{Index: 0, Score: 0.4},
		{Index: 2, Score: 0.6},
		{Index: -1, Score: 0},
	}

	got := Matched(candidates, matches)
	want := []string{"cand z", "cand x", "cand z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Matched() = %#v, want %#v", got, want)
	}

	vectors := [][]float64{{1, 0}, {0, 1}}
	gotVectors := Matched(vectors, []Match{{Index: 1, Score: 0.8}})
	wantVectors := [][]float64{{0, 1}}
	if !reflect.DeepEqual(gotVectors, wantVectors) {
		t.Errorf("Matched() = %#v, want %#v", gotVectors, wantVectors)
	}
}

// pairScorer returns preset scores keyed by (reference, candidate).
type pairScorer struct {
	scores map[[2]string]float64
}

func (s pairScorer) Name() string { return "pair" }

func (s pairScorer) Score(reference, candidate string) float64 {
	return s.scores[[2]string{reference, candidate}]
}

type constantScorer struct {
	value float64
}

func (s constantScorer) Name() string { return "constant" }

func (s constantScorer) Score(reference, candidate string) float64 {
	return s.value
}
