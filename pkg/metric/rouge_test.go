package metric

import (
	"reflect"
	"testing"
)

func TestRougeLScorer(t *testing.T) {
	scorer := NewRougeLScorer()

	t.Run("identical texts score one", func(t *testing.T) {
		got := scorer.Score("the cat sat on the mat", "the cat sat on the mat")
		if !almostEqual(got, 1) {
			t.Errorf("Score() = %v, want 1", got)
		}
	})

	t.Run("subsequence f measure", func(t *testing.T) {
		// LCS is "the cat on mat" (4 tokens): precision 4/4, recall
		// 4/6, F1 0.8.
		got := scorer.Score("the cat sat on the mat", "the cat on mat")
		if !almostEqual(got, 0.8) {
			t.Errorf("Score() = %v, want 0.8", got)
		}
	})

	t.Run("stemming aligns inflections", func(t *testing.T) {
		got := scorer.Score("running quickly", "run quick")
		if !almostEqual(got, 1) {
			t.Errorf("Score() = %v, want 1", got)
		}
	})

	t.Run("disjoint texts score zero", func(t *testing.T) {
		if got := scorer.Score("alpha beta", "gamma delta"); got != 0 {
			t.Errorf("Score() = %v, want 0", got)
		}
	})

	t.Run("empty sides score zero", func(t *testing.T) {
		if got := scorer.Score("", "candidate"); got != 0 {
			t.Errorf("Score() = %v, want 0", got)
		}
		if got := scorer.Score("reference", ""); got != 0 {
			t.Errorf("Score() = %v, want 0", got)
		}
	})

	t.Run("punctuation ignored", func(t *testing.T) {
		got := scorer.Score("Hello, world!", "hello world")
		if !almostEqual(got, 1) {
			t.Errorf("Score() = %v, want 1", got)
		}
	})
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want int
	}{
		{
			name: "classic interleave",
			a:    []string{"a", "b", "c", "d", "e"},
			b:    []string{"a", "c", "e"},
			want: 3,
		},
		{
			name: "no overlap",
			a:    []string{"a", "b"},
			b:    []string{"c", "d"},
			want: 0,
		},
		{
			name: "order matters",
			a:    []string{"a", "b"},
			b:    []string{"b", "a"},
			want: 1,
		},
		{
			name: "empty side",
			a:    nil,
			b:    []string{"a"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lcsLength(tt.a, tt.b); got != tt.want {
				t.Errorf("lcsLength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlapTokens(t *testing.T) {
	got := overlapTokens("Don't stop believing!", false)
	want := []string{"don", "t", "stop", "believing"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("overlapTokens() = %#v, want %#v", got, want)
	}
}
