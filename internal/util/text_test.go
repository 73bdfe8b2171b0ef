package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "contains null byte",
			input: "hel\x00lo",
			want:  "hello",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClampRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{
			name:  "shorter than max",
			input: "race",
			max:   10,
			want:  "race",
		},
		{
			name:  "exactly max",
			input: "dream",
			max:   5,
			want:  "dream",
		},
		{
			name:  "longer than max",
			input: "reclor-extended",
			max:   6,
			want:  "reclor",
		},
		{
			name:  "multibyte runes counted as one",
			input: "äöüäöü",
			max:   3,
			want:  "äöü",
		},
		{
			name:  "max zero leaves value",
			input: "unchanged",
			max:   0,
			want:  "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampRunes(tt.input, tt.max)
			if got != tt.want {
				t.Fatalf("unexpected clamped value: got %q, want %q", got, tt.want)
			}
		})
	}
}
