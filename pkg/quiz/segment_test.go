package quiz

import (
	"reflect"
	"testing"
)

func TestSegmentBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "   \n  ",
			want: []string{},
		},
		{
			name: "heading depths normalized",
			text: "# one\nbody\n## two\n### three\n#### four",
			want: []string{"one\nbody", "two", "three", "four"},
		},
		{
			name: "text before first heading kept as own block",
			text: "intro prose\n### question",
			want: []string{"intro prose", "question"},
		},
		{
			name: "hash without space is not a marker",
			text: "### real\n#hashtag stays inline",
			want: []string{"real\n#hashtag stays inline"},
		},
		{
			name: "whitespace only blocks dropped",
			text: "### first\n\n### \t \n### second",
			want: []string{"first", "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentBlocks(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SegmentBlocks() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestIsRecord(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		strict      bool
		want        bool
		wantStrict  bool
		checkStrict bool
	}{
		{
			name:  "option and answer",
			lines: []string{"Question?", "- one", "> A"},
			want:  true,
		},
		{
			name:  "missing options",
			lines: []string{"Question?", "> A"},
			want:  false,
		},
		{
			name:  "missing answer",
			lines: []string{"Question?", "- one"},
			want:  false,
		},
		{
			name:        "labeled quote line",
			lines:       []string{"Question?", "- one", "> Genre: History"},
			want:        true,
			wantStrict:  false,
			checkStrict: true,
		},
		{
			name:        "bare letter satisfies strict",
			lines:       []string{"Question?", "- one", "> Genre: History", ">  d "},
			want:        true,
			wantStrict:  true,
			checkStrict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRecord(tt.lines, false); got != tt.want {
				t.Errorf("isRecord(loose) = %v, want %v", got, tt.want)
			}
			if tt.checkStrict {
				if got := isRecord(tt.lines, true); got != tt.wantStrict {
					t.Errorf("isRecord(strict) = %v, want %v", got, tt.wantStrict)
				}
			}
		})
	}
}
