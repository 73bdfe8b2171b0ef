package quiz

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseQuestionsJSON(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []wantQuestion
	}{
		{
			name: "well formed list",
			output: `[
				{"content": "The sky is _.", "options": ["blue", "green"], "correct": 0},
				{"content": "Two plus two?", "options": ["3", "4", "5", "6"], "correct": 1}
			]`,
			want: []wantQuestion{
				{content: "The sky is _.", options: []string{"blue", "green"}, correct: 0},
				{content: "Two plus two?", options: []string{"3", "4", "5", "6"}, correct: 1},
			},
		},
		{
			name:   "trailing comma repaired",
			output: `[{"content": "Repaired?", "options": ["yes", "no"], "correct": 0},]`,
			want: []wantQuestion{
				{content: "Repaired?", options: []string{"yes", "no"}, correct: 0},
			},
		},
		{
			name:   "double encoded payload",
			output: `"[{\"content\": \"Nested?\", \"options\": [\"a\", \"b\"], \"correct\": 1}]"`,
			want: []wantQuestion{
				{content: "Nested?", options: []string{"a", "b"}, correct: 1},
			},
		},
		{
			name: "invalid records dropped individually",
			output: `[
				{"content": "Missing correct", "options": ["a", "b"]},
				{"content": "Letter correct", "options": ["a", "b"], "correct": "A"},
				{"content": "Float correct", "options": ["a", "b"], "correct": 1.5},
				{"content": "Options not a list", "options": "a, b", "correct": 0},
				"not a record",
				{"content": "Survivor", "options": ["a", "b"], "correct": 1}
			]`,
			want: []wantQuestion{
				{content: "Survivor", options: []string{"a", "b"}, correct: 1},
			},
		},
		{
			name:   "object instead of list",
			output: `{"content": "Not a list", "options": ["a"], "correct": 0}`,
			want:   []wantQuestion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuestionsJSON(tt.output)
			if err != nil {
				t.Fatalf("ParseQuestionsJSON() error = %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ParseQuestionsJSON() returned %d questions, want %d", len(got), len(tt.want))
			}

			for i, question := range got {
				expected := tt.want[i]
				if question.Content != expected.content {
					t.Errorf("question[%d].Content = %q, want %q", i, question.Content, expected.content)
				}
				if !reflect.DeepEqual(question.Options, expected.options) {
					t.Errorf("question[%d].Options = %#v, want %#v", i, question.Options, expected.options)
				}
				if question.Correct != expected.correct {
					t.Errorf("question[%d].Correct = %d, want %d", i, question.Correct, expected.correct)
				}
				if question.ID != i+1 {
					t.Errorf("question[%d].ID = %d, want %d", i, question.ID, i+1)
				}
			}
		})
	}
}

func TestParseQuestionsJSONExplanationPassthrough(t *testing.T) {
	output := `[{"content": "Why?", "options": ["a", "b"], "correct": 0, "explanation": "Because."}]`

	got, err := ParseQuestionsJSON(output)
	if err != nil {
		t.Fatalf("ParseQuestionsJSON() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ParseQuestionsJSON() returned %d questions, want 1", len(got))
	}
	if got[0].Explanation != "Because." {
		t.Errorf("Explanation = %q, want %q", got[0].Explanation, "Because.")
	}
}

func TestParseQuestionsJSONEmptyInput(t *testing.T) {
	if _, err := ParseQuestionsJSON("  "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("ParseQuestionsJSON() error = %v, want ErrEmptyInput", err)
	}
}

func TestParseQuestionsJSONSyntaxErrorOutcome(t *testing.T) {
	questions, err := ParseQuestionsJSON(`{"not": "a list"}`)
	if err != nil {
		t.Fatalf("ParseQuestionsJSON() error = %v", err)
	}

	outcome := Outcome(questions, 3)
	if !outcome.SyntaxError {
		t.Error("Outcome().SyntaxError = false, want true")
	}
	if outcome.Over || outcome.Under {
		t.Error("syntax error outcome should not flag over or under generation")
	}
}

func TestQuestionSchema(t *testing.T) {
	schema := QuestionSchema()
	if schema == nil {
		t.Fatal("QuestionSchema() = nil")
	}

	encoded, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	for _, field := range []string{"content", "options", "correct", "explanation"} {
		if !strings.Contains(string(encoded), field) {
			t.Errorf("schema is missing field %q", field)
		}
	}
}
