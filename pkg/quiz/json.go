package quiz

import (
	"fmt"
	"math"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
)

// QuestionRecord is the wire shape generators are asked to emit when
// the JSON output format is requested. It also backs the published
// question schema, so prompt builders and the parser cannot drift
// apart.
type QuestionRecord struct {
	Content     string   `json:"content" jsonschema_description:"The question text. Use a single underscore as the blank placeholder for fill-in questions."`
	Options     []string `json:"options" jsonschema_description:"Exactly four answer options without letter labels."`
	Correct     int      `json:"correct" jsonschema_description:"Zero-based index of the correct option (0-3)."`
	Explanation string   `json:"explanation,omitempty" jsonschema_description:"Short explanation of why the correct option is right."`
}

// QuestionSchema returns the JSON schema describing the list of
// question records a generator is expected to produce.
func QuestionSchema() any {
	return ai.GenerateSchema([]QuestionRecord{})
}

// ParseQuestionsJSON extracts questions from a JSON-format response.
// Decoding tolerates double-encoded and slightly malformed JSON.
// Records with a missing or mistyped content, options or correct field
// are dropped individually instead of failing the whole response; a
// response that decodes to anything other than a list yields zero
// questions, which Outcome classifies as a syntax error.
func ParseQuestionsJSON(output string) ([]common.Question, error) {
	if strings.TrimSpace(output) == "" {
		return nil, ErrEmptyInput
	}

	var decoded any
	if err := ai.UnmarshalFlexible(output, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode question records: %w", err)
	}

	records, ok := decoded.([]any)
	if !ok {
		return []common.Question{}, nil
	}

	questions := make([]common.Question, 0, len(records))
	for _, record := range records {
		fields, ok := record.(map[string]any)
		if !ok {
			continue
		}

		content, ok := fields["content"].(string)
		if !ok {
			continue
		}
		rawOptions, ok := fields["options"].([]any)
		if !ok {
			continue
		}
		correct, ok := intField(fields["correct"])
		if !ok {
			continue
		}

		options := make([]string, 0, len(rawOptions))
		for _, option := range rawOptions {
			text, ok := option.(string)
			if !ok {
				text = fmt.Sprint(option)
			}
			options = append(options, text)
		}

		question := common.Question{
			ID:      len(questions) + 1,
			Content: content,
			Options: options,
			Correct: correct,
		}
		if explanation, ok := fields["explanation"].(string); ok {
			question.Explanation = explanation
		}

		questions = append(questions, question)
	}

	return questions, nil
}

// intField accepts only integral JSON numbers, mirroring the contract
// that correct is an index, not a letter or a float.
func intField(value any) (int, bool) {
	number, ok := value.(float64)
	if !ok {
		return 0, false
	}
	if number != math.Trunc(number) {
		return 0, false
	}
	return int(number), true
}
