package quiz

import (
	"errors"
	"regexp"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
)

// ErrEmptyInput is returned when the model output contains nothing to
// parse. Callers treat it as a generation failure, not a parse result
// with zero questions.
var ErrEmptyInput = errors.New("empty model output")

const defaultExplanation = "No explanation provided."

var (
	ordinalPattern       = regexp.MustCompile(`^\d+\.\s+`)
	underscoreRunPattern = regexp.MustCompile(`_{2,}`)

	// Generators like to re-label options ("A.", "b)", "C/", "D,")
	// even when told to emit bare text. The label is stripped so the
	// same option never scores differently depending on decoration.
	optionLabelPattern = regexp.MustCompile(`^[A-Da-d][.)/]?,?\s+`)
)

type parseConfig struct {
	strictOptionCount bool
	numberedStems     bool
	explanations      bool
	quizDocument      bool
	assignLevels      bool
	levelTotal        int
}

// ParseOption adjusts how ParseQuestions interprets model output.
type ParseOption func(*parseConfig)

// WithStrictOptionCount drops every record that does not carry exactly
// four options instead of keeping short ones.
func WithStrictOptionCount() ParseOption {
	return func(cfg *parseConfig) {
		cfg.strictOptionCount = true
	}
}

// WithNumberedStems additionally treats numbered lines like "1. What"
// as question markers. Only stems starting with an uppercase letter
// are promoted so numeric options stay intact.
func WithNumberedStems() ParseOption {
	return func(cfg *parseConfig) {
		cfg.numberedStems = true
	}
}

// WithExplanations extracts an explanation line per question and
// tightens answer detection to bare letter lines, so labeled lines
// like "> Explanation: ..." cannot be mistaken for answers.
func WithExplanations() ParseOption {
	return func(cfg *parseConfig) {
		cfg.explanations = true
	}
}

// WithLevels assigns difficulty levels 1-3 across the parsed questions
// in thirds of the intended total. Pass the requested question count;
// zero or negative falls back to the parsed count.
func WithLevels(total int) ParseOption {
	return func(cfg *parseConfig) {
		cfg.assignLevels = true
		cfg.levelTotal = total
	}
}

func withQuizDocument() ParseOption {
	return func(cfg *parseConfig) {
		cfg.quizDocument = true
		cfg.explanations = true
	}
}

// ParseQuestions extracts multiple-choice questions from raw model
// output. Blocks that do not look like question records are skipped
// silently; records with an unmappable answer letter are dropped.
// Surviving questions get sequential ids in block order.
func ParseQuestions(output string, opts ...ParseOption) ([]common.Question, error) {
	cfg := parseConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if strings.TrimSpace(output) == "" {
		return nil, ErrEmptyInput
	}

	heading := headingPattern
	if cfg.quizDocument {
		// Keep the top-level title heading out of the block stream so
		// quiz metadata does not turn into a phantom first question.
		heading = subheadingPattern
	}

	blocks := segment(output, heading, cfg.numberedStems)

	questions := make([]common.Question, 0, len(blocks))
	for _, block := range blocks {
		lines := recordLines(block)
		if len(lines) == 0 || !isRecord(lines, cfg.explanations) {
			continue
		}

		question, ok := extractQuestion(lines, cfg)
		if !ok {
			continue
		}

		question.ID = len(questions) + 1
		questions = append(questions, question)
	}

	if cfg.assignLevels {
		AssignLevels(questions, cfg.levelTotal)
	}

	return questions, nil
}

func extractQuestion(lines []string, cfg parseConfig) (common.Question, bool) {
	content := ordinalPattern.ReplaceAllString(lines[0], "")
	content = underscoreRunPattern.ReplaceAllString(content, "_")

	var options []string
	answerIdx := -1

	for i := 1; i < len(lines); i++ {
		line := lines[i]

		if strings.HasPrefix(line, ">") {
			if !cfg.explanations {
				answerIdx = i
				break
			}
			if answerIdx == -1 {
				if _, ok := answerIndex(line); ok {
					answerIdx = i
				}
			}
			continue
		}

		if strings.HasPrefix(line, "-") && len(options) < 4 {
			text := strings.TrimSpace(line[1:])
			options = append(options, optionLabelPattern.ReplaceAllString(text, ""))
		}
	}

	if answerIdx == -1 {
		return common.Question{}, false
	}

	correct, ok := answerIndex(lines[answerIdx])
	if !ok {
		return common.Question{}, false
	}

	if cfg.strictOptionCount && len(options) != 4 {
		return common.Question{}, false
	}

	question := common.Question{
		Content: content,
		Options: options,
		Correct: correct,
		Type:    "General",
	}

	if cfg.explanations {
		question.Explanation = extractExplanation(lines[answerIdx+1:])
	}

	return question, true
}

// answerIndex maps an answer line like "> B" to its option index.
func answerIndex(line string) (int, bool) {
	letter := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(line, ">", "")))
	switch letter {
	case "A":
		return 0, true
	case "B":
		return 1, true
	case "C":
		return 2, true
	case "D":
		return 3, true
	default:
		return -1, false
	}
}

func extractExplanation(lines []string) string {
	explanation := ""
	for _, line := range lines {
		if !strings.HasPrefix(line, ">") {
			continue
		}
		lower := strings.ToLower(line)
		marker := strings.Index(lower, "explanation:")
		if marker == -1 {
			continue
		}
		explanation = strings.TrimSpace(line[marker+len("explanation:"):])
		break
	}
	if explanation == "" {
		return defaultExplanation
	}
	return explanation
}

// AssignLevels spreads difficulty levels 1-3 over the questions in
// thirds of the intended total: the first third is level 1, the second
// level 2, the rest level 3. When total is not positive the parsed
// count is used instead, so a short generation still gets the ramp.
func AssignLevels(questions []common.Question, total int) {
	if total <= 0 {
		total = len(questions)
	}
	n := total / 3
	for i := range questions {
		switch {
		case i < n:
			questions[i].Level = 1
		case i < 2*n:
			questions[i].Level = 2
		default:
			questions[i].Level = 3
		}
	}
}

// ParseOutcome summarizes how one generator response matched the
// requested question count.
type ParseOutcome struct {
	SyntaxError bool `json:"syntax_error"`
	Expected    int  `json:"expected"`
	Actual      int  `json:"actual"`
	Over        bool `json:"over"`
	Under       bool `json:"under"`
}

// Outcome classifies a parse result against the requested count. Zero
// surviving questions counts as a syntax error; over and under
// generation only apply when something parsed at all.
func Outcome(questions []common.Question, expected int) ParseOutcome {
	outcome := ParseOutcome{Expected: expected, Actual: len(questions)}
	if len(questions) == 0 {
		outcome.SyntaxError = true
		return outcome
	}
	outcome.Over = len(questions) > expected
	outcome.Under = len(questions) < expected
	return outcome
}
