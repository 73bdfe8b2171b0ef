package quiz

import (
	"regexp"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
)

// statementLabelPattern strips decorated option labels ("A. ", "B) ",
// "[C] ") from the correct option before it is spliced into the stem.
var statementLabelPattern = regexp.MustCompile(`^\[?[A-D][.)\]]?\s+`)

// Statement flattens a question into one declarative sentence by
// splicing the correct option into the stem: the first underscore
// placeholder is filled when present, otherwise the option is appended
// after a space. Questions whose correct index does not resolve are
// returned as their bare stem, so malformed records still contribute
// comparable text instead of failing the sample.
func Statement(question common.Question) string {
	text, ok := CorrectOption(question)
	if !ok {
		return question.Content
	}
	if strings.Contains(question.Content, "_") {
		return strings.Replace(question.Content, "_", text, 1)
	}
	return question.Content + " " + text
}

// QueryAnswer splits a question into its stem and the cleaned correct
// option. The answer is empty when the correct index does not resolve.
func QueryAnswer(question common.Question) (string, string) {
	text, ok := CorrectOption(question)
	if !ok {
		return question.Content, ""
	}
	return question.Content, text
}

// CorrectOption returns the text of the correct option with any
// generator-added label stripped. The boolean reports whether the
// correct index resolves to an option at all.
func CorrectOption(question common.Question) (string, bool) {
	if question.Correct < 0 || question.Correct >= len(question.Options) {
		return "", false
	}
	text := statementLabelPattern.ReplaceAllString(question.Options[question.Correct], "")
	return strings.TrimSpace(text), true
}
