package quiz

import (
	"regexp"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
)

var (
	titlePattern       = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	descriptionPattern = regexp.MustCompile(`(?mi)>\s*description:\s*(.+)$`)
	genrePattern       = regexp.MustCompile(`(?mi)>\s*genre:\s*(.+)$`)
	topicsPattern      = regexp.MustCompile(`(?mi)>\s*topics?:\s*(.+)$`)
)

// ParseQuiz parses a complete quiz document: the title heading, the
// labeled metadata lines and every question block including
// explanations. Missing metadata falls back to neutral defaults so a
// sloppy generation still yields a storable quiz.
func ParseQuiz(output string) (common.Quiz, error) {
	if strings.TrimSpace(output) == "" {
		return common.Quiz{}, ErrEmptyInput
	}

	quiz := common.Quiz{
		Title:  "Untitled Quiz",
		Genre:  "General",
		Topics: []string{"General"},
	}

	if match := titlePattern.FindStringSubmatch(output); match != nil {
		quiz.Title = strings.TrimSpace(match[1])
	}
	if match := descriptionPattern.FindStringSubmatch(output); match != nil {
		quiz.Description = strings.TrimSpace(match[1])
	}
	if match := genrePattern.FindStringSubmatch(output); match != nil {
		quiz.Genre = strings.TrimSpace(match[1])
	}
	if match := topicsPattern.FindStringSubmatch(output); match != nil {
		topics := make([]string, 0, 4)
		for _, topic := range strings.Split(match[1], ",") {
			if trimmed := strings.TrimSpace(topic); trimmed != "" {
				topics = append(topics, trimmed)
			}
		}
		if len(topics) > 0 {
			quiz.Topics = topics
		}
	}

	questions, err := ParseQuestions(output, withQuizDocument())
	if err != nil {
		return common.Quiz{}, err
	}
	quiz.Questions = questions

	return quiz, nil
}
