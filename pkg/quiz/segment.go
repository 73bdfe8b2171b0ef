package quiz

import (
	"regexp"
	"strings"
)

// blockMarker is the canonical question separator every heading variant
// is normalized to before splitting. Generators drift between #, ##,
// ### and #### even when told to use one depth; normalizing first keeps
// their output from fragmenting into half-records.
const blockMarker = "###"

var (
	headingPattern    = regexp.MustCompile(`(?m)^#{1,4}\s+`)
	subheadingPattern = regexp.MustCompile(`(?m)^#{2,4}\s+`)

	// Numbered stems ("1. What is ...") occasionally replace headings
	// entirely. Only lines where the ordinal is followed by an
	// uppercase letter are promoted, so numeric option lines survive.
	numberedStemPattern = regexp.MustCompile(`(?m)^\d+\.\s+([A-Z])`)
)

// SegmentBlocks splits raw generator output into candidate record
// blocks: heading markers of depth 1-4 are normalized to one canonical
// marker, the text is split at the markers, and whitespace-only blocks
// are dropped. Blocks are never merged back together.
func SegmentBlocks(text string) []string {
	return segment(text, headingPattern, false)
}

func segment(text string, heading *regexp.Regexp, promoteNumbered bool) []string {
	normalized := heading.ReplaceAllString(text, blockMarker)
	if promoteNumbered {
		normalized = numberedStemPattern.ReplaceAllString(normalized, blockMarker+"${1}")
	}

	parts := strings.Split(strings.TrimSpace(normalized), blockMarker)
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		blocks = append(blocks, trimmed)
	}
	return blocks
}

// recordLines reduces a block to its non-empty trimmed lines.
func recordLines(block string) []string {
	raw := strings.Split(block, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

var bareAnswerPattern = regexp.MustCompile(`^>\s*[A-Da-d]\s*$`)

// isRecord reports whether a block has the minimum shape of a question
// record: at least one option line and at least one answer line.
// Everything else is generator prose and is skipped, not an error.
// With strictAnswer, only a bare single-letter answer line qualifies,
// so labeled lines like "> Genre: History" do not promote prose.
func isRecord(lines []string, strictAnswer bool) bool {
	hasOption := false
	hasAnswer := false
	for _, line := range lines {
		if strings.HasPrefix(line, "-") {
			hasOption = true
		}
		if strings.HasPrefix(line, ">") {
			if !strictAnswer || bareAnswerPattern.MatchString(line) {
				hasAnswer = true
			}
		}
	}
	return hasOption && hasAnswer
}
