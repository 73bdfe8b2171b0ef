package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
)

// Record is one entry of a dataset or predictions document. Dataset
// entries carry the source passage in Content and the reference
// questions; prediction entries carry generated questions and an
// optional generation error.
//
// The questions value accepts both document shapes: a flat question
// list, or a list of lists holding k independently generated sets,
// which is flattened in set order.
type Record struct {
	ID        int               `json:"id"`
	Source    string            `json:"source"`
	Content   string            `json:"content,omitempty"`
	Questions []common.Question `json:"questions,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type recordDocument struct {
	ID                 int             `json:"id"`
	Source             string          `json:"source"`
	Content            string          `json:"content"`
	Questions          json.RawMessage `json:"questions"`
	GeneratedQuestions json.RawMessage `json:"generated_questions"`
	Error              string          `json:"error"`
}

// UnmarshalJSON decodes a record from either document shape. The
// "questions" key wins over "generated_questions" when both are
// present.
func (r *Record) UnmarshalJSON(data []byte) error {
	var doc recordDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	payload := doc.Questions
	if len(payload) == 0 {
		payload = doc.GeneratedQuestions
	}
	questions, err := parseQuestionPayload(payload)
	if err != nil {
		return err
	}

	r.ID = doc.ID
	r.Source = doc.Source
	r.Content = doc.Content
	r.Questions = questions
	r.Error = doc.Error
	return nil
}

// questionDocument tolerates the key and value drift seen across
// generator outputs: the stem may sit under "content" or "question",
// and "correct" may be a 0-based index or a single answer letter.
type questionDocument struct {
	ID          int             `json:"id"`
	Content     string          `json:"content"`
	Question    string          `json:"question"`
	Options     []string        `json:"options"`
	Correct     json.RawMessage `json:"correct"`
	Explanation string          `json:"explanation"`
	Type        string          `json:"type"`
	Level       int             `json:"level"`
}

func (q questionDocument) toQuestion() common.Question {
	content := q.Content
	if content == "" {
		content = q.Question
	}
	return common.Question{
		ID:          q.ID,
		Content:     content,
		Options:     q.Options,
		Correct:     correctIndex(q.Correct),
		Explanation: q.Explanation,
		Type:        q.Type,
		Level:       q.Level,
	}
}

func parseQuestionPayload(payload json.RawMessage) ([]common.Question, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var flat []questionDocument
	if err := json.Unmarshal(payload, &flat); err == nil {
		return convertQuestions(flat), nil
	}

	var sets [][]questionDocument
	if err := json.Unmarshal(payload, &sets); err != nil {
		return nil, fmt.Errorf("failed to parse question list: %w", err)
	}
	var flattened []questionDocument
	for _, set := range sets {
		flattened = append(flattened, set...)
	}
	return convertQuestions(flattened), nil
}

func convertQuestions(docs []questionDocument) []common.Question {
	if docs == nil {
		return nil
	}
	questions := make([]common.Question, len(docs))
	for i, doc := range docs {
		questions[i] = doc.toQuestion()
	}
	return questions
}

// correctIndex coerces the correct field to a 0-based option index.
// Integers pass through, a single letter maps via its alphabet
// position, and anything else yields -1. Callers bounds-check the
// index against the option list before use.
func correctIndex(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return -1
	}

	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		return idx
	}

	var letter string
	if err := json.Unmarshal(raw, &letter); err != nil {
		return -1
	}
	if len(letter) != 1 {
		return -1
	}
	return int(unicode.ToUpper(rune(letter[0]))) - 'A'
}

// ParseRecords parses a dataset or predictions document into records
// sorted by id.
func ParseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset records: %w", err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// LoadRecords fetches the file through its backend and parses it into
// records sorted by id.
func LoadRecords(ctx context.Context, file DatasetFile) ([]Record, error) {
	data, err := file.GetText(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset file: %w", err)
	}
	return ParseRecords(data)
}

// FilterSources keeps only records whose source matches one of the
// given names, compared case-insensitively. An empty source list keeps
// every record.
func FilterSources(records []Record, sources []string) []Record {
	if len(sources) == 0 {
		return records
	}

	wanted := make(map[string]struct{}, len(sources))
	for _, source := range sources {
		wanted[strings.ToLower(source)] = struct{}{}
	}

	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if _, ok := wanted[strings.ToLower(record.Source)]; ok {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// QuestionsByID maps each record id to its question list. Duplicate
// ids keep the last record.
func QuestionsByID(records []Record) map[int][]common.Question {
	byID := make(map[int][]common.Question, len(records))
	for _, record := range records {
		byID[record.ID] = record.Questions
	}
	return byID
}

// Sources lists the distinct source names present in the records, in
// first-seen order.
func Sources(records []Record) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, record := range records {
		if _, ok := seen[record.Source]; ok {
			continue
		}
		seen[record.Source] = struct{}{}
		sources = append(sources, record.Source)
	}
	return sources
}
