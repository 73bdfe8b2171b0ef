package graph

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
)

// ErrEmptyInput is returned when the model output contains nothing to
// extract a graph from.
var ErrEmptyInput = errors.New("empty model output")

var fencePattern = regexp.MustCompile("(?s)```(?:ya?ml)?\\s*(.+?)```")

// ParseKnowledgeGraph parses the structured graph block of a model
// response into a KnowledgeGraph. Empty or whitespace-only output
// returns ErrEmptyInput. The blob is parsed as-is first; if that
// fails, the quote repair pass rewrites suspicious key/value lines and
// parsing is retried once. A blob that survives neither attempt yields
// an empty graph and a logged warning, never an error: a missing graph
// must not sink the sample it belongs to.
//
// Absent sections coerce to empty defaults. Scalar values in list
// positions become single-element lists, entities without a name are
// dropped, entity types default to "thing" and relationships need at
// least source, action and target.
func ParseKnowledgeGraph(output string) (common.KnowledgeGraph, error) {
	if strings.TrimSpace(output) == "" {
		return common.KnowledgeGraph{}, ErrEmptyInput
	}

	blob := extractBlob(output)

	doc, err := parseDocument(blob)
	if err != nil {
		doc, err = parseDocument(repairQuotes(blob))
		if err != nil {
			logger.Warn("[Graph] Failed to parse graph output, returning empty graph", "error", err)
			doc = nil
		}
	}

	return common.KnowledgeGraph{
		Meta:          coerceMeta(section(doc, "meta")),
		Context:       coerceContext(section(doc, "context")),
		Entities:      coerceEntities(doc["entities"]),
		Relationships: coerceRelationships(doc["relationships"]),
	}, nil
}

// extractBlob unwraps a fenced code block when present. Generators
// often wrap the graph in ```yaml fences despite instructions.
func extractBlob(output string) string {
	if match := fencePattern.FindStringSubmatch(output); match != nil {
		return match[1]
	}
	return output
}

func parseDocument(blob string) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph document: %w", err)
	}
	return doc, nil
}

func section(doc map[string]any, key string) map[string]any {
	fields, ok := doc[key].(map[string]any)
	if !ok {
		return nil
	}
	return fields
}

func coerceMeta(fields map[string]any) common.GraphMeta {
	return common.GraphMeta{
		Title:    stringField(fields, "title"),
		Type:     stringField(fields, "type"),
		Topics:   stringList(fields["topics"]),
		Keywords: stringList(fields["keywords"]),
		Tone:     stringList(fields["tone"]),
		Author:   stringField(fields, "author"),
		Date:     stringField(fields, "date"),
	}
}

func coerceContext(fields map[string]any) common.GraphContext {
	return common.GraphContext{
		Summary:    stringField(fields, "summary"),
		MainPoints: stringList(fields["main_points"]),
	}
}

func coerceEntities(value any) []common.Entity {
	records, ok := value.([]any)
	if !ok {
		return []common.Entity{}
	}

	entities := make([]common.Entity, 0, len(records))
	for _, record := range records {
		fields, ok := record.(map[string]any)
		if !ok {
			continue
		}

		name := stringField(fields, "name")
		if name == "" {
			continue
		}

		entity := common.Entity{Name: name, Type: "thing"}
		if entityType := stringField(fields, "type"); entityType != "" {
			entity.Type = entityType
		}

		for key, attribute := range fields {
			if key == "name" || key == "type" {
				continue
			}
			if entity.Attributes == nil {
				entity.Attributes = make(map[string]string)
			}
			entity.Attributes[key] = stringValue(attribute)
		}

		entities = append(entities, entity)
	}
	return entities
}

func coerceRelationships(value any) []common.Relationship {
	records, ok := value.([]any)
	if !ok {
		return []common.Relationship{}
	}

	relationships := make([]common.Relationship, 0, len(records))
	for _, record := range records {
		elements, ok := record.([]any)
		if !ok || len(elements) < 3 {
			continue
		}

		relationship := common.Relationship{
			Source: stringValue(elements[0]),
			Action: stringValue(elements[1]),
			Target: stringValue(elements[2]),
		}
		if len(elements) > 3 {
			relationship.Context = stringValue(elements[3])
		}

		relationships = append(relationships, relationship)
	}
	return relationships
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		// Unquoted dates resolve to timestamps during decoding.
		return v.Format(time.DateOnly)
	default:
		return fmt.Sprint(v)
	}
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok {
		return ""
	}
	return stringValue(value)
}

// stringList coerces a field into a list of strings: sequences map
// element-wise, a bare scalar becomes a single-element list and an
// absent value becomes an empty list.
func stringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringValue(item))
		}
		return out
	default:
		return []string{stringValue(v)}
	}
}
