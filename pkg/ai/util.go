package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema creates a JSON Schema from the given Go type, for use
// as a structured-output constraint on generation requests. Additional
// properties are disallowed and definitions are inlined.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// UnmarshalFlexible unmarshals model-produced JSON into the target,
// tolerating the usual damage: double-encoded strings, a doubled
// opening brace, missing quotes or brackets. Strict parsing runs
// first; the repair pass is the fallback, never the default.
//
// Example:
//
//	var questions []QuestionRecord
//	UnmarshalFlexible(`[{"content": "..."}]`, &questions)       // standard JSON
//	UnmarshalFlexible(`"[{\"content\": \"...\"}]"`, &questions) // double-encoded
//	UnmarshalFlexible(`[{content: "..."}]`, &questions)         // malformed (repaired)
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	// A payload serialized twice decodes to a string first.
	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	input = trimDoubledBrace(input)
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w (input: %s)", err, input)
	}

	if err := json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	return fmt.Errorf(
		"unmarshal failed after repair: input=%s repaired=%s",
		input, repaired,
	)
}

// trimDoubledBrace drops a stray duplicate opening brace, a damage
// pattern the repair library turns into a nested object instead of
// removing.
func trimDoubledBrace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		rest := strings.TrimSpace(s[1:])
		if strings.HasPrefix(rest, "{") {
			return rest
		}
	}
	return s
}
