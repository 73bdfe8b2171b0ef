package graph

import (
	"regexp"
	"strings"
)

// keyValuePattern matches a plain "key: value" line, including list
// items carrying a mapping ("- key: value"). The first group keeps
// everything through the colon and spacing so repaired lines preserve
// their indentation.
var keyValuePattern = regexp.MustCompile(`^(\s*(?:- )?[\w][\w .\-]*:\s+)(.*)$`)

// repairQuotes rewrites key/value lines whose value embeds quote
// characters without being a well-formed quoted scalar: embedded
// quotes are escaped and the whole value is wrapped in quotes, which
// is what the generator usually meant. Values opening nested
// structures or block scalars are left untouched. The heuristic is
// line-local and best-effort; callers only reach it after the
// unmodified blob already failed to parse.
func repairQuotes(blob string) string {
	lines := strings.Split(blob, "\n")
	for i, line := range lines {
		match := keyValuePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		value := strings.TrimSpace(match[2])
		if value == "" || opensStructure(value) {
			continue
		}
		if !strings.Contains(value, `"`) || wellFormedQuoted(value) {
			continue
		}

		escaped := strings.ReplaceAll(value, `"`, `\"`)
		lines[i] = match[1] + `"` + escaped + `"`
	}
	return strings.Join(lines, "\n")
}

func opensStructure(value string) bool {
	switch value[0] {
	case '{', '[', '|', '>', '&', '*':
		return true
	}
	return false
}

// wellFormedQuoted reports whether the value is already a complete
// quoted scalar, meaning every interior double quote is escaped.
func wellFormedQuoted(value string) bool {
	if len(value) < 2 {
		return false
	}
	if value[0] == '\'' && value[len(value)-1] == '\'' {
		return true
	}
	if value[0] != '"' || value[len(value)-1] != '"' {
		return false
	}

	escaped := false
	for i := 1; i < len(value)-1; i++ {
		switch {
		case escaped:
			escaped = false
		case value[i] == '\\':
			escaped = true
		case value[i] == '"':
			return false
		}
	}
	return !escaped
}
