package common

// Question represents a single multiple-choice question extracted from
// generator output. The stem may contain a cloze blank (a single "_")
// that the correct option fills in.
//
// Correct is a 0-based index into Options (A=0, B=1, C=2, D=3). A
// Question with an unresolvable answer letter is never constructed;
// extraction drops the record instead.
type Question struct {
	ID          int      `json:"id"`
	Content     string   `json:"content"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
	Type        string   `json:"type,omitempty"`
	Level       int      `json:"level,omitempty"`
}

// Quiz is a parsed quiz document: header metadata plus its questions.
// Fields missing from the source text carry their documented defaults
// rather than empty values.
type Quiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Genre       string     `json:"genre"`
	Topics      []string   `json:"topics"`
	Questions   []Question `json:"questions"`
}

// KnowledgeGraph is the structured view of one generator output blob:
// document metadata, a short context, and the extracted entities and
// relationships. It is built once per parse call; absent sections yield
// empty defaults, never nils that propagate.
type KnowledgeGraph struct {
	Meta          GraphMeta      `json:"meta"`
	Context       GraphContext   `json:"context"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// GraphMeta carries the document-level header fields of a knowledge
// graph. Scalar fields default to "", list fields to empty lists; a
// scalar found where a list is expected becomes a one-element list.
type GraphMeta struct {
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`
	Tone     []string `json:"tone"`
	Author   string   `json:"author"`
	Date     string   `json:"date"`
}

// GraphContext summarizes the source document.
type GraphContext struct {
	Summary    string   `json:"summary"`
	MainPoints []string `json:"main_points"`
}

// Entity is a node extracted from generator output. Name is required;
// records without one are dropped. Type defaults to "thing". Any extra
// keys present on the source record are kept verbatim in Attributes.
type Entity struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Relationship is a directed edge between two entities by name, with
// the connecting action and optional free-text context. Source records
// with fewer than three elements are dropped during extraction.
type Relationship struct {
	Source  string `json:"source"`
	Action  string `json:"action"`
	Target  string `json:"target"`
	Context string `json:"context,omitempty"`
}
