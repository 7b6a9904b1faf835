// Package types holds the exercise data file shapes shared between the
// server and the expand tool that generates the file.
package types

// SentenceTemplate is the compact authoring form of a reconstruction or
// transformation exercise: the full sentence plus its metadata. The expand
// tool splits it into words, slots and suffixes.
type SentenceTemplate struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Module      string   `json:"module"`
	Level       int      `json:"level"`
	ClauseType  string   `json:"clause_type"`
	Prompt      string   `json:"prompt"`
	Text        string   `json:"text"`
	Verbs       []string `json:"verbs"`
	Explanation string   `json:"explanation,omitempty"`
}

// GapTemplate is the authoring form of a gap-fill or quick-select exercise:
// a sentence with {gap_N} markers and per-gap options.
type GapTemplate struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Module   string    `json:"module"`
	Level    int       `json:"level"`
	Prompt   string    `json:"prompt"`
	Sentence string    `json:"sentence"`
	Gaps     []GapSpec `json:"gaps"`
}

// GapSpec mirrors the server's gap shape.
type GapSpec struct {
	ID      string   `json:"id"`
	Before  string   `json:"before"`
	After   string   `json:"after"`
	Options []string `json:"options"`
}

// TemplateFile is the input of the expand tool.
type TemplateFile struct {
	Sentences []SentenceTemplate `json:"sentences"`
	GapFills  []GapTemplate      `json:"gap_fills"`
}

// SlotSpec mirrors the server's slot shape.
type SlotSpec struct {
	Index  int    `json:"index"`
	Suffix string `json:"suffix"`
}

// Exercise is one generated entry of the exercises file, field for field the
// descriptor the server loads.
type Exercise struct {
	TemplateID string     `json:"template_id"`
	Kind       string     `json:"kind"`
	Module     string     `json:"module"`
	Level      int        `json:"level"`
	ClauseType string     `json:"clause_type"`
	Prompt     string     `json:"prompt"`
	Words      []string   `json:"words"`
	Verbs      []string   `json:"verbs"`
	Slots      []SlotSpec `json:"slots"`
	Gaps       []GapSpec  `json:"gaps,omitempty"`
}

// ExerciseFile is the output of the expand tool.
type ExerciseFile struct {
	Exercises []Exercise `json:"exercises"`
}
