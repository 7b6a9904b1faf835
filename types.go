package main

import "time"

// SlotSpec describes one fixed position in the target sequence.
type SlotSpec struct {
	Index  int    `json:"index"`
	Suffix string `json:"suffix"`
}

// GapSpec describes one inline gap for the option-button exercise kinds.
type GapSpec struct {
	ID      string   `json:"id"`
	Before  string   `json:"before"`
	After   string   `json:"after"`
	Options []string `json:"options"`
}

// ExerciseDescriptor is the opaque exercise definition supplied at load time.
// The interaction core never mutates it.
type ExerciseDescriptor struct {
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

// ExerciseList represents the JSON structure of the exercise data file.
type ExerciseList struct {
	Exercises []ExerciseDescriptor `json:"exercises"`
}

// SlotAnswer is one (position, value) pair of the answer payload.
type SlotAnswer struct {
	SlotIndex int    `json:"slot_index"`
	Word      string `json:"word"`
}

// CheckRequest is the body posted to the external checking service.
// Positions is set for the chip/slot kinds, Answers for the gap kinds.
type CheckRequest struct {
	TemplateID string            `json:"template_id"`
	Module     string            `json:"module,omitempty"`
	AttemptID  string            `json:"attempt_id,omitempty"`
	Positions  []SlotAnswer      `json:"positions,omitempty"`
	Answers    map[string]string `json:"answers,omitempty"`
}

// SlotResult is the checker's verdict for one slot position.
type SlotResult struct {
	Index       int    `json:"index"`
	CorrectWord string `json:"correct_word"`
	UserWord    string `json:"user_word"`
	IsCorrect   bool   `json:"is_correct"`
	IsVerb      bool   `json:"is_verb,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
}

// GapResult is the checker's verdict for one gap.
type GapResult struct {
	Position      string `json:"position"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// ErrorDetail is one categorized error entry from the checker, rendered verbatim.
type ErrorDetail struct {
	Category     string `json:"category"`
	CategoryName string `json:"category_name"`
	Description  string `json:"description"`
	Tip          string `json:"tip"`
	Rule         string `json:"rule"`
	Specific     string `json:"specific"`
}

// CheckResponse is the structured response of the checking service.
// SlotResults and GapResults are optional; positions without an entry stay unmarked.
type CheckResponse struct {
	Correct      bool          `json:"correct"`
	FullSentence string        `json:"full_sentence"`
	Explanation  string        `json:"explanation"`
	GrammarRule  string        `json:"grammar_rule"`
	GrammarTip   string        `json:"grammar_tip"`
	Errors       []ErrorDetail `json:"errors"`
	SlotResults  []SlotResult  `json:"slot_results"`
	GapResults   []GapResult   `json:"gap_results"`
}

// DictEntry is a dictionary lookup result for the long-press popup.
type DictEntry struct {
	Word       string   `json:"word"`
	WordType   string   `json:"word_type"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
	SourceURL  string   `json:"duden_url"`
}

// SubmitState tracks the submit control across the check protocol.
type SubmitState struct {
	Enabled  bool   `json:"enabled"`
	Label    string `json:"label"`
	InFlight bool   `json:"inFlight"`
}

// ExerciseState holds one session's exercise attempt: the descriptor, the
// placement model, the gesture machinery and the applied result.
type ExerciseState struct {
	Exercise       *ExerciseDescriptor `json:"exercise"`
	Model          *PlacementModel     `json:"model"`
	Gestures       *GestureClassifier  `json:"-"`
	Result         ResultState         `json:"result"`
	Submit         SubmitState         `json:"submit"`
	Generation     uint64              `json:"generation"`
	Completed      []string            `json:"completed"`
	LastAccessTime time.Time           `json:"lastAccessTime"`
}
