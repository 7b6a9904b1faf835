package main

// ResultState is the applied checking-service verdict for the current
// attempt. SlotMarks is index-aligned with the slots; positions the checker
// sent no entry for keep MarkNone, which is a defined degenerate case.
type ResultState struct {
	Checked      bool              `json:"checked"`
	Correct      bool              `json:"correct"`
	FullSentence string            `json:"fullSentence"`
	Explanation  string            `json:"explanation"`
	GrammarRule  string            `json:"grammarRule"`
	GrammarTip   string            `json:"grammarTip"`
	Errors       []ErrorDetail     `json:"errors"`
	SlotMarks    []string          `json:"slotMarks"`
	GapMarks     map[string]string `json:"gapMarks"`
}

// applyCheckResponse maps a checker response onto per-position visual state.
// The canonical sentence, explanation and error entries are opaque content
// from the service and are carried verbatim; the core interprets none of it.
func (st *ExerciseState) applyCheckResponse(resp *CheckResponse) {
	r := &st.Result
	r.Checked = true
	r.Correct = resp.Correct
	r.FullSentence = resp.FullSentence
	r.Explanation = resp.Explanation
	r.GrammarRule = resp.GrammarRule
	r.GrammarTip = resp.GrammarTip
	r.Errors = resp.Errors

	r.SlotMarks = make([]string, len(st.Model.Slots))
	for _, sr := range resp.SlotResults {
		if sr.Index < 0 || sr.Index >= len(r.SlotMarks) {
			continue
		}
		if sr.IsCorrect {
			r.SlotMarks[sr.Index] = MarkCorrect
		} else {
			r.SlotMarks[sr.Index] = MarkIncorrect
		}
	}

	r.GapMarks = make(map[string]string, len(resp.GapResults))
	for _, gr := range resp.GapResults {
		if gr.IsCorrect {
			r.GapMarks[gr.Position] = MarkCorrect
		} else {
			r.GapMarks[gr.Position] = MarkIncorrect
		}
	}
}

// clearResult removes every marker, message and error entry.
func (st *ExerciseState) clearResult() {
	st.Result = ResultState{}
}

// markFor returns the marker applied to a slot, MarkNone when unmarked.
func (r *ResultState) markFor(slotIdx int) string {
	if slotIdx < 0 || slotIdx >= len(r.SlotMarks) {
		return MarkNone
	}
	return r.SlotMarks[slotIdx]
}
