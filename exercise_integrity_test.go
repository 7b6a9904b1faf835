package main

import (
	"slices"
	"strings"
	"testing"
)

// The shipped exercise data must satisfy every invariant the placement core
// relies on, so a bad data edit fails here instead of at runtime.
func TestShippedExerciseData(t *testing.T) {
	exercises, err := loadExercises("data/exercises.json")
	if err != nil {
		t.Fatalf("loading shipped data: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("no exercises shipped")
	}

	seen := make(map[string]bool)
	for _, ex := range exercises {
		if seen[ex.TemplateID] {
			t.Errorf("duplicate template id %q", ex.TemplateID)
		}
		seen[ex.TemplateID] = true

		if err := validateExercise(ex); err != nil {
			t.Errorf("%s: %v", ex.TemplateID, err)
		}
		if ex.Module == "" {
			t.Errorf("%s: missing module", ex.TemplateID)
		}
		if ex.Level < 1 {
			t.Errorf("%s: level %d", ex.TemplateID, ex.Level)
		}
		if ex.Prompt == "" {
			t.Errorf("%s: missing prompt", ex.TemplateID)
		}

		for i, w := range ex.Words {
			if strings.TrimSpace(w) == "" {
				t.Errorf("%s: empty word at %d", ex.TemplateID, i)
			}
		}
		for _, v := range ex.Verbs {
			if !slices.Contains(ex.Words, v) {
				t.Errorf("%s: verb %q is not among the words", ex.TemplateID, v)
			}
		}
		for _, g := range ex.Gaps {
			opts := make(map[string]bool)
			for _, o := range g.Options {
				if opts[o] {
					t.Errorf("%s/%s: duplicate option %q", ex.TemplateID, g.ID, o)
				}
				opts[o] = true
			}
		}
	}
}

func TestShippedDataCoversEveryKind(t *testing.T) {
	exercises, err := loadExercises("data/exercises.json")
	if err != nil {
		t.Fatalf("loading shipped data: %v", err)
	}
	kinds := make(map[string]int)
	for _, ex := range exercises {
		kinds[ex.Kind]++
	}
	for _, kind := range []string{KindReconstruction, KindTransformation, KindGapFill, KindQuickSelect} {
		if kinds[kind] == 0 {
			t.Errorf("no %s exercise shipped", kind)
		}
	}
}
