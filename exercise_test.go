package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func stubAssignmentPersistence(t *testing.T) {
	t.Helper()
	origSave := saveAssignmentToFile
	origLoad := loadAssignmentFromFile
	saveAssignmentToFile = func(string, *SessionAssignment) error { return nil }
	loadAssignmentFromFile = func(string, time.Duration) (*SessionAssignment, error) {
		return nil, os.ErrNotExist
	}
	t.Cleanup(func() {
		saveAssignmentToFile = origSave
		loadAssignmentFromFile = origLoad
	})
}

func TestLoadExercisesSkipsInvalidEntries(t *testing.T) {
	content := `{
		"exercises": [
			{
				"template_id": "ok_1",
				"kind": "reconstruction",
				"module": "verb_position",
				"level": 1,
				"words": ["sie", "kommt"],
				"slots": [{"index": 0}, {"index": 1, "suffix": "."}]
			},
			{
				"template_id": "bad_1",
				"kind": "reconstruction",
				"words": ["sie", "kommt"],
				"slots": [{"index": 0}]
			},
			{
				"template_id": "ok_2",
				"kind": "gap_fill",
				"module": "adjektive",
				"gaps": [{"id": "gap_1", "options": ["e", "en"]}]
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "exercises.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	exercises, err := loadExercises(path)
	if err != nil {
		t.Fatalf("loadExercises: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(exercises))
	}
	if exercises[0].TemplateID != "ok_1" || exercises[1].TemplateID != "ok_2" {
		t.Errorf("kept %s and %s", exercises[0].TemplateID, exercises[1].TemplateID)
	}
}

func TestLoadExercisesErrors(t *testing.T) {
	if _, err := loadExercises(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should be an error")
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	os.WriteFile(path, []byte(`{"exercises": []}`), 0644)
	if _, err := loadExercises(path); err == nil {
		t.Error("empty pool should be an error")
	}
}

func TestValidateExercise(t *testing.T) {
	cases := []struct {
		name    string
		ex      ExerciseDescriptor
		wantErr bool
	}{
		{"valid reconstruction", *testReconExercise(), false},
		{"valid gap fill", *testGapExercise(), false},
		{"missing id", ExerciseDescriptor{Kind: KindReconstruction}, true},
		{"no words", ExerciseDescriptor{TemplateID: "x", Kind: KindTransformation}, true},
		{"slot count mismatch", ExerciseDescriptor{
			TemplateID: "x", Kind: KindReconstruction,
			Words: []string{"a", "b"}, Slots: []SlotSpec{{Index: 0}},
		}, true},
		{"non-sequential slot indices", ExerciseDescriptor{
			TemplateID: "x", Kind: KindReconstruction,
			Words: []string{"a", "b"}, Slots: []SlotSpec{{Index: 0}, {Index: 2}},
		}, true},
		{"gap without options", ExerciseDescriptor{
			TemplateID: "x", Kind: KindQuickSelect, Gaps: []GapSpec{{ID: "gap_1"}},
		}, true},
		{"unknown kind", ExerciseDescriptor{TemplateID: "x", Kind: "anagram"}, true},
	}
	for _, tc := range cases {
		err := validateExercise(tc.ex)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestCountByModuleAndLevel(t *testing.T) {
	counts := countByModuleAndLevel([]ExerciseDescriptor{
		{Module: "verb_position", Level: 1},
		{Module: "verb_position", Level: 1},
		{Module: "verb_position", Level: 2},
		{Module: "adjektive", Level: 1},
	})
	if counts["verb_position"][1] != 2 || counts["verb_position"][2] != 1 {
		t.Errorf("verb_position counts = %v", counts["verb_position"])
	}
	if counts["adjektive"][1] != 1 {
		t.Errorf("adjektive counts = %v", counts["adjektive"])
	}
}

func TestPickExercise(t *testing.T) {
	app := &App{Exercises: []ExerciseDescriptor{
		{TemplateID: "a", Module: "verb_position"},
		{TemplateID: "b", Module: "verb_position"},
		{TemplateID: "c", Module: "adjektive"},
	}}
	ctx := context.Background()

	ex, exhausted := app.pickExercise(ctx, "adjektive", nil)
	if ex == nil || ex.TemplateID != "c" || exhausted {
		t.Fatalf("pick = %v, %v", ex, exhausted)
	}

	// Completed templates are excluded until the pool runs dry.
	ex, exhausted = app.pickExercise(ctx, "verb_position", []string{"a"})
	if ex.TemplateID != "b" || exhausted {
		t.Fatalf("pick with exclusion = %s, %v", ex.TemplateID, exhausted)
	}
	ex, exhausted = app.pickExercise(ctx, "verb_position", []string{"a", "b"})
	if ex == nil || !exhausted {
		t.Fatal("exhausted pool should reset and report it")
	}

	if ex, _ := app.pickExercise(ctx, "nonexistent", nil); ex != nil {
		t.Error("unknown module should yield nothing")
	}
}

func TestStartExerciseCarriesProgressForward(t *testing.T) {
	stubAssignmentPersistence(t)
	app := &App{
		Exercises: []ExerciseDescriptor{*testReconExercise(), *testGapExercise()},
		Sessions:  make(map[string]*ExerciseState),
	}
	ctx := context.Background()

	first := app.startExercise(ctx, "session-abc", "")
	if first == nil || first.Generation != 0 {
		t.Fatalf("first state = %+v", first)
	}

	first.Completed = []string{"test_recon"}
	second := app.startExercise(ctx, "session-abc", "adjektive")
	if second.Exercise.TemplateID != "test_gap" {
		t.Errorf("picked %s, want test_gap", second.Exercise.TemplateID)
	}
	if second.Generation != first.Generation+1 {
		t.Errorf("generation = %d, want %d", second.Generation, first.Generation+1)
	}
	if len(second.Completed) != 1 || second.Completed[0] != "test_recon" {
		t.Errorf("completed = %v", second.Completed)
	}
	if app.Sessions["session-abc"] != second {
		t.Error("session map should hold the new state")
	}
}

func TestResetExercise(t *testing.T) {
	st := newExerciseState(testReconExercise())
	fillReconState(st)
	st.refreshSubmitGate()
	st.applyCheckResponse(&CheckResponse{
		Correct:     false,
		SlotResults: []SlotResult{{Index: 0, IsCorrect: false}},
	})
	st.Gestures.Ghost.Begin(0, 10, 10)
	gen := st.Generation

	st.resetExercise()

	for _, s := range st.Model.Slots {
		if s.Occupant != noOccupant {
			t.Errorf("slot %d still occupied after reset", s.Index)
		}
	}
	if st.Result.Checked || len(st.Result.SlotMarks) != 0 {
		t.Error("reset must clear every marker and message")
	}
	if st.Submit.Enabled || st.Submit.Label != SubmitLabelReady {
		t.Errorf("submit control = %+v", st.Submit)
	}
	if st.Gestures.Ghost.Active {
		t.Error("reset must remove the drag ghost")
	}
	if st.Generation != gen+1 {
		t.Errorf("generation = %d, want %d", st.Generation, gen+1)
	}
}

func TestRefreshSubmitGate(t *testing.T) {
	st := newExerciseState(testReconExercise())
	st.refreshSubmitGate()
	if st.Submit.Enabled {
		t.Error("empty board must keep submit disabled")
	}

	fillReconState(st)
	st.refreshSubmitGate()
	if !st.Submit.Enabled {
		t.Error("complete board must enable submit")
	}

	st.Model.Evict(2)
	st.refreshSubmitGate()
	if st.Submit.Enabled {
		t.Error("removing a chip must disable submit again")
	}

	// An in-flight check owns the control.
	st.Submit = SubmitState{Enabled: false, Label: SubmitLabelChecking, InFlight: true}
	fillReconState(st)
	st.refreshSubmitGate()
	if st.Submit.Enabled {
		t.Error("gate must not re-enable while a check is in flight")
	}
}
