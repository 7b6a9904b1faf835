package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"slices"
	"time"

	"github.com/samber/lo"
)

// loadExercises reads and validates the exercise data file.
func loadExercises(path string) ([]ExerciseDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list ExerciseList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	valid := lo.Filter(list.Exercises, func(ex ExerciseDescriptor, _ int) bool {
		if err := validateExercise(ex); err != nil {
			logWarn("Skipping exercise %q: %v", ex.TemplateID, err)
			return false
		}
		return true
	})
	if len(valid) == 0 {
		return nil, errors.New("no valid exercises in data file")
	}
	return valid, nil
}

// validateExercise checks the structural invariants a descriptor must hold
// before the placement core may consume it.
func validateExercise(ex ExerciseDescriptor) error {
	if ex.TemplateID == "" {
		return errors.New("missing template_id")
	}
	switch ex.Kind {
	case KindReconstruction, KindTransformation:
		if len(ex.Words) == 0 {
			return errors.New("no words")
		}
		if len(ex.Slots) != len(ex.Words) {
			return fmt.Errorf("slot count %d != word count %d", len(ex.Slots), len(ex.Words))
		}
		for i, s := range ex.Slots {
			if s.Index != i {
				return fmt.Errorf("slot index %d at position %d", s.Index, i)
			}
		}
	case KindGapFill, KindQuickSelect:
		if len(ex.Gaps) == 0 {
			return errors.New("no gaps")
		}
		for _, g := range ex.Gaps {
			if g.ID == "" || len(g.Options) == 0 {
				return errors.New("gap missing id or options")
			}
		}
	default:
		return fmt.Errorf("unknown kind %q", ex.Kind)
	}
	return nil
}

// countByModuleAndLevel indexes the pool for the home page overview.
func countByModuleAndLevel(exercises []ExerciseDescriptor) map[string]map[int]int {
	counts := make(map[string]map[int]int)
	lo.ForEach(exercises, func(ex ExerciseDescriptor, _ int) {
		if counts[ex.Module] == nil {
			counts[ex.Module] = make(map[int]int)
		}
		counts[ex.Module][ex.Level]++
	})
	return counts
}

// pickExercise returns a random exercise, restricted to a module when the
// filter is non-empty and excluding completed templates. The second return
// reports that the pool is exhausted and the exclusion list should be
// cleared by the caller.
func (app *App) pickExercise(ctx context.Context, module string, completed []string) (*ExerciseDescriptor, bool) {
	reqID, _ := ctx.Value(requestIDKey).(string)

	pool := lo.Filter(app.Exercises, func(ex ExerciseDescriptor, _ int) bool {
		return module == "" || ex.Module == module
	})
	if len(pool) == 0 {
		return nil, false
	}

	available := lo.Filter(pool, func(ex ExerciseDescriptor, _ int) bool {
		return !slices.Contains(completed, ex.TemplateID)
	})
	exhausted := false
	if len(available) == 0 {
		if reqID != "" {
			logInfo("[request_id=%v] All exercises completed for module %q, resetting pool", reqID, module)
		} else {
			logInfo("All exercises completed for module %q, resetting pool", module)
		}
		available = pool
		exhausted = true
	}

	select {
	case <-ctx.Done():
		logWarn("pickExercise cancelled: %v", ctx.Err())
		return &available[0], exhausted
	default:
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(available))))
	if err != nil {
		logWarn("Error generating random number: %v, using fallback", err)
		return &available[0], exhausted
	}
	return &available[n.Int64()], exhausted
}

// newExerciseState builds a fresh attempt: placement model, board layout,
// gesture classifier and a disabled submit control.
func newExerciseState(ex *ExerciseDescriptor) *ExerciseState {
	model := newPlacementModel(ex)
	return &ExerciseState{
		Exercise:       ex,
		Model:          model,
		Gestures:       newGestureClassifier(model, newBoardLayout(ex)),
		Submit:         SubmitState{Enabled: false, Label: SubmitLabelReady},
		LastAccessTime: time.Now(),
	}
}

// startExercise assigns a new exercise to a session, carrying the completed
// list and the generation counter forward from the previous state.
func (app *App) startExercise(ctx context.Context, sessionID, module string) *ExerciseState {
	app.SessionMutex.RLock()
	prev := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()

	var completed []string
	var generation uint64
	if prev != nil {
		completed = prev.Completed
		generation = prev.Generation + 1
	}

	ex, exhausted := app.pickExercise(ctx, module, completed)
	if ex == nil {
		return nil
	}
	if exhausted {
		completed = nil
	}

	st := newExerciseState(ex)
	st.Completed = completed
	st.Generation = generation
	logInfo("New %s exercise %s for session %s (module %s, level %d)",
		ex.Kind, ex.TemplateID, sessionID, ex.Module, ex.Level)

	app.SessionMutex.Lock()
	app.Sessions[sessionID] = st
	app.SessionMutex.Unlock()
	app.saveAssignment(sessionID, st)
	return st
}

// resetExercise returns the attempt to its pristine state: empty board,
// cleared markers and a disabled submit control. The generation bump makes
// any in-flight check response stale.
func (st *ExerciseState) resetExercise() {
	st.Model.Reset()
	st.Gestures.Ghost.End()
	st.Gestures.Contacts = make(map[int]*GestureContact)
	st.clearResult()
	st.Submit = SubmitState{Enabled: false, Label: SubmitLabelReady}
	st.Generation++
	st.LastAccessTime = time.Now()
}

// refreshSubmitGate recomputes the submit gating after a placement mutation.
// A failed previous check keeps its error label until the next submit.
func (st *ExerciseState) refreshSubmitGate() {
	if st.Submit.InFlight {
		return
	}
	st.Submit.Enabled = st.Model.IsComplete()
}
