package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Checker endpoint paths, one per exercise kind (the service keeps separate
// routes per mechanic but an identical submit protocol).
const (
	checkPathReconstruction = "/api/check"
	checkPathTransformation = "/api/check_transformation"
	checkPathGapFill        = "/api/check_gap"
	checkPathQuickSelect    = "/api/check_quick_select"
)

// CheckerClient talks to the external correctness-checking service. One POST
// per submission, no retry or backoff: a transport failure surfaces as an
// error state on the submit control and the user re-invokes submit.
type CheckerClient struct {
	BaseURL string
	Client  *http.Client
}

func newCheckerClient(baseURL string, timeout time.Duration) *CheckerClient {
	return &CheckerClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func checkPathForKind(kind string) (string, error) {
	switch kind {
	case KindReconstruction:
		return checkPathReconstruction, nil
	case KindTransformation:
		return checkPathTransformation, nil
	case KindGapFill:
		return checkPathGapFill, nil
	case KindQuickSelect:
		return checkPathQuickSelect, nil
	}
	return "", fmt.Errorf("no checker endpoint for kind %q", kind)
}

// Check posts one answer payload and decodes the structured response.
func (cc *CheckerClient) Check(ctx context.Context, kind string, req *CheckRequest) (*CheckResponse, error) {
	path, err := checkPathForKind(kind)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := cc.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checker returned status %d", resp.StatusCode)
	}
	var out CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// buildCheckRequest snapshots the current arrangement into the payload shape
// for the exercise's kind. The snapshot is built fresh and never mutated.
func buildCheckRequest(st *ExerciseState) *CheckRequest {
	req := &CheckRequest{
		TemplateID: st.Exercise.TemplateID,
		Module:     st.Exercise.Module,
		AttemptID:  uuid.NewString(),
	}
	switch st.Exercise.Kind {
	case KindGapFill, KindQuickSelect:
		req.Answers = st.Model.GapAnswers()
	default:
		req.Positions = st.Model.Snapshot()
	}
	return req
}

// submitExercise runs the full submission protocol: gate on completeness,
// disable the control, call the checker, and apply or discard the result.
// The placement model is untouched by a failed submit, so the worst case is
// an enabled error label.
func (app *App) submitExercise(ctx context.Context, sessionID string, st *ExerciseState) error {
	if !st.Model.IsComplete() {
		return fmt.Errorf("%s", ErrorIncomplete)
	}

	req := buildCheckRequest(st)
	generation := st.Generation
	st.Submit = SubmitState{Enabled: false, Label: SubmitLabelChecking, InFlight: true}

	resp, err := app.Checker.Check(ctx, st.Exercise.Kind, req)

	st.Submit.InFlight = false
	if err != nil {
		logWarn("Check failed for session %s exercise %s: %v", sessionID, st.Exercise.TemplateID, err)
		st.Submit = SubmitState{Enabled: true, Label: SubmitLabelError}
		app.Metrics.CheckFailures.Inc()
		return fmt.Errorf("%s", ErrorCheckFailed)
	}

	// A reset or exercise change while the check was in flight bumps the
	// generation; the late response must not be applied to the new board.
	if st.Generation != generation {
		logInfo("Discarding stale check response for session %s (generation %d != %d)",
			sessionID, generation, st.Generation)
		app.Metrics.StaleResponses.Inc()
		return nil
	}

	st.applyCheckResponse(resp)
	st.Submit = SubmitState{Enabled: st.Model.IsComplete(), Label: SubmitLabelReady}
	if resp.Correct {
		st.Completed = append(st.Completed, st.Exercise.TemplateID)
		app.Metrics.Submissions.WithLabelValues("correct").Inc()
	} else {
		app.Metrics.Submissions.WithLabelValues("incorrect").Inc()
	}
	logInfo("Session %s checked exercise %s: correct=%v, slot_results=%d, errors=%d",
		sessionID, st.Exercise.TemplateID, resp.Correct, len(resp.SlotResults), len(resp.Errors))
	return nil
}
