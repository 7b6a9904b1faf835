package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// triggerError attaches an HX-Trigger payload so the client can toast the
// error next to the swapped fragment.
func triggerError(c *gin.Context, errMsg string) {
	payload := map[string]string{"server_error": errMsg}
	if b, jerr := json.Marshal(payload); jerr == nil {
		c.Header("HX-Trigger", string(b))
	} else {
		logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
	}
}

// homeHandler renders the exercise page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}
	app.renderExercise(c, st, "")
}

// newExerciseHandler assigns the next exercise, optionally filtered by
// module; reset=1 reissues the session cookie.
func (app *App) newExerciseHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	module := c.Query("module")
	if module == "" {
		module = c.PostForm("module")
	}

	if c.Query("reset") == "1" {
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)

		newSessionID := uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, newSessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session ID: %s", newSessionID)
		sessionID = newSessionID
	}

	st := app.startExercise(ctx, sessionID, module)
	if st == nil {
		c.String(http.StatusNotFound, ErrorNoExercises)
		return
	}

	if c.GetHeader("HX-Request") == "true" {
		app.renderExercise(c, st, "")
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// pointerEvent is the wire form of one raw pointer event. T is the client's
// event timestamp in Unix milliseconds; the classifier only ever subtracts
// timestamps, so clock offset between client and server does not matter.
type pointerEvent struct {
	Chip  int     `json:"chip"`
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	T     int64   `json:"t"`
}

// pointerHandler feeds one event through the gesture classifier and returns
// the re-rendered board. A long-press additionally triggers the dictionary
// popup on the client via HX-Trigger.
func (app *App) pointerHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}

	var ev pointerEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		logWarn("Malformed pointer event from session %s: %v", sessionID, err)
		app.renderExercise(c, st, "")
		return
	}

	out := st.Gestures.HandlePointer(PointerEvent{
		Chip:  ev.Chip,
		Phase: ev.Phase,
		X:     ev.X,
		Y:     ev.Y,
		T:     time.UnixMilli(ev.T),
	})
	app.Metrics.recordGesture(out)
	st.refreshSubmitGate()
	st.LastAccessTime = time.Now()

	if out.Intent == IntentLongPress && out.Word != "" {
		payload := map[string]string{"lookup-word": out.Word}
		if b, jerr := json.Marshal(payload); jerr == nil {
			c.Header("HX-Trigger", string(b))
		}
	}
	app.renderExercise(c, st, "")
}

// chipTapHandler is the click fallback for tap-to-place. With select=1 the
// tap toggles the pending selection instead, for the selection-toggle tray.
func (app *App) chipTapHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		app.renderExercise(c, st, "")
		return
	}

	if c.PostForm("select") == "1" {
		st.Model.ToggleSelect(idx)
	} else if slot := st.Model.FirstEmptySlot(); slot >= 0 {
		if st.Model.Place(idx, slot) {
			app.Metrics.Placements.WithLabelValues("place").Inc()
		}
	}
	st.refreshSubmitGate()
	app.renderExercise(c, st, "")
}

// slotClickHandler evicts an occupied slot back to the tray; clicking an
// empty slot while a chip is pending selection places that chip there.
func (app *App) slotClickHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(st.Model.Slots) {
		app.renderExercise(c, st, "")
		return
	}

	if st.Model.Slots[idx].Occupant != noOccupant {
		if st.Model.Evict(idx) {
			app.Metrics.Placements.WithLabelValues("evict").Inc()
		}
	} else if st.Model.Selected != noOccupant {
		if st.Model.Place(st.Model.Selected, idx) {
			app.Metrics.Placements.WithLabelValues("place").Inc()
		}
	}
	st.refreshSubmitGate()
	app.renderExercise(c, st, "")
}

// gapSelectHandler records an option-button choice for the gap kinds.
func (app *App) gapSelectHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}

	gapID := c.Param("id")
	value := c.PostForm("value")
	if value != "" {
		st.Model.SetGap(gapID, value)
	}
	st.refreshSubmitGate()
	app.renderExercise(c, st, "")
}

// submitHandler runs the submission protocol against the checking service.
func (app *App) submitHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}

	errMsg := ""
	if err := app.submitExercise(ctx, sessionID, st); err != nil {
		errMsg = err.Error()
	}
	app.renderExercise(c, st, errMsg)
}

// resetHandler returns the attempt to the all-empty state.
func (app *App) resetHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	st := app.getExerciseState(ctx, sessionID)
	if st == nil {
		c.String(http.StatusServiceUnavailable, ErrorNoExercises)
		return
	}

	st.resetExercise()
	logInfo("Session %s reset exercise %s", sessionID, st.Exercise.TemplateID)
	app.renderExercise(c, st, "")
}

// lookupHandler renders the dictionary popup for a long-pressed word.
// Lookup failure degrades to a fixed fallback message inside the popup.
func (app *App) lookupHandler(c *gin.Context) {
	word := c.Param("word")
	entry, err := app.Dict.Lookup(c.Request.Context(), word)
	if err != nil {
		logWarn("Dictionary lookup failed for %q: %v", word, err)
		app.Metrics.Lookups.WithLabelValues("fallback").Inc()
		entry = &DictEntry{Word: word, Definition: LookupFallback}
	} else {
		app.Metrics.Lookups.WithLabelValues("ok").Inc()
	}
	c.HTML(http.StatusOK, "lookup-popup", gin.H{"entry": entry})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"env":              map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"exercises_loaded": len(app.Exercises),
		"uptime":           formatUptime(uptime),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
