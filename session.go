package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getExerciseState retrieves or creates the ExerciseState for a session.
// A persisted assignment restores which exercise the session was on, never
// the arrangement itself: placements do not survive a reload.
func (app *App) getExerciseState(ctx context.Context, sessionID string) *ExerciseState {
	app.SessionMutex.RLock()
	st, exists := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		app.SessionMutex.Lock()
		st.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return st
	}

	if assignment, err := app.loadAssignment(sessionID); err == nil {
		if ex, ok := app.ExerciseIndex[assignment.TemplateID]; ok {
			st = newExerciseState(ex)
			st.Completed = assignment.Completed
			logInfo("Restored assignment %s for session %s", assignment.TemplateID, sessionID)
			app.SessionMutex.Lock()
			app.Sessions[sessionID] = st
			app.SessionMutex.Unlock()
			return st
		}
	}

	logInfo("Assigning new exercise for session: %s", sessionID)
	return app.startExercise(ctx, sessionID, "")
}
