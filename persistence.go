package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SessionAssignment is the only thing persisted per session: which exercise
// the session is on and which templates it already completed. The placement
// arrangement itself never survives a reload.
type SessionAssignment struct {
	TemplateID string    `json:"template_id"`
	Completed  []string  `json:"completed"`
	SavedAt    time.Time `json:"saved_at"`
}

const sessionDir = "data/sessions"

// sessionFilePath validates the session ID and builds its file path. The ID
// comes from a client cookie, so anything that does not parse as a UUID is
// rejected before it can reach the filesystem.
func sessionFilePath(sessionID string) (string, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil || id.String() != sessionID {
		return "", fmt.Errorf("invalid session ID format: %q", sessionID)
	}
	return filepath.Join(sessionDir, sessionID+".json"), nil
}

// saveAssignmentToFile persists a session's assignment to disk.
var saveAssignmentToFile = func(sessionID string, a *SessionAssignment) error {
	sessionFile, err := sessionFilePath(sessionID)
	if err != nil {
		logWarn("Skipping save for invalid session ID: %v", err)
		return nil
	}

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		logWarn("Failed to create sessions directory: %v", err)
		return err
	}

	a.SavedAt = time.Now()
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		logWarn("Failed to marshal assignment for session %s: %v", sessionID, err)
		return err
	}

	if err := os.WriteFile(sessionFile, data, 0644); err != nil {
		logWarn("Failed to write session file %s: %v", sessionFile, err)
		return err
	}
	return nil
}

// loadAssignmentFromFile loads a session's assignment from disk.
var loadAssignmentFromFile = func(sessionID string, maxAge time.Duration) (*SessionAssignment, error) {
	sessionFile, err := sessionFilePath(sessionID)
	if err != nil {
		return nil, os.ErrNotExist
	}

	info, err := os.Stat(sessionFile)
	if err != nil {
		return nil, err
	}

	fileAge := time.Since(info.ModTime())
	if fileAge > maxAge {
		logInfo("Session file is too old (%v, max: %v), removing: %s", fileAge, maxAge, sessionFile)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(sessionFile)
	if err != nil {
		return nil, err
	}

	var a SessionAssignment
	if err := json.Unmarshal(data, &a); err != nil {
		logWarn("Failed to unmarshal session file %s (corrupted), removing: %v", sessionFile, err)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}
	if a.TemplateID == "" {
		logWarn("Session file %s has no template id, removing", sessionFile)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}
	return &a, nil
}

// cleanupOldSessions removes session files older than the given age.
var cleanupOldSessions = func(maxAge time.Duration) error {
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logWarn("Failed to read sessions directory: %v", err)
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	removedCount := 0
	errorCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logWarn("Failed to get info for session file %s: %v", entry.Name(), err)
			errorCount++
			continue
		}

		if info.ModTime().Before(cutoff) {
			sessionFile := filepath.Join(sessionDir, entry.Name())
			if err := os.Remove(sessionFile); err != nil {
				logWarn("Failed to remove old session file %s: %v", sessionFile, err)
				errorCount++
			} else {
				removedCount++
			}
		}
	}

	logInfo("Session cleanup completed: removed %d files, %d errors", removedCount, errorCount)
	return nil
}

// saveAssignment persists the session's current exercise assignment.
func (app *App) saveAssignment(sessionID string, st *ExerciseState) {
	a := &SessionAssignment{
		TemplateID: st.Exercise.TemplateID,
		Completed:  st.Completed,
	}
	if err := saveAssignmentToFile(sessionID, a); err != nil {
		logWarn("Failed to persist assignment for session %s: %v", sessionID, err)
	}
}

// loadAssignment restores the session's exercise assignment, if fresh enough.
func (app *App) loadAssignment(sessionID string) (*SessionAssignment, error) {
	return loadAssignmentFromFile(sessionID, app.SessionTimeout)
}
