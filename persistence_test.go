package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// chdirTemp runs the test from a temp directory so data/sessions is isolated.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(originalWD) })
	return tempDir
}

func TestSaveAndLoadAssignment(t *testing.T) {
	chdirTemp(t)

	sessionID := uuid.NewString()
	saved := &SessionAssignment{
		TemplateID: "recon_001",
		Completed:  []string{"trans_001"},
	}
	if err := saveAssignmentToFile(sessionID, saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.SavedAt.IsZero() {
		t.Error("SavedAt not stamped on save")
	}

	loaded, err := loadAssignmentFromFile(sessionID, time.Hour)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TemplateID != "recon_001" {
		t.Errorf("TemplateID = %q", loaded.TemplateID)
	}
	if len(loaded.Completed) != 1 || loaded.Completed[0] != "trans_001" {
		t.Errorf("Completed = %v", loaded.Completed)
	}
}

func TestLoadAssignmentRemovesStaleFiles(t *testing.T) {
	chdirTemp(t)

	// Expired file.
	oldID := uuid.NewString()
	if err := saveAssignmentToFile(oldID, &SessionAssignment{TemplateID: "recon_001"}); err != nil {
		t.Fatal(err)
	}
	oldPath := filepath.Join(sessionDir, oldID+".json")
	oldTime := time.Now().Add(-2 * time.Hour)
	os.Chtimes(oldPath, oldTime, oldTime)

	if _, err := loadAssignmentFromFile(oldID, time.Hour); !os.IsNotExist(err) {
		t.Errorf("expired file: err = %v, want ErrNotExist", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expired file was not removed")
	}

	// Corrupt file.
	corruptID := uuid.NewString()
	corruptPath := filepath.Join(sessionDir, corruptID+".json")
	os.WriteFile(corruptPath, []byte("this is not json"), 0644)
	if _, err := loadAssignmentFromFile(corruptID, time.Hour); !os.IsNotExist(err) {
		t.Errorf("corrupt file: err = %v, want ErrNotExist", err)
	}
	if _, err := os.Stat(corruptPath); !os.IsNotExist(err) {
		t.Error("corrupt file was not removed")
	}

	// File without a template id.
	emptyID := uuid.NewString()
	emptyPath := filepath.Join(sessionDir, emptyID+".json")
	os.WriteFile(emptyPath, []byte(`{"completed": []}`), 0644)
	if _, err := loadAssignmentFromFile(emptyID, time.Hour); !os.IsNotExist(err) {
		t.Errorf("empty assignment: err = %v, want ErrNotExist", err)
	}
	if _, err := os.Stat(emptyPath); !os.IsNotExist(err) {
		t.Error("assignment without template id was not removed")
	}
}

func TestSessionFilePathRejectsNonUUIDs(t *testing.T) {
	cases := []string{
		"",
		"short",
		"../../../etc/passwd",
		"/etc/passwd",
		"..\\..\\windows\\system32",
		"session/../../../secret.txt",
		"session\x00.txt",
		"./session",
		"12345678-1234-5678-9abc-123456789xyz",
		strings.ToUpper(uuid.NewString()),
	}
	for _, id := range cases {
		if path, err := sessionFilePath(id); err == nil {
			t.Errorf("sessionFilePath(%q) accepted, path %s", id, path)
		}
	}

	valid := uuid.NewString()
	path, err := sessionFilePath(valid)
	if err != nil {
		t.Fatalf("sessionFilePath(%q): %v", valid, err)
	}
	if path != filepath.Join(sessionDir, valid+".json") {
		t.Errorf("path = %s", path)
	}
}

func TestSaveSkipsInvalidSessionIDs(t *testing.T) {
	tempDir := chdirTemp(t)

	if err := saveAssignmentToFile("../escape", &SessionAssignment{TemplateID: "x"}); err != nil {
		t.Errorf("invalid ID should be skipped silently, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, sessionDir)); !os.IsNotExist(err) {
		t.Error("invalid ID must not create the sessions directory")
	}
}

func TestCleanupOldSessions(t *testing.T) {
	chdirTemp(t)

	freshID := uuid.NewString()
	staleID := uuid.NewString()
	saveAssignmentToFile(freshID, &SessionAssignment{TemplateID: "recon_001"})
	saveAssignmentToFile(staleID, &SessionAssignment{TemplateID: "recon_002"})

	stalePath := filepath.Join(sessionDir, staleID+".json")
	staleTime := time.Now().Add(-3 * time.Hour)
	os.Chtimes(stalePath, staleTime, staleTime)

	if err := cleanupOldSessions(time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(stalePath); !os.IsNotExist(err) {
		t.Error("stale session file survived cleanup")
	}
	if _, err := os.Stat(filepath.Join(sessionDir, freshID+".json")); err != nil {
		t.Errorf("fresh session file removed: %v", err)
	}

	// A missing directory is not an error.
	os.RemoveAll(sessionDir)
	if err := cleanupOldSessions(time.Hour); err != nil {
		t.Errorf("cleanup without directory: %v", err)
	}
}
