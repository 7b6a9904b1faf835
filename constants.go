package main

import "time"

// Gesture configuration constants
const (
	LongPressDuration = 500 * time.Millisecond // Hold time before a contact resolves to long-press
	DragThreshold     = 5.0                    // Movement in px (either axis) that escalates a contact to drag
)

// Board geometry constants (logical px, shared with the client board)
const (
	ChipWidth   = 96.0
	ChipHeight  = 40.0
	ChipGap     = 8.0
	SlotWidth   = 104.0
	SlotHeight  = 44.0
	SlotGap     = 8.0
	TrayOriginY = 0.0
	SlotOriginY = 120.0
	BoardWidth  = 880.0
)

// Exercise kind constants
const (
	KindReconstruction = "reconstruction"
	KindTransformation = "transformation"
	KindGapFill        = "gap_fill"
	KindQuickSelect    = "quick_select"
)

// Per-position marker constants
const (
	MarkCorrect   = "correct"
	MarkIncorrect = "incorrect"
	MarkNone      = ""
)

// Resolved gesture intent constants
const (
	IntentNone      = "none"
	IntentTap       = "tap"
	IntentDragStart = "drag_start"
	IntentDragMove  = "drag_move"
	IntentDrop      = "drop"
	IntentLongPress = "long_press"
	IntentCancelled = "cancelled"
)

// Submit control labels
const (
	SubmitLabelReady    = "Prüfen"
	SubmitLabelChecking = "Wird geprüft…"
	SubmitLabelError    = "Fehler – nochmal prüfen"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome        = "/"
	RouteNewExercise = "/new-exercise"
	RoutePointer     = "/pointer"
	RouteChipTap     = "/chip/:index/tap"
	RouteSlotClick   = "/slot/:index/click"
	RouteGapSelect   = "/gap/:id/select"
	RouteSubmit      = "/submit"
	RouteReset       = "/reset"
	RouteLookup      = "/lookup/:word"
)

// Error message constants
const (
	ErrorIncomplete      = "Alle Positionen müssen besetzt sein."
	ErrorCheckFailed     = "Prüfung fehlgeschlagen. Bitte erneut versuchen."
	ErrorUnknownExercise = "Unbekannte Übung."
	ErrorNoExercises     = "Keine Übungen verfügbar."
	LookupFallback       = "Keine Definition gefunden. Bitte auf duden.de nachschlagen."
)

type contextKey string

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
