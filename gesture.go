package main

import (
	"math"
	"time"
)

// Pointer event phases as posted by the client.
const (
	PhaseDown   = "down"
	PhaseMove   = "move"
	PhaseUp     = "up"
	PhaseCancel = "cancel"
)

// PointerEvent is one raw pointer-contact event for a chip, in board
// coordinates with the client's event timestamp.
type PointerEvent struct {
	Chip  int     `json:"chip"`
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	T     time.Time
}

// GestureContact is the ephemeral per-contact state from pointer-down to
// pointer-up/cancel. Each contact is self-contained, so classification needs
// no real pointing device: the event timestamps drive the long-press clock.
type GestureContact struct {
	Chip     int
	StartX   float64
	StartY   float64
	StartT   time.Time
	Dragging bool
	// Resolved is set the moment the contact resolves to long-press so the
	// synthetic click on pointer-up is suppressed by construction.
	Resolved string
}

// GestureOutcome reports the single resolved intent of one classifier step.
// Exactly one terminal intent (tap, drop, long-press) fires per contact.
type GestureOutcome struct {
	Intent string
	Chip   int
	Slot   int    // target slot for tap/drop, -1 otherwise
	Word   string // chip text, for the long-press lookup
	Placed bool
}

// GestureClassifier consumes the raw pointer stream and resolves each contact
// into exactly one of tap, drag or long-press, calling into the placement
// model for the terminal placement. A chip owns its contact exclusively from
// down to up/cancel; independent chips may have concurrent contacts.
type GestureClassifier struct {
	Model    *PlacementModel
	Layout   *BoardLayout
	Ghost    DragGhost
	Contacts map[int]*GestureContact
}

func newGestureClassifier(model *PlacementModel, layout *BoardLayout) *GestureClassifier {
	return &GestureClassifier{
		Model:    model,
		Layout:   layout,
		Ghost:    DragGhost{Chip: -1, HoverSlot: -1},
		Contacts: make(map[int]*GestureContact),
	}
}

func none(chip int) GestureOutcome {
	return GestureOutcome{Intent: IntentNone, Chip: chip, Slot: -1}
}

// HandlePointer advances the state machine for one event and returns the
// resolved intent, IntentNone while the contact is still ambiguous.
func (g *GestureClassifier) HandlePointer(ev PointerEvent) GestureOutcome {
	switch ev.Phase {
	case PhaseDown:
		return g.pointerDown(ev)
	case PhaseMove:
		return g.pointerMove(ev)
	case PhaseUp:
		return g.pointerUp(ev)
	case PhaseCancel:
		return g.pointerCancel(ev)
	}
	return none(ev.Chip)
}

func (g *GestureClassifier) pointerDown(ev PointerEvent) GestureOutcome {
	if ev.Chip < 0 || ev.Chip >= len(g.Model.Chips) {
		return none(ev.Chip)
	}
	// Placed chips are not draggable; grabbing one is an empty gesture.
	if g.Model.Chips[ev.Chip].Placed {
		return none(ev.Chip)
	}
	// Pointer capture means a second down cannot arrive before the first
	// contact resolves; if one does anyway, the active contact wins.
	if _, active := g.Contacts[ev.Chip]; active {
		return none(ev.Chip)
	}
	g.Contacts[ev.Chip] = &GestureContact{
		Chip:   ev.Chip,
		StartX: ev.X,
		StartY: ev.Y,
		StartT: ev.T,
	}
	return none(ev.Chip)
}

func (g *GestureClassifier) pointerMove(ev PointerEvent) GestureOutcome {
	c, ok := g.Contacts[ev.Chip]
	if !ok {
		return none(ev.Chip)
	}
	if c.Resolved == IntentLongPress {
		// Long-press already fired; the rest of the contact is inert.
		return none(ev.Chip)
	}
	if c.Dragging {
		g.Ghost.MoveTo(g.Layout, ev.X, ev.Y)
		return GestureOutcome{Intent: IntentDragMove, Chip: ev.Chip, Slot: g.Ghost.HoverSlot}
	}
	// The long-press timer fires at StartT+LongPressDuration. An event
	// timestamped past that point arrived after the timer, so the timer wins;
	// movement only preempts long-press when it happens first.
	if ev.T.Sub(c.StartT) >= LongPressDuration {
		return g.resolveLongPress(c)
	}
	if exceedsDragThreshold(c, ev) {
		c.Dragging = true
		g.Ghost.Begin(ev.Chip, ev.X, ev.Y)
		g.Ghost.MoveTo(g.Layout, ev.X, ev.Y)
		return GestureOutcome{Intent: IntentDragStart, Chip: ev.Chip, Slot: g.Ghost.HoverSlot}
	}
	return none(ev.Chip)
}

func (g *GestureClassifier) pointerUp(ev PointerEvent) GestureOutcome {
	c, ok := g.Contacts[ev.Chip]
	if !ok {
		return none(ev.Chip)
	}
	delete(g.Contacts, ev.Chip)

	if c.Resolved == IntentLongPress {
		// The click generated by releasing a long-press is suppressed.
		return none(ev.Chip)
	}
	if c.Dragging {
		slot := g.Layout.SlotAt(ev.X, ev.Y)
		g.Ghost.End()
		placed := false
		if slot >= 0 {
			placed = g.Model.Place(ev.Chip, slot)
		}
		return GestureOutcome{Intent: IntentDrop, Chip: ev.Chip, Slot: slot, Placed: placed}
	}
	if ev.T.Sub(c.StartT) >= LongPressDuration {
		return g.resolveLongPress(c)
	}
	// Tap: place into the lowest-ordinal empty slot, no-op when full.
	slot := g.Model.FirstEmptySlot()
	placed := false
	if slot >= 0 {
		placed = g.Model.Place(ev.Chip, slot)
	}
	return GestureOutcome{Intent: IntentTap, Chip: ev.Chip, Slot: slot, Placed: placed}
}

func (g *GestureClassifier) pointerCancel(ev PointerEvent) GestureOutcome {
	c, ok := g.Contacts[ev.Chip]
	if !ok {
		return none(ev.Chip)
	}
	delete(g.Contacts, ev.Chip)
	if c.Dragging {
		g.Ghost.End()
	}
	// Aborted contacts never mutate the placement model.
	return GestureOutcome{Intent: IntentCancelled, Chip: ev.Chip, Slot: -1}
}

// Tick resolves pending long-presses for hosts that poll a clock instead of
// waiting for the next pointer event.
func (g *GestureClassifier) Tick(now time.Time) []GestureOutcome {
	var fired []GestureOutcome
	for _, c := range g.Contacts {
		if c.Resolved == "" && !c.Dragging && now.Sub(c.StartT) >= LongPressDuration {
			fired = append(fired, g.resolveLongPress(c))
		}
	}
	return fired
}

func (g *GestureClassifier) resolveLongPress(c *GestureContact) GestureOutcome {
	c.Resolved = IntentLongPress
	return GestureOutcome{
		Intent: IntentLongPress,
		Chip:   c.Chip,
		Slot:   -1,
		Word:   g.Model.Chips[c.Chip].Text,
	}
}

func exceedsDragThreshold(c *GestureContact, ev PointerEvent) bool {
	return math.Abs(ev.X-c.StartX) > DragThreshold || math.Abs(ev.Y-c.StartY) > DragThreshold
}
