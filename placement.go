package main

import (
	"github.com/samber/lo"
)

// Chip is one movable token living in the tray while unplaced.
type Chip struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Placed bool   `json:"placed"`
}

// Slot is one fixed position in the target sequence. Occupant is the index
// of the chip placed there, or -1 when empty.
type Slot struct {
	Index    int    `json:"index"`
	Suffix   string `json:"suffix"`
	Occupant int    `json:"occupant"`
}

// GapState tracks the chosen value of one inline gap ("" while unanswered).
type GapState struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

const noOccupant = -1

// PlacementModel is the authoritative occupancy state between tray and slots.
// After every operation the occupancy relation is a bijection: a chip is
// placed iff it occupies exactly one slot, and no slot holds two chips.
// For the gap kinds the gaps play the slot role and hold an option value
// directly. The model performs no I/O.
type PlacementModel struct {
	Kind     string     `json:"kind"`
	Chips    []Chip     `json:"chips"`
	Slots    []Slot     `json:"slots"`
	Gaps     []GapState `json:"gaps,omitempty"`
	Selected int        `json:"selected"`
}

// newPlacementModel builds the model from the exercise descriptor. Chip count
// and slot count are fixed for the exercise's lifetime; only occupancy mutates.
func newPlacementModel(ex *ExerciseDescriptor) *PlacementModel {
	m := &PlacementModel{
		Kind:     ex.Kind,
		Selected: noOccupant,
	}
	m.Chips = lo.Map(ex.Words, func(w string, i int) Chip {
		return Chip{Index: i, Text: w}
	})
	m.Slots = lo.Map(ex.Slots, func(s SlotSpec, _ int) Slot {
		return Slot{Index: s.Index, Suffix: s.Suffix, Occupant: noOccupant}
	})
	m.Gaps = lo.Map(ex.Gaps, func(g GapSpec, _ int) GapState {
		return GapState{ID: g.ID}
	})
	return m
}

// Place puts an unplaced chip into a slot, evicting the current occupant
// first if there is one (swap-on-drop). A placed chip or an out-of-range
// index is a silent no-op: those are empty user gestures, not faults.
func (m *PlacementModel) Place(chipIdx, slotIdx int) bool {
	if chipIdx < 0 || chipIdx >= len(m.Chips) || slotIdx < 0 || slotIdx >= len(m.Slots) {
		return false
	}
	chip := &m.Chips[chipIdx]
	if chip.Placed {
		return false
	}
	slot := &m.Slots[slotIdx]
	if slot.Occupant != noOccupant {
		m.Evict(slotIdx)
	}
	slot.Occupant = chipIdx
	chip.Placed = true
	if m.Selected == chipIdx {
		m.Selected = noOccupant
	}
	return true
}

// Evict returns a slot's occupant to the tray. Empty slots are a no-op.
func (m *PlacementModel) Evict(slotIdx int) bool {
	if slotIdx < 0 || slotIdx >= len(m.Slots) {
		return false
	}
	slot := &m.Slots[slotIdx]
	if slot.Occupant == noOccupant {
		return false
	}
	m.Chips[slot.Occupant].Placed = false
	slot.Occupant = noOccupant
	return true
}

// FirstEmptySlot returns the lowest-ordinal empty slot, or -1 when full.
// Tap-to-place always targets this slot so repeated taps fill left to right.
func (m *PlacementModel) FirstEmptySlot() int {
	for i := range m.Slots {
		if m.Slots[i].Occupant == noOccupant {
			return i
		}
	}
	return noOccupant
}

// SetGap records an option choice for a gap, replacing any prior choice.
func (m *PlacementModel) SetGap(gapID, value string) bool {
	for i := range m.Gaps {
		if m.Gaps[i].ID == gapID {
			m.Gaps[i].Value = value
			return true
		}
	}
	return false
}

// IsComplete reports whether every slot (or every gap) is occupied.
// It drives the submit gating and is recomputed after every mutation.
func (m *PlacementModel) IsComplete() bool {
	if len(m.Gaps) > 0 {
		return lo.EveryBy(m.Gaps, func(g GapState) bool { return g.Value != "" })
	}
	if len(m.Slots) == 0 {
		return false
	}
	return lo.EveryBy(m.Slots, func(s Slot) bool { return s.Occupant != noOccupant })
}

// Reset clears every occupant, every placed flag, every gap value and the
// pending selection. Chip and slot counts are untouched.
func (m *PlacementModel) Reset() {
	for i := range m.Slots {
		m.Slots[i].Occupant = noOccupant
	}
	for i := range m.Chips {
		m.Chips[i].Placed = false
	}
	for i := range m.Gaps {
		m.Gaps[i].Value = ""
	}
	m.Selected = noOccupant
}

// ToggleSelect marks an unplaced chip as the pending selection for the
// click fallback ("select a chip, then click an empty slot"). Selecting the
// selected chip again clears the selection.
func (m *PlacementModel) ToggleSelect(chipIdx int) {
	if chipIdx < 0 || chipIdx >= len(m.Chips) || m.Chips[chipIdx].Placed {
		return
	}
	if m.Selected == chipIdx {
		m.Selected = noOccupant
		return
	}
	m.Selected = chipIdx
}

// Snapshot builds the ordered answer payload: one entry per slot carrying
// the occupant's text, or "" for an empty slot. Built fresh per submission.
func (m *PlacementModel) Snapshot() []SlotAnswer {
	return lo.Map(m.Slots, func(s Slot, _ int) SlotAnswer {
		word := ""
		if s.Occupant != noOccupant {
			word = m.Chips[s.Occupant].Text
		}
		return SlotAnswer{SlotIndex: s.Index, Word: word}
	})
}

// GapAnswers builds the gap-kind answer payload.
func (m *PlacementModel) GapAnswers() map[string]string {
	return lo.Associate(m.Gaps, func(g GapState) (string, string) {
		return g.ID, g.Value
	})
}
