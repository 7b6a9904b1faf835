package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// View types are intentionally free of placement-logic imports so the HTML
// templates consume plain fields only.

// ChipView is one tray chip as rendered.
type ChipView struct {
	Index    int
	Text     string
	Placed   bool
	Selected bool
}

// SlotView is one target position as rendered.
type SlotView struct {
	Index    int
	Text     string
	Suffix   string
	Occupied bool
	Mark     string
	Hover    bool
}

// GapView is one inline gap with its option buttons.
type GapView struct {
	ID      string
	Before  string
	After   string
	Value   string
	Options []string
	Mark    string
}

// GhostView is the floating drag proxy.
type GhostView struct {
	Active bool
	Text   string
	X      float64
	Y      float64
}

// ResultMessage texts shown with the overall verdict.
const (
	MessageCorrect   = "Richtig! Sehr gut."
	MessageIncorrect = "Leider nicht richtig."
)

// BoardView carries everything the exercise templates need.
type BoardView struct {
	Kind       string
	Module     string
	Level      int
	ClauseType string
	Prompt     string
	Chips      []ChipView
	Slots      []SlotView
	Gaps       []GapView
	Ghost      GhostView
	Submit     SubmitState
	Result     ResultState
	Message    string
}

// buildBoardView materializes the placement model, ghost and result state
// into the view the templates render.
func buildBoardView(st *ExerciseState) BoardView {
	m := st.Model
	ghost := st.Gestures.Ghost

	view := BoardView{
		Kind:       st.Exercise.Kind,
		Module:     st.Exercise.Module,
		Level:      st.Exercise.Level,
		ClauseType: st.Exercise.ClauseType,
		Prompt:     st.Exercise.Prompt,
		Submit:     st.Submit,
		Result:     st.Result,
	}
	if st.Result.Checked {
		view.Message = lo.Ternary(st.Result.Correct, MessageCorrect, MessageIncorrect)
	}

	view.Chips = lo.Map(m.Chips, func(c Chip, _ int) ChipView {
		return ChipView{
			Index:    c.Index,
			Text:     c.Text,
			Placed:   c.Placed,
			Selected: m.Selected == c.Index,
		}
	})
	view.Slots = lo.Map(m.Slots, func(s Slot, i int) SlotView {
		sv := SlotView{
			Index:  s.Index,
			Suffix: s.Suffix,
			Mark:   st.Result.markFor(i),
			Hover:  ghost.Active && ghost.HoverSlot == i,
		}
		if s.Occupant != noOccupant {
			sv.Occupied = true
			sv.Text = m.Chips[s.Occupant].Text
		}
		return sv
	})
	view.Gaps = lo.Map(st.Exercise.Gaps, func(g GapSpec, i int) GapView {
		return GapView{
			ID:      g.ID,
			Before:  g.Before,
			After:   g.After,
			Value:   m.Gaps[i].Value,
			Options: g.Options,
			Mark:    st.Result.GapMarks[g.ID],
		}
	})
	if ghost.Active && ghost.Chip >= 0 && ghost.Chip < len(m.Chips) {
		view.Ghost = GhostView{Active: true, Text: m.Chips[ghost.Chip].Text, X: ghost.X, Y: ghost.Y}
	}
	return view
}

// renderExercise writes the board back to the client: HTMX requests get the
// fragment, everything else the full page. Errors additionally go out as an
// HX-Trigger payload so the client can toast them.
func (app *App) renderExercise(c *gin.Context, st *ExerciseState, errMsg string) {
	view := buildBoardView(st)
	csrfToken, _ := c.Cookie("csrf_token")
	payload := gin.H{
		"title":      "Satzbau - Satzrekonstruktion",
		"board":      view,
		"error":      errMsg,
		"csrf_token": csrfToken,
	}
	if errMsg != "" {
		triggerError(c, errMsg)
	}
	if c.GetHeader("HX-Request") == "true" {
		c.HTML(http.StatusOK, "exercise-content", payload)
		return
	}
	c.HTML(http.StatusOK, "index.html", payload)
}
