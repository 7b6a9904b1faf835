package main

// Rect is an axis-aligned rectangle in board coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// BoardLayout holds the chip and slot geometry for one exercise. It gives the
// gesture code a headless "coordinates to slot" capability: drop resolution
// never needs a layout engine, only these rectangles. The drag ghost is not
// part of the layout at all, so it can never occlude the slot beneath it.
type BoardLayout struct {
	ChipRects []Rect
	SlotRects []Rect
}

// newBoardLayout lays chips and slots out in wrapping rows, the same grid
// the client renders.
func newBoardLayout(ex *ExerciseDescriptor) *BoardLayout {
	l := &BoardLayout{
		ChipRects: flowRow(len(ex.Words), ChipWidth, ChipHeight, ChipGap, TrayOriginY),
		SlotRects: flowRow(len(ex.Slots), SlotWidth, SlotHeight, SlotGap, SlotOriginY),
	}
	return l
}

// flowRow positions n cells left to right, wrapping at the board width.
func flowRow(n int, w, h, gap, originY float64) []Rect {
	rects := make([]Rect, n)
	x, y := 0.0, originY
	for i := range rects {
		if x+w > BoardWidth && x > 0 {
			x = 0
			y += h + gap
		}
		rects[i] = Rect{X: x, Y: y, W: w, H: h}
		x += w + gap
	}
	return rects
}

// SlotAt resolves the slot logically under the given coordinates, or -1.
func (l *BoardLayout) SlotAt(x, y float64) int {
	for i, r := range l.SlotRects {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// ChipAt resolves the chip under the given coordinates, or -1.
func (l *BoardLayout) ChipAt(x, y float64) int {
	for i, r := range l.ChipRects {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// DragGhost is the floating proxy shown during an active drag. It holds no
// authoritative placement state; it only mirrors the pointer position and
// remembers which slot is currently under it for the hover highlight.
type DragGhost struct {
	Active    bool    `json:"active"`
	Chip      int     `json:"chip"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HoverSlot int     `json:"hoverSlot"`
}

// Begin starts tracking a drag for the given chip at the given position.
func (g *DragGhost) Begin(chip int, x, y float64) {
	g.Active = true
	g.Chip = chip
	g.X = x
	g.Y = y
	g.HoverSlot = -1
}

// MoveTo repositions the proxy and recomputes the hovered slot.
func (g *DragGhost) MoveTo(l *BoardLayout, x, y float64) {
	if !g.Active {
		return
	}
	g.X = x
	g.Y = y
	g.HoverSlot = l.SlotAt(x, y)
}

// End removes the proxy and all highlight state.
func (g *DragGhost) End() {
	g.Active = false
	g.Chip = -1
	g.HoverSlot = -1
}
