// Package input turns pointer events into selection, drag and promotion
// state and decides when a move is committed to the rules engine.
package input

import (
	"image"

	"github.com/hailam/dragboard/internal/board"
)

// State is the machine's mode.
type State int

const (
	Idle State = iota
	Dragging
	AwaitingPromotion
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Dragging:
		return "Dragging"
	case AwaitingPromotion:
		return "AwaitingPromotion"
	default:
		return "Idle"
	}
}

// Selection is the selected square and where its piece may go.
type Selection struct {
	Square  board.Square
	Targets []board.Square
}

// HasTarget reports whether sq is a legal destination.
func (s *Selection) HasTarget(sq board.Square) bool {
	if s == nil {
		return false
	}
	for _, t := range s.Targets {
		if t == sq {
			return true
		}
	}
	return false
}

// Drag tracks the piece following the pointer. Active implies Origin is a
// board square and Piece is what stood there when the drag started.
type Drag struct {
	Active  bool
	Origin  board.Square
	Pointer image.Point
	Piece   board.Piece
}

// UIState is everything the renderer needs beyond the board itself.
// The machine owns it; the renderer only reads it.
type UIState struct {
	Selection *Selection
	Drag      Drag
	LastMove  *board.Span
	// Pending is the promotion destination while awaiting a choice.
	Pending board.Square
}

func (u *UIState) clearTransient() {
	u.Selection = nil
	u.Drag = Drag{Origin: board.NoSquare}
	u.Pending = board.NoSquare
}
