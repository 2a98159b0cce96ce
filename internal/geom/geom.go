// Package geom maps widget pixels to board squares and back.
package geom

import (
	"image"

	"github.com/hailam/dragboard/internal/board"
)

// Orientation selects which side is drawn at the bottom.
type Orientation int

const (
	// WhiteAtBottom keeps rank 1 at the bottom regardless of the turn.
	WhiteAtBottom Orientation = iota
	// SideToMove puts the side to move at the bottom.
	SideToMove
)

// ParseOrientation maps config strings to an Orientation.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "white", "white_at_bottom":
		return WhiteAtBottom, true
	case "side_to_move", "turn":
		return SideToMove, true
	}
	return WhiteAtBottom, false
}

// String returns the config name.
func (o Orientation) String() string {
	if o == SideToMove {
		return "side_to_move"
	}
	return "white"
}

// Mapper holds the fixed board geometry shared by rendering and input.
type Mapper struct {
	SquareSize  int
	MarginLeft  int
	MarginTop   int
	Orientation Orientation
	Flipped     bool // black at bottom
}

// NewMapper creates a mapper with the given geometry.
func NewMapper(squareSize, marginLeft, marginTop int, o Orientation) Mapper {
	return Mapper{
		SquareSize:  squareSize,
		MarginLeft:  marginLeft,
		MarginTop:   marginTop,
		Orientation: o,
	}
}

// For returns the mapper to use while turn is the side to move.
func (m Mapper) For(turn board.Color) Mapper {
	m.Flipped = m.Orientation == SideToMove && turn == board.Black
	return m
}

// SquareToOrigin returns the top-left pixel of sq.
func (m Mapper) SquareToOrigin(sq board.Square) (int, int) {
	col, row := sq.File(), 7-sq.Rank()
	if m.Flipped {
		col, row = 7-col, 7-row
	}
	return m.MarginLeft + col*m.SquareSize, m.MarginTop + row*m.SquareSize
}

// SquareCenter returns the center pixel of sq.
func (m Mapper) SquareCenter(sq board.Square) (int, int) {
	x, y := m.SquareToOrigin(sq)
	return x + m.SquareSize/2, y + m.SquareSize/2
}

// PixelToSquare inverts SquareToOrigin. It reports false for pixels outside
// the 8x8 drawing region.
func (m Mapper) PixelToSquare(x, y int) (board.Square, bool) {
	bx, by := x-m.MarginLeft, y-m.MarginTop
	span := 8 * m.SquareSize
	if m.SquareSize <= 0 || bx < 0 || by < 0 || bx >= span || by >= span {
		return board.NoSquare, false
	}
	col, row := bx/m.SquareSize, by/m.SquareSize
	if m.Flipped {
		col, row = 7-col, 7-row
	}
	return board.NewSquare(col, 7-row), true
}

// BoardRect returns the 8x8 drawing region.
func (m Mapper) BoardRect() image.Rectangle {
	span := 8 * m.SquareSize
	return image.Rect(m.MarginLeft, m.MarginTop, m.MarginLeft+span, m.MarginTop+span)
}

// Width returns the widget width: the board plus symmetric side gutters.
func (m Mapper) Width() int {
	return 8*m.SquareSize + 2*gutter(m.MarginLeft, m.MarginTop)
}

// Height returns the widget height.
func (m Mapper) Height() int {
	return 8*m.SquareSize + 2*gutter(m.MarginLeft, m.MarginTop)
}

// gutter averages the margins so an 80px board with 30/10 margins gives the
// classic 680x680 widget.
func gutter(left, top int) int {
	return (left + top) / 2
}
