// Package render turns the board, the input state and a theme into an
// ordered list of draw commands. It holds no state; any Canvas can replay
// the commands.
package render

import (
	"image/color"
	"strconv"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/input"
	"github.com/hailam/dragboard/internal/theme"
)

// HintRadius is the legal-target disc radius as a fraction of the square.
const HintRadius = 0.15

// haloScale is the soft ring drawn around each hint disc.
const haloScale = 1.6

// Board is read access to the position.
type Board interface {
	PieceAt(sq board.Square) board.Piece
}

// Command is a single draw operation.
type Command interface {
	command()
}

// FillRect fills an axis-aligned rectangle.
type FillRect struct {
	X, Y, W, H float64
	Color      color.RGBA
}

// FillCircle fills a disc.
type FillCircle struct {
	CX, CY, R float64
	Color     color.RGBA
}

// Text draws a short label centered on (CX, CY).
type Text struct {
	CX, CY float64
	Text   string
	Color  color.RGBA
}

// Piece draws a piece image with its top-left corner at (X, Y).
type Piece struct {
	X, Y, Size float64
	Piece      board.Piece
}

func (FillRect) command()   {}
func (FillCircle) command() {}
func (Text) command()       {}
func (Piece) command()      {}

// Canvas executes draw commands.
type Canvas interface {
	Draw(cmds []Command)
}

// Input is everything a frame depends on.
type Input struct {
	Board  Board
	UI     *input.UIState
	Theme  theme.Theme
	Mapper geom.Mapper
}

// Render produces the frame for in. The order is fixed: squares, last-move
// overlay, labels, legal-target hints, resting pieces, dragged piece.
func Render(in Input) []Command {
	ui := in.UI
	if ui == nil {
		ui = &input.UIState{}
	}
	m := in.Mapper
	size := float64(m.SquareSize)
	cmds := make([]Command, 0, 64+2+16+32+1)

	origin := func(sq board.Square) (float64, float64) {
		x, y := m.SquareToOrigin(sq)
		return float64(x), float64(y)
	}

	for _, sq := range board.AllSquares() {
		x, y := origin(sq)
		c := in.Theme.DarkSquare
		if sq.IsLight() {
			c = in.Theme.LightSquare
		}
		cmds = append(cmds, FillRect{X: x, Y: y, W: size, H: size, Color: c})
	}

	if lm := ui.LastMove; lm != nil {
		for _, sq := range []board.Square{lm.From, lm.To} {
			if !sq.IsValid() {
				continue
			}
			x, y := origin(sq)
			cmds = append(cmds, FillRect{X: x, Y: y, W: size, H: size, Color: in.Theme.LastMoveHighlight})
		}
	}

	cmds = appendLabels(cmds, m, in.Theme.Label)

	if sel := ui.Selection; sel != nil {
		r := size * HintRadius
		halo := in.Theme.LegalTargetHint
		halo.A /= 3
		for _, sq := range sel.Targets {
			x, y := origin(sq)
			cx, cy := x+size/2, y+size/2
			cmds = append(cmds,
				FillCircle{CX: cx, CY: cy, R: r * haloScale, Color: halo},
				FillCircle{CX: cx, CY: cy, R: r, Color: in.Theme.LegalTargetHint},
			)
		}
	}

	for _, sq := range board.AllSquares() {
		if ui.Drag.Active && sq == ui.Drag.Origin {
			continue
		}
		p := in.Board.PieceAt(sq)
		if p.IsNone() {
			continue
		}
		x, y := origin(sq)
		cmds = append(cmds, Piece{X: x, Y: y, Size: size, Piece: p})
	}

	if d := ui.Drag; d.Active && !d.Piece.IsNone() {
		cmds = append(cmds, Piece{
			X:     float64(d.Pointer.X) - size/2,
			Y:     float64(d.Pointer.Y) - size/2,
			Size:  size,
			Piece: d.Piece,
		})
	}
	return cmds
}

// appendLabels adds rank numbers in the left gutter and file letters under
// the board, following the mapper's orientation.
func appendLabels(cmds []Command, m geom.Mapper, c color.RGBA) []Command {
	size := float64(m.SquareSize)
	rankX := float64(m.MarginLeft) / 2
	bottom := float64(m.MarginTop + 8*m.SquareSize)
	fileY := (bottom + float64(m.Height())) / 2

	for rank := 0; rank < 8; rank++ {
		_, y := m.SquareToOrigin(board.NewSquare(0, rank))
		cmds = append(cmds, Text{CX: rankX, CY: float64(y) + size/2, Text: strconv.Itoa(rank + 1), Color: c})
	}
	for file := 0; file < 8; file++ {
		x, _ := m.SquareToOrigin(board.NewSquare(file, 0))
		cmds = append(cmds, Text{CX: float64(x) + size/2, CY: fileY, Text: string(rune('a' + file)), Color: c})
	}
	return cmds
}

// Pieces returns the piece commands in cmds, in drawing order.
func Pieces(cmds []Command) []Piece {
	var out []Piece
	for _, c := range cmds {
		if p, ok := c.(Piece); ok {
			out = append(out, p)
		}
	}
	return out
}
