package textplay

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hailam/dragboard/internal/board"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var glyphs = map[board.Piece]string{
	board.NewPiece(board.King, board.White):   "♔",
	board.NewPiece(board.Queen, board.White):  "♕",
	board.NewPiece(board.Rook, board.White):   "♖",
	board.NewPiece(board.Bishop, board.White): "♗",
	board.NewPiece(board.Knight, board.White): "♘",
	board.NewPiece(board.Pawn, board.White):   "♙",
	board.NewPiece(board.King, board.Black):   "♚",
	board.NewPiece(board.Queen, board.Black):  "♛",
	board.NewPiece(board.Rook, board.Black):   "♜",
	board.NewPiece(board.Bishop, board.Black): "♝",
	board.NewPiece(board.Knight, board.Black): "♞",
	board.NewPiece(board.Pawn, board.Black):   "♟",
}

// palette holds the square styles for one board print.
type palette struct {
	light, dark *color.Color
	lastLight   *color.Color
	lastDark    *color.Color
}

func newPalette(colorize bool) palette {
	p := palette{
		light:     color.New(color.BgHiWhite, color.FgBlack),
		dark:      color.New(color.BgGreen, color.FgBlack),
		lastLight: color.New(color.BgHiYellow, color.FgBlack),
		lastDark:  color.New(color.BgYellow, color.FgBlack),
	}
	for _, c := range []*color.Color{p.light, p.dark, p.lastLight, p.lastDark} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// drawBoard prints the position with white at the bottom. Squares of the
// last move are highlighted when colors are on.
func drawBoard(w io.Writer, pieceAt func(board.Square) board.Piece, last *board.Span, colorize bool) {
	pal := newPalette(colorize)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(w, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			g, ok := glyphs[pieceAt(sq)]
			if !ok {
				g = "·"
			}

			highlighted := last != nil && (sq == last.From || sq == last.To)
			var style *color.Color
			switch {
			case sq.IsLight() && highlighted:
				style = pal.lastLight
			case sq.IsLight():
				style = pal.light
			case highlighted:
				style = pal.lastDark
			default:
				style = pal.dark
			}
			style.Fprintf(w, " %s ", g)
		}
		fmt.Fprintf(w, " %d\n", rank+1)
	}
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	fmt.Fprintln(w)
}
