package board

import "fmt"

// Square is one of the 64 board positions, indexed a1=0 .. h8=63.
type Square uint8

// NoSquare marks "no square", e.g. a pointer outside the board.
const NoSquare Square = 64

// NewSquare creates a square from file and rank (0-indexed). Out of range
// coordinates yield NoSquare.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// File returns the file (0=a .. 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (0=1st .. 7=8th).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// IsValid returns true for the 64 board squares.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// IsLight reports whether the square is drawn with the light color. The
// board keeps a1 light, as the desktop widget always has.
func (sq Square) IsLight() bool {
	return (sq.File()+sq.Rank())%2 == 0
}

// String returns the algebraic name ("e4"), or "-" for NoSquare.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g. "e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	sq := NewSquare(int(s[0])-'a', int(s[1])-'1')
	if !sq.IsValid() {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return sq, nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// AllSquares returns a1..h8 in index order.
func AllSquares() []Square {
	out := make([]Square, 0, 64)
	for sq := Square(0); sq < NoSquare; sq++ {
		out = append(out, sq)
	}
	return out
}
