package board

import (
	"errors"
	"fmt"
)

// ErrBadMoveFormat is returned by ParseMove for text that is not UCI.
var ErrBadMoveFormat = errors.New("invalid move format")

// Move is an origin, a destination and an optional promotion kind.
// Moves are plain values and compare with ==.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// NewMove creates a non-promotion move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// WithPromotion returns a copy of m promoting to k.
func (m Move) WithPromotion(k PieceKind) Move {
	m.Promotion = k
	return m
}

// IsPromotion returns true if a promotion kind is set.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

// String returns the UCI form, e.g. "e2e4" or "e7e8n".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

// ParseMove parses a UCI move ("e2e4", "e7e8q").
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMoveFormat, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMoveFormat, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMoveFormat, s)
	}
	m := NewMove(from, to)
	if len(s) == 5 {
		k := KindFromLetter(s[4])
		if k == NoKind || k == Pawn || k == King {
			return Move{}, fmt.Errorf("%w: %q", ErrBadMoveFormat, s)
		}
		m.Promotion = k
	}
	return m, nil
}

// Span is the (from, to) pair of a committed move, used for highlighting.
type Span struct {
	From Square
	To   Square
}

// Span returns the from/to pair of m.
func (m Move) Span() Span {
	return Span{From: m.From, To: m.To}
}
