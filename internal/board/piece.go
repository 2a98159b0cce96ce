// Package board holds the value types shared by the board UI: squares,
// pieces and moves. It carries no rules; legality lives in the rules engine.
package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

// Prefix returns the single-letter asset prefix ("w" or "b").
func (c Color) Prefix() string {
	if c == Black {
		return "b"
	}
	return "w"
}

// PieceKind represents the kind of a chess piece. The zero value is NoKind,
// so a Move literal without a promotion field means "no promotion".
type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece kind name.
func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Letter returns the uppercase letter used in asset names and SAN.
func (k PieceKind) Letter() byte {
	const letters = " PNBRQK"
	if k > King {
		return ' '
	}
	return letters[k]
}

// KindFromLetter parses a piece letter in either case.
func KindFromLetter(c byte) PieceKind {
	switch c {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	}
	return NoKind
}

// Piece is a colored piece kind.
type Piece struct {
	Color Color
	Kind  PieceKind
}

// NoPiece is the empty square marker.
var NoPiece = Piece{}

// NewPiece creates a piece.
func NewPiece(k PieceKind, c Color) Piece {
	return Piece{Color: c, Kind: k}
}

// IsNone reports whether p is the empty marker.
func (p Piece) IsNone() bool {
	return p.Kind == NoKind
}

// AssetName returns the asset base name, e.g. "wP" or "bQ".
func (p Piece) AssetName() string {
	if p.IsNone() {
		return ""
	}
	return p.Color.Prefix() + string(p.Kind.Letter())
}

// String returns the FEN character: uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p.IsNone() {
		return " "
	}
	c := p.Kind.Letter()
	if p.Color == Black {
		c += 'a' - 'A'
	}
	return string(c)
}
