// Package rules adapts a chess rules library to the board UI. It is the only
// owner of the board position: legality, termination and notation all come
// from here.
package rules

import (
	"errors"
	"fmt"

	chess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/board"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	// ErrIllegalMove is returned by Push for moves outside LegalMoves.
	ErrIllegalMove = errors.New("illegal move")
	// ErrNoHistory is returned by Pop when no move has been played.
	ErrNoHistory = errors.New("no moves to undo")
)

// Engine holds the game and its move history.
type Engine struct {
	startFEN string
	game     *chess.Game
	history  []board.Move
	log      *zap.Logger
}

// New creates an engine at the initial position.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{startFEN: StartFEN, game: chess.NewGame(), log: log}
}

// NewFromFEN creates an engine at the given position.
func NewFromFEN(fen string, log *zap.Logger) (*Engine, error) {
	e := New(log)
	g, err := newGame(fen)
	if err != nil {
		return nil, err
	}
	e.startFEN = fen
	e.game = g
	return e, nil
}

// Replay creates an engine at fen and plays moves in order.
func Replay(fen string, moves []board.Move, log *zap.Logger) (*Engine, error) {
	e, err := NewFromFEN(fen, log)
	if err != nil {
		return nil, err
	}
	for i, m := range moves {
		if err := e.Push(m); err != nil {
			return nil, fmt.Errorf("replay move %d (%s): %w", i+1, m, err)
		}
	}
	return e, nil
}

func newGame(fen string) (*chess.Game, error) {
	if fen == "" || fen == StartFEN {
		return chess.NewGame(), nil
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return chess.NewGame(opt), nil
}

// PieceAt returns the piece on sq, or board.NoPiece.
func (e *Engine) PieceAt(sq board.Square) board.Piece {
	if !sq.IsValid() {
		return board.NoPiece
	}
	p := e.game.Position().Board().Piece(toSquare(sq))
	if p == chess.NoPiece {
		return board.NoPiece
	}
	return board.NewPiece(fromType(p.Type()), fromColor(p.Color()))
}

// LegalMoves returns every legal move in the current position.
func (e *Engine) LegalMoves() []board.Move {
	valid := e.game.ValidMoves()
	out := make([]board.Move, 0, len(valid))
	for _, m := range valid {
		out = append(out, board.Move{
			From:      fromSquare(m.S1()),
			To:        fromSquare(m.S2()),
			Promotion: fromType(m.Promo()),
		})
	}
	return out
}

// IsLegal reports whether m is in LegalMoves.
func (e *Engine) IsLegal(m board.Move) bool {
	for _, l := range e.LegalMoves() {
		if l == m {
			return true
		}
	}
	return false
}

// Push validates and applies m.
func (e *Engine) Push(m board.Move) error {
	if !e.IsLegal(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	if err := e.game.PushNotationMove(m.String(), chess.UCINotation{}, nil); err != nil {
		return fmt.Errorf("push %s: %w", m, err)
	}
	e.history = append(e.history, m)
	e.log.Debug("move pushed", zap.String("uci", m.String()), zap.String("fen", e.game.FEN()))
	return nil
}

// Pop takes back the last move by replaying the game without it.
func (e *Engine) Pop() (board.Move, error) {
	if len(e.history) == 0 {
		return board.Move{}, ErrNoHistory
	}
	last := e.history[len(e.history)-1]
	g, err := newGame(e.startFEN)
	if err != nil {
		return board.Move{}, err
	}
	kept := e.history[:len(e.history)-1]
	for _, m := range kept {
		if err := g.PushNotationMove(m.String(), chess.UCINotation{}, nil); err != nil {
			return board.Move{}, fmt.Errorf("replay %s: %w", m, err)
		}
	}
	e.game = g
	e.history = kept
	return last, nil
}

// Reset starts over from the standard initial position.
func (e *Engine) Reset() {
	e.startFEN = StartFEN
	e.game = chess.NewGame()
	e.history = nil
	e.log.Debug("game reset")
}

// ResetTo starts over from fen. On error the engine is unchanged.
func (e *Engine) ResetTo(fen string) error {
	g, err := newGame(fen)
	if err != nil {
		return err
	}
	if fen == "" {
		fen = StartFEN
	}
	e.startFEN = fen
	e.game = g
	e.history = nil
	e.log.Debug("game reset", zap.String("fen", fen))
	return nil
}

// Turn returns the side to move.
func (e *Engine) Turn() board.Color {
	return fromColor(e.game.Position().Turn())
}

// IsGameOver reports whether the game has an outcome.
func (e *Engine) IsGameOver() bool {
	return e.game.Outcome() != chess.NoOutcome
}

// Result returns "1-0", "0-1", "1/2-1/2" or "*".
func (e *Engine) Result() string {
	return e.game.Outcome().String()
}

// Method describes how the game ended (e.g. "Checkmate").
func (e *Engine) Method() string {
	return e.game.Method().String()
}

// SAN formats m in the current position. m must be legal.
func (e *Engine) SAN(m board.Move) (string, error) {
	pos := e.game.Position()
	mv, err := chess.UCINotation{}.Decode(pos, m.String())
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", m, err)
	}
	return chess.AlgebraicNotation{}.Encode(pos, mv), nil
}

// IsCapture reports whether m lands on an occupied square or is en passant.
func (e *Engine) IsCapture(m board.Move) bool {
	if !e.PieceAt(m.To).IsNone() {
		return true
	}
	p := e.PieceAt(m.From)
	return p.Kind == board.Pawn && m.From.File() != m.To.File()
}

// FEN returns the current position.
func (e *Engine) FEN() string {
	return e.game.FEN()
}

// StartFEN returns the position the game started from.
func (e *Engine) StartFEN() string {
	return e.startFEN
}

// History returns the moves played so far.
func (e *Engine) History() []board.Move {
	out := make([]board.Move, len(e.history))
	copy(out, e.history)
	return out
}

// LastMove returns the last move played.
func (e *Engine) LastMove() (board.Move, bool) {
	if len(e.history) == 0 {
		return board.Move{}, false
	}
	return e.history[len(e.history)-1], true
}

func toSquare(sq board.Square) chess.Square {
	return chess.NewSquare(chess.File(sq.File()), chess.Rank(sq.Rank()))
}

func fromSquare(sq chess.Square) board.Square {
	return board.NewSquare(int(sq.File()), int(sq.Rank()))
}

func fromColor(c chess.Color) board.Color {
	if c == chess.Black {
		return board.Black
	}
	return board.White
}

func fromType(pt chess.PieceType) board.PieceKind {
	switch pt {
	case chess.Pawn:
		return board.Pawn
	case chess.Knight:
		return board.Knight
	case chess.Bishop:
		return board.Bishop
	case chess.Rook:
		return board.Rook
	case chess.Queen:
		return board.Queen
	case chess.King:
		return board.King
	}
	return board.NoKind
}
