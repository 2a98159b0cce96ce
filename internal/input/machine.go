package input

import (
	"image"

	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/promotion"
)

// Rules is the part of the rules engine the machine depends on.
type Rules interface {
	PieceAt(sq board.Square) board.Piece
	LegalMoves() []board.Move
	Push(m board.Move) error
	Turn() board.Color
	SAN(m board.Move) (string, error)
	IsCapture(m board.Move) bool
}

// EventKind identifies a pointer event.
type EventKind int

const (
	Press EventKind = iota
	Move
	Release
)

// Event is a pointer event in widget-local pixels.
type Event struct {
	Kind EventKind
	X, Y int
}

// Commit describes a move that was applied to the rules engine.
type Commit struct {
	Move    board.Move
	SAN     string
	Mover   board.Color
	Capture bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithResolver makes promotion synchronous: Release calls r inline.
// Without a resolver the machine parks in AwaitingPromotion until
// ResolvePromotion is called.
func WithResolver(r promotion.Resolver) Option {
	return func(m *Machine) { m.resolver = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// Machine is the board's input state machine.
type Machine struct {
	rules    Rules
	mapper   geom.Mapper
	resolver promotion.Resolver
	log      *zap.Logger

	state    State
	ui       UIState
	onChange []func()
	onCommit []func(Commit)
}

// New creates a machine in the Idle state.
func New(rules Rules, mapper geom.Mapper, opts ...Option) *Machine {
	m := &Machine{
		rules:  rules,
		mapper: mapper,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ui.clearTransient()
	return m
}

// State returns the current mode.
func (m *Machine) State() State { return m.state }

// UI returns the state the renderer draws from.
func (m *Machine) UI() *UIState { return &m.ui }

// Mapper returns the geometry for the current side to move. Rendering must
// use the same mapper so drawing and hit-testing agree.
func (m *Machine) Mapper() geom.Mapper {
	return m.mapper.For(m.rules.Turn())
}

// SetOrientation changes which side is drawn at the bottom. Any drag in
// progress is dropped.
func (m *Machine) SetOrientation(o geom.Orientation) {
	m.mapper.Orientation = o
	m.reset()
	m.changed()
}

// OnChange registers a hook run after every state mutation.
func (m *Machine) OnChange(fn func()) {
	m.onChange = append(m.onChange, fn)
}

// OnCommit registers a hook run after a move is applied.
func (m *Machine) OnCommit(fn func(Commit)) {
	m.onCommit = append(m.onCommit, fn)
}

// Handle dispatches a pointer event.
func (m *Machine) Handle(ev Event) {
	switch ev.Kind {
	case Press:
		m.Press(ev.X, ev.Y)
	case Move:
		m.Move(ev.X, ev.Y)
	case Release:
		m.Release(ev.X, ev.Y)
	}
}

// Press starts a drag when the pointer lands on a piece.
func (m *Machine) Press(x, y int) {
	switch m.state {
	case AwaitingPromotion:
		return
	case Dragging:
		// The release was lost; start over from Idle.
		m.reset()
		m.changed()
	}

	sq, ok := m.Mapper().PixelToSquare(x, y)
	if !ok {
		return
	}
	piece := m.rules.PieceAt(sq)
	if piece.IsNone() {
		return
	}

	m.ui.Selection = &Selection{Square: sq, Targets: m.targetsFrom(sq)}
	m.ui.Drag = Drag{
		Active:  true,
		Origin:  sq,
		Pointer: image.Pt(x, y),
		Piece:   piece,
	}
	m.state = Dragging
	m.log.Debug("drag started",
		zap.Stringer("square", sq),
		zap.String("piece", piece.AssetName()),
		zap.Int("targets", len(m.ui.Selection.Targets)))
	m.changed()
}

// Move follows the pointer while dragging.
func (m *Machine) Move(x, y int) {
	if m.state != Dragging {
		return
	}
	m.ui.Drag.Pointer = image.Pt(x, y)
	m.changed()
}

// Release drops the dragged piece.
func (m *Machine) Release(x, y int) {
	if m.state != Dragging {
		return
	}
	origin, piece := m.ui.Drag.Origin, m.ui.Drag.Piece

	dest, ok := m.Mapper().PixelToSquare(x, y)
	if !ok {
		m.log.Debug("drop outside board", zap.Stringer("from", origin))
		m.reset()
		m.changed()
		return
	}

	// Eligibility is decided by the destination rank alone.
	if piece.Kind == board.Pawn && (dest.Rank() == 0 || dest.Rank() == 7) {
		m.ui.Drag.Pointer = image.Pt(x, y)
		m.ui.Pending = dest
		m.state = AwaitingPromotion
		m.changed()
		if m.resolver != nil {
			m.ResolvePromotion(m.resolver.Resolve(piece, dest))
		}
		return
	}

	m.commit(board.NewMove(origin, dest))
	m.reset()
	m.changed()
}

// ResolvePromotion completes a pending promotion. It returns false when no
// promotion is pending.
func (m *Machine) ResolvePromotion(c promotion.Choice) bool {
	if m.state != AwaitingPromotion {
		return false
	}
	if c.Cancelled {
		m.log.Debug("promotion cancelled",
			zap.Stringer("from", m.ui.Drag.Origin),
			zap.Stringer("to", m.ui.Pending))
	} else {
		m.commit(board.Move{From: m.ui.Drag.Origin, To: m.ui.Pending, Promotion: c.Kind})
	}
	m.reset()
	m.changed()
	return true
}

// PendingPromotion returns the pawn and destination awaiting a choice.
func (m *Machine) PendingPromotion() (board.Piece, board.Square, bool) {
	if m.state != AwaitingPromotion {
		return board.NoPiece, board.NoSquare, false
	}
	return m.ui.Drag.Piece, m.ui.Pending, true
}

// Restart drops any selection and sets the last-move highlight, e.g. after
// an undo or a new game. last may be nil.
func (m *Machine) Restart(last *board.Span) {
	m.reset()
	m.ui.LastMove = last
	m.changed()
}

func (m *Machine) commit(mv board.Move) bool {
	if !m.isLegal(mv) {
		m.log.Debug("move rejected", zap.Stringer("move", mv))
		return false
	}

	mover := m.rules.Turn()
	capture := m.rules.IsCapture(mv)
	san, err := m.rules.SAN(mv)
	if err != nil {
		m.log.Warn("san unavailable", zap.Stringer("move", mv), zap.Error(err))
		san = mv.String()
	}
	if err := m.rules.Push(mv); err != nil {
		m.log.Warn("rules engine refused move", zap.Stringer("move", mv), zap.Error(err))
		return false
	}

	span := mv.Span()
	m.ui.LastMove = &span
	m.log.Info("move committed", zap.Stringer("uci", mv), zap.String("san", san))

	c := Commit{Move: mv, SAN: san, Mover: mover, Capture: capture}
	for _, fn := range m.onCommit {
		fn(c)
	}
	return true
}

func (m *Machine) isLegal(mv board.Move) bool {
	for _, l := range m.rules.LegalMoves() {
		if l == mv {
			return true
		}
	}
	return false
}

func (m *Machine) targetsFrom(sq board.Square) []board.Square {
	var targets []board.Square
	seen := make(map[board.Square]bool)
	for _, mv := range m.rules.LegalMoves() {
		if mv.From != sq || seen[mv.To] {
			continue
		}
		seen[mv.To] = true
		targets = append(targets, mv.To)
	}
	return targets
}

func (m *Machine) reset() {
	m.ui.clearTransient()
	m.state = Idle
}

func (m *Machine) changed() {
	for _, fn := range m.onChange {
		fn()
	}
}
