// Package textplay is the console variant: the board is printed after every
// move and moves are typed in UCI notation.
package textplay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/promotion"
	"github.com/hailam/dragboard/internal/rules"
)

// Game runs a console session against a rules engine.
type Game struct {
	rules    *rules.Engine
	in       *bufio.Scanner
	out      io.Writer
	resolver promotion.Resolver
	colorize bool
	log      *zap.Logger
	onChange []func(*rules.Engine)
	onOver   []func(*rules.Engine)
}

// Option configures a Game.
type Option func(*Game)

// WithColor turns colored squares on or off.
func WithColor(on bool) Option {
	return func(g *Game) { g.colorize = on }
}

// WithResolver sets how promotions typed without a piece letter are
// completed. The default asks on the same input.
func WithResolver(r promotion.Resolver) Option {
	return func(g *Game) { g.resolver = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) { g.log = l }
}

// OnChange registers a hook run after every applied or undone move.
func OnChange(fn func(*rules.Engine)) Option {
	return func(g *Game) { g.onChange = append(g.onChange, fn) }
}

// OnGameOver registers a hook run once when a move played in this session
// ends the game. A game that was already over when Run started does not
// fire it.
func OnGameOver(fn func(*rules.Engine)) Option {
	return func(g *Game) { g.onOver = append(g.onOver, fn) }
}

// New creates a console game reading moves from in.
func New(e *rules.Engine, in io.Reader, out io.Writer, opts ...Option) *Game {
	g := &Game{
		rules: e,
		in:    bufio.NewScanner(in),
		out:   out,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.resolver == nil {
		g.resolver = promotion.NewPromptScanner(g.in, out)
	}
	return g
}

// Run plays until the game ends, the user quits, input runs out or ctx is
// cancelled.
func (g *Game) Run(ctx context.Context) error {
	endedBefore := g.rules.IsGameOver()
	for !g.rules.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.printBoard()
		fmt.Fprintf(g.out, "\nTurn: %s\n", g.rules.Turn())
		fmt.Fprint(g.out, "Enter your move (e.g., e2e4, 'undo' or 'quit'): ")

		if !g.in.Scan() {
			fmt.Fprintln(g.out)
			return g.in.Err()
		}
		quit := g.handle(strings.TrimSpace(g.in.Text()))
		if quit {
			fmt.Fprintln(g.out, "Quitting.")
			return nil
		}
	}

	g.printBoard()
	fmt.Fprintf(g.out, "\nGame Over. Result: %s (%s)\n", g.rules.Result(), g.rules.Method())
	if !endedBefore {
		for _, fn := range g.onOver {
			fn(g.rules)
		}
	}
	return nil
}

// handle processes one input line and reports whether the user quit.
func (g *Game) handle(line string) bool {
	switch strings.ToLower(line) {
	case "":
		return false
	case "quit", "q", "exit":
		return true
	case "undo":
		g.undo()
		return false
	}

	mv, err := board.ParseMove(line)
	if err != nil {
		g.log.Debug("bad move input", zap.String("input", line), zap.Error(err))
		fmt.Fprintln(g.out, "Invalid input format. Use UCI format like 'e2e4'.")
		return false
	}

	if !mv.IsPromotion() && g.needsPromotion(mv) {
		choice := g.resolver.Resolve(g.rules.PieceAt(mv.From), mv.To)
		if choice.Cancelled {
			fmt.Fprintln(g.out, "Promotion cancelled.")
			return false
		}
		mv = mv.WithPromotion(choice.Kind)
	}

	if !g.rules.IsLegal(mv) {
		fmt.Fprintln(g.out, "Illegal move.")
		return false
	}
	san, err := g.rules.SAN(mv)
	if err != nil {
		san = mv.String()
	}
	if err := g.rules.Push(mv); err != nil {
		fmt.Fprintln(g.out, "Illegal move.")
		return false
	}
	fmt.Fprintf(g.out, "Played move: %s\n", san)
	g.log.Info("move committed", zap.Stringer("uci", mv), zap.String("san", san))
	g.changed()
	return false
}

func (g *Game) undo() {
	mv, err := g.rules.Pop()
	if errors.Is(err, rules.ErrNoHistory) {
		fmt.Fprintln(g.out, "No moves to undo.")
		return
	}
	if err != nil {
		g.log.Error("undo failed", zap.Error(err))
		fmt.Fprintf(g.out, "Undo failed: %v\n", err)
		return
	}
	fmt.Fprintln(g.out, "Undid last move.")
	g.log.Debug("move undone", zap.Stringer("uci", mv))
	g.changed()
}

// needsPromotion reports whether mv is only legal with a promotion piece.
func (g *Game) needsPromotion(mv board.Move) bool {
	for _, l := range g.rules.LegalMoves() {
		if l.From == mv.From && l.To == mv.To && l.IsPromotion() {
			return true
		}
	}
	return false
}

func (g *Game) printBoard() {
	var last *board.Span
	if m, ok := g.rules.LastMove(); ok {
		s := m.Span()
		last = &s
	}
	drawBoard(g.out, g.rules.PieceAt, last, g.colorize)
}

func (g *Game) changed() {
	for _, fn := range g.onChange {
		fn(g.rules)
	}
}
