package textplay

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/promotion"
	"github.com/hailam/dragboard/internal/rules"
)

const promoFEN = "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"

func play(t *testing.T, fen, script string, opts ...Option) (*rules.Engine, string) {
	t.Helper()
	e, err := rules.NewFromFEN(fen, nil)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := New(e, strings.NewReader(script), &out, opts...).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return e, out.String()
}

func TestSessionMessages(t *testing.T) {
	e, out := play(t, rules.StartFEN, "e2e4\nfoo\ne2e5\na7a4\nundo\nundo\nquit\n")

	for _, want := range []string{
		"Turn: White",
		"Played move: e4",
		"Turn: Black",
		"Invalid input format. Use UCI format like 'e2e4'.",
		"Illegal move.",
		"Undid last move.",
		"No moves to undo.",
		"Quitting.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if len(e.History()) != 0 {
		t.Errorf("history = %v, want empty after undo", e.History())
	}
}

func TestGameOverPrintsResult(t *testing.T) {
	e, out := play(t, rules.StartFEN, "f2f3\ne7e5\ng2g4\nd8h4\n")
	if !e.IsGameOver() {
		t.Fatal("expected checkmate")
	}
	if !strings.Contains(out, "Game Over. Result: 0-1") {
		t.Errorf("output missing result:\n%s", out)
	}
	if !strings.Contains(out, "Played move: Qh4") {
		t.Errorf("output missing mating move")
	}
}

func TestPromotionAsked(t *testing.T) {
	e, out := play(t, promoFEN, "e7e8\nx\nn\nquit\n")
	if p := e.PieceAt(board.MustSquare("e8")); p != board.NewPiece(board.Knight, board.White) {
		t.Errorf("e8 = %v, want white knight", p)
	}
	if !strings.Contains(out, "Promote white pawn on e8") {
		t.Errorf("no promotion prompt:\n%s", out)
	}
	if !strings.Contains(out, "Played move: e8=N") {
		t.Errorf("missing SAN echo:\n%s", out)
	}
}

func TestPromotionCancelled(t *testing.T) {
	e, out := play(t, promoFEN, "e7e8\nc\nquit\n")
	if len(e.History()) != 0 {
		t.Errorf("history = %v", e.History())
	}
	if !strings.Contains(out, "Promotion cancelled.") {
		t.Errorf("output missing cancel notice")
	}
}

func TestPromotionWithSuffixAndFixedResolver(t *testing.T) {
	e, _ := play(t, promoFEN, "e7e8r\n", WithResolver(promotion.Fixed(board.Queen)))
	if p := e.PieceAt(board.MustSquare("e8")); p.Kind != board.Rook {
		t.Errorf("typed suffix ignored: e8 = %v", p)
	}

	e, _ = play(t, promoFEN, "e7e8\n", WithResolver(promotion.Fixed(board.Queen)))
	if p := e.PieceAt(board.MustSquare("e8")); p.Kind != board.Queen {
		t.Errorf("fixed resolver ignored: e8 = %v", p)
	}
}

func TestEndOfInput(t *testing.T) {
	e, _ := play(t, rules.StartFEN, "e2e4\n")
	if len(e.History()) != 1 {
		t.Errorf("history = %v", e.History())
	}
}

func TestChangeHook(t *testing.T) {
	var seen []int
	hook := OnChange(func(e *rules.Engine) { seen = append(seen, len(e.History())) })
	play(t, rules.StartFEN, "e2e4\ne7e5\nundo\nh2h5\nquit\n", hook)
	want := []int{1, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("hook calls = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("hook calls = %v, want %v", seen, want)
		}
	}
}

func TestColorOutput(t *testing.T) {
	_, plain := play(t, rules.StartFEN, "quit\n", WithColor(false))
	if strings.Contains(plain, "\x1b[") {
		t.Error("escape codes with color off")
	}
	if !strings.Contains(plain, "♜") || !strings.Contains(plain, "a  b  c") {
		t.Error("board not printed")
	}

	_, colored := play(t, rules.StartFEN, "quit\n", WithColor(true))
	if !strings.Contains(colored, "\x1b[") {
		t.Error("no escape codes with color on")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := New(rules.New(nil), strings.NewReader("e2e4\n"), &out).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGameOverHookOnlyForNewEndings(t *testing.T) {
	var results []string
	hook := OnGameOver(func(e *rules.Engine) { results = append(results, e.Result()) })

	_, out := play(t, rules.StartFEN, "f2f3\ne7e5\ng2g4\nd8h4\n", hook)
	if len(results) != 1 || results[0] != "0-1" {
		t.Fatalf("results after mate = %v", results)
	}
	if !strings.Contains(out, "Game Over. Result: 0-1") {
		t.Errorf("missing result line:\n%s", out)
	}

	var moves []board.Move
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		mv, err := board.ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		moves = append(moves, mv)
	}
	finished, err := rules.Replay(rules.StartFEN, moves, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := New(finished, strings.NewReader(""), &buf, hook).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("resumed finished game fired the hook again: %v", results)
	}
	if !strings.Contains(buf.String(), "Game Over. Result: 0-1") {
		t.Errorf("resumed game should still print the result:\n%s", buf.String())
	}
}

func TestGameOverHookNotFiredOnQuit(t *testing.T) {
	fired := false
	play(t, rules.StartFEN, "e2e4\nquit\n", OnGameOver(func(*rules.Engine) { fired = true }))
	if fired {
		t.Error("quitting is not a game ending")
	}
}
