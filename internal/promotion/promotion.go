// Package promotion chooses the piece a pawn promotes to.
package promotion

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hailam/dragboard/internal/board"
)

// Options are the promotion kinds offered to the user, in display order.
var Options = []board.PieceKind{board.Queen, board.Rook, board.Bishop, board.Knight}

// Choice is the outcome of a promotion prompt. Cancelled is a normal result.
type Choice struct {
	Kind      board.PieceKind
	Cancelled bool
}

// Chosen returns a Choice for kind k.
func Chosen(k board.PieceKind) Choice {
	return Choice{Kind: k}
}

// Cancel is the cancelled Choice.
var Cancel = Choice{Cancelled: true}

// Valid reports whether k is one of the offered kinds.
func Valid(k board.PieceKind) bool {
	for _, o := range Options {
		if o == k {
			return true
		}
	}
	return false
}

// Resolver blocks until the user picks a kind or cancels.
type Resolver interface {
	Resolve(pawn board.Piece, target board.Square) Choice
}

// Func adapts a function to a Resolver.
type Func func(pawn board.Piece, target board.Square) Choice

// Resolve calls f.
func (f Func) Resolve(pawn board.Piece, target board.Square) Choice {
	return f(pawn, target)
}

// Fixed always promotes to the same kind.
type Fixed board.PieceKind

// Resolve returns the fixed kind.
func (f Fixed) Resolve(board.Piece, board.Square) Choice {
	return Chosen(board.PieceKind(f))
}

// ParseAuto maps the config value ("q", "r", "b", "n" or "") to a resolver.
// An empty or unknown value yields nil: ask the user.
func ParseAuto(s string) Resolver {
	if len(s) != 1 {
		return nil
	}
	k := board.KindFromLetter(s[0])
	if !Valid(k) {
		return nil
	}
	return Fixed(k)
}

// Prompt asks on a terminal. It re-prompts on malformed input; an empty
// line, "c" or end of input cancels.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompt creates a terminal resolver.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return NewPromptScanner(bufio.NewScanner(in), out)
}

// NewPromptScanner shares an existing scanner, so line reads interleave
// with the caller's own input loop.
func NewPromptScanner(in *bufio.Scanner, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

// Resolve implements Resolver.
func (p *Prompt) Resolve(pawn board.Piece, target board.Square) Choice {
	for {
		fmt.Fprintf(p.out, "Promote %s pawn on %s to [q]ueen, [r]ook, [b]ishop, k[n]ight or [c]ancel: ",
			strings.ToLower(pawn.Color.String()), target)
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			return Cancel
		}
		line := strings.ToLower(strings.TrimSpace(p.in.Text()))
		if line == "" || line == "c" || line == "cancel" {
			return Cancel
		}
		if len(line) == 1 {
			if k := board.KindFromLetter(line[0]); Valid(k) {
				return Chosen(k)
			}
		}
		fmt.Fprintf(p.out, "Unknown choice %q.\n", line)
	}
}
