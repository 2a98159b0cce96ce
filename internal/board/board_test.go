package board

import (
	"errors"
	"testing"
)

func TestSquareRoundTrip(t *testing.T) {
	for _, sq := range AllSquares() {
		parsed, err := ParseSquare(sq.String())
		if err != nil {
			t.Fatalf("ParseSquare(%s): %v", sq, err)
		}
		if parsed != sq {
			t.Errorf("ParseSquare(%s) = %v", sq, parsed)
		}
		if NewSquare(sq.File(), sq.Rank()) != sq {
			t.Errorf("NewSquare(%d, %d) != %s", sq.File(), sq.Rank(), sq)
		}
	}
}

func TestSquareBounds(t *testing.T) {
	if NewSquare(8, 0) != NoSquare || NewSquare(0, -1) != NoSquare {
		t.Error("out of range coordinates should give NoSquare")
	}
	if NoSquare.String() != "-" {
		t.Errorf("NoSquare.String() = %q", NoSquare.String())
	}
	for _, s := range []string{"", "e", "i1", "a9", "e44"} {
		if _, err := ParseSquare(s); err == nil {
			t.Errorf("ParseSquare(%q) should fail", s)
		}
	}
}

func TestSquareColor(t *testing.T) {
	tests := []struct {
		sq    string
		light bool
	}{
		{"a1", true},
		{"h1", false},
		{"b1", false},
		{"a8", false},
		{"h8", true},
		{"e4", false},
		{"d4", true},
	}
	for _, tt := range tests {
		if got := MustSquare(tt.sq).IsLight(); got != tt.light {
			t.Errorf("%s.IsLight() = %v, want %v", tt.sq, got, tt.light)
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"e2e4", NewMove(MustSquare("e2"), MustSquare("e4"))},
		{"e7e8n", Move{From: MustSquare("e7"), To: MustSquare("e8"), Promotion: Knight}},
		{"a2a1Q", Move{From: MustSquare("a2"), To: MustSquare("a1"), Promotion: Queen}},
	}
	for _, tc := range tests {
		got, err := ParseMove(tc.in)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseMove(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "e2", "e2e9", "e7e8k", "e7e8x", "hello"} {
		if _, err := ParseMove(bad); !errors.Is(err, ErrBadMoveFormat) {
			t.Errorf("ParseMove(%q) err = %v, want ErrBadMoveFormat", bad, err)
		}
	}
}

func TestMoveString(t *testing.T) {
	m := NewMove(MustSquare("e7"), MustSquare("e8")).WithPromotion(Knight)
	if m.String() != "e7e8n" {
		t.Errorf("String() = %q", m.String())
	}
	if m == NewMove(MustSquare("e7"), MustSquare("e8")) {
		t.Error("promotion must take part in equality")
	}
}

func TestPieceNames(t *testing.T) {
	if got := NewPiece(Pawn, White).AssetName(); got != "wP" {
		t.Errorf("AssetName = %q", got)
	}
	if got := NewPiece(Queen, Black).AssetName(); got != "bQ" {
		t.Errorf("AssetName = %q", got)
	}
	if got := NewPiece(Knight, Black).String(); got != "n" {
		t.Errorf("String = %q", got)
	}
	if !NoPiece.IsNone() || NoPiece.AssetName() != "" {
		t.Error("NoPiece should be empty")
	}
}
