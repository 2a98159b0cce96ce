package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/input"
	"github.com/hailam/dragboard/internal/render"
	"github.com/hailam/dragboard/internal/rules"
	"github.com/hailam/dragboard/internal/theme"
)

var red = color.RGBA{255, 0, 0, 255}

// solidPawns draws white pawns as solid red squares and nothing else.
type solidPawns struct{ size int }

func (s solidPawns) Image(p board.Piece) image.Image {
	if p != board.NewPiece(board.Pawn, board.White) {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, s.size, s.size))
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			img.Set(x, y, red)
		}
	}
	return img
}

func startInput() render.Input {
	th, _ := theme.Named(theme.Light)
	return render.Input{
		Board:  rules.New(nil),
		UI:     &input.UIState{Drag: input.Drag{Origin: board.NoSquare}},
		Theme:  th,
		Mapper: geom.NewMapper(80, 30, 10, geom.WhiteAtBottom),
	}
}

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestCapture(t *testing.T) {
	in := startInput()
	c, err := Capture(in, solidPawns{size: 80})
	if err != nil {
		t.Fatal(err)
	}
	img := c.Image()
	if b := img.Bounds(); b.Dx() != 680 || b.Dy() != 680 {
		t.Fatalf("bounds = %v", b)
	}

	tests := []struct {
		name string
		sq   string
		want color.RGBA
	}{
		{"empty light square", "a3", in.Theme.LightSquare},
		{"empty dark square", "b3", in.Theme.DarkSquare},
		{"white pawn", "e2", red},
		{"black piece without asset", "e8", in.Theme.DarkSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := in.Mapper.SquareCenter(board.MustSquare(tt.sq))
			if got := rgba(img.At(x, y)); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.sq, got, tt.want)
			}
		})
	}

	if got := rgba(img.At(2, 2)); got != Background {
		t.Errorf("margin = %v, want background", got)
	}
}

func TestEncodeAndSave(t *testing.T) {
	c, err := Capture(startInput(), nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 680 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}

	path := filepath.Join(t.TempDir(), "nested", "board.png")
	if err := c.SavePNG(path); err != nil {
		t.Fatal(err)
	}
}
