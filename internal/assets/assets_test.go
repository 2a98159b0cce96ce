package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/dragboard/internal/board"
)

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	writeRect(t, path, size, size)
}

func writeRect(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 10, 10, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPNGScaled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wP.png"), 40)

	l := New(dir, 80, nil)
	img := l.Image(board.NewPiece(board.Pawn, board.White))
	if img == nil {
		t.Fatal("expected an image")
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 80 {
		t.Errorf("bounds = %v, want 80x80", b)
	}
	if _, _, _, a := img.At(40, 40).RGBA(); a == 0 {
		t.Error("center pixel is transparent")
	}
}

func TestLoadSVGFallback(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">` +
		`<path d="M 0 0 L 45 0 L 45 45 L 0 45 Z" style="fill: #000000"/></svg>`
	if err := os.WriteFile(filepath.Join(dir, "bK.svg"), []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New(dir, 64, nil)
	img := l.Image(board.NewPiece(board.King, board.Black))
	if img == nil {
		t.Fatal("expected svg to rasterize")
	}
	if b := img.Bounds(); b.Dx() != 64 {
		t.Errorf("bounds = %v", b)
	}
	if _, _, _, a := img.At(32, 32).RGBA(); a == 0 {
		t.Error("center pixel is transparent")
	}
}

func TestMissingAsset(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wQ.png"), 80)

	l := New(dir, 80, nil)
	if img := l.Image(board.NewPiece(board.Queen, board.Black)); img != nil {
		t.Error("missing asset should yield nil")
	}
	// Cached as missing; still nil.
	if img := l.Image(board.NewPiece(board.Queen, board.Black)); img != nil {
		t.Error("missing asset should stay nil")
	}
	if l.Image(board.NoPiece) != nil {
		t.Error("NoPiece has no image")
	}
	if n := l.Preload(); n != 1 {
		t.Errorf("Preload found %d, want 1", n)
	}
}

func TestCorruptPNG(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "wN.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(dir, 80, nil).load(board.NewPiece(board.Knight, board.White))
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestSanitizeSVG(t *testing.T) {
	got := string(sanitizeSVG([]byte(`style="fill: #fff; stroke: 000000"`)))
	if got != `style="fill:#fff; stroke:#000000"` {
		t.Errorf("got %q", got)
	}
}

func opaque(img image.Image, x, y int) bool {
	_, _, _, a := img.At(x, y).RGBA()
	return a != 0
}

func TestNonSquareAssetsKeepAspect(t *testing.T) {
	dir := t.TempDir()
	writeRect(t, filepath.Join(dir, "wN.png"), 40, 20)
	tall := `<svg xmlns="http://www.w3.org/2000/svg" width="45" height="90" viewBox="0 0 45 90">` +
		`<path d="M 0 0 L 45 0 L 45 90 L 0 90 Z" style="fill: #000000"/></svg>`
	if err := os.WriteFile(filepath.Join(dir, "bN.svg"), []byte(tall), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New(dir, 80, nil)

	wide := l.Image(board.NewPiece(board.Knight, board.White))
	if wide == nil {
		t.Fatal("expected png")
	}
	// 40x20 fits as 80x40 centered vertically: rows 20..59.
	for _, tt := range []struct {
		y    int
		want bool
	}{{5, false}, {19, false}, {21, true}, {40, true}, {58, true}, {75, false}} {
		if got := opaque(wide, 40, tt.y); got != tt.want {
			t.Errorf("png row %d opaque = %v, want %v", tt.y, got, tt.want)
		}
	}

	narrow := l.Image(board.NewPiece(board.Knight, board.Black))
	if narrow == nil {
		t.Fatal("expected svg")
	}
	// 45x90 fits as 40x80 centered horizontally: columns 20..59.
	for _, tt := range []struct {
		x    int
		want bool
	}{{5, false}, {18, false}, {22, true}, {40, true}, {57, true}, {75, false}} {
		if got := opaque(narrow, tt.x, 40); got != tt.want {
			t.Errorf("svg column %d opaque = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h float64
		want image.Rectangle
	}{
		{40, 40, image.Rect(0, 0, 80, 80)},
		{40, 20, image.Rect(0, 20, 80, 60)},
		{45, 90, image.Rect(20, 0, 60, 80)},
		{0, 10, image.Rect(0, 0, 80, 80)},
	}
	for _, tt := range tests {
		if got := fit(tt.w, tt.h, 80); got != tt.want {
			t.Errorf("fit(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
