// Package assets loads piece images from a directory of
// {w|b}{P|N|B|R|Q|K}.png files, falling back to .svg files of the same name.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/hailam/dragboard/internal/board"
)

// ErrMissing is returned when neither a PNG nor an SVG exists for a piece.
var ErrMissing = errors.New("piece asset missing")

// Loader reads and caches piece images scaled to a square size. A missing
// asset is reported once and then treated as an invisible piece.
type Loader struct {
	dir  string
	size int
	log  *zap.Logger

	mu      sync.Mutex
	cache   map[board.Piece]image.Image
	missing map[board.Piece]bool
}

// New creates a loader for dir producing size x size images.
func New(dir string, size int, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		dir:     dir,
		size:    size,
		log:     log,
		cache:   make(map[board.Piece]image.Image),
		missing: make(map[board.Piece]bool),
	}
}

// Dir returns the asset directory.
func (l *Loader) Dir() string { return l.dir }

// Size returns the edge length of loaded images.
func (l *Loader) Size() int { return l.size }

// Image returns the image for p, or nil if it has no asset.
func (l *Loader) Image(p board.Piece) image.Image {
	if p.IsNone() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if img, ok := l.cache[p]; ok {
		return img
	}
	if l.missing[p] {
		return nil
	}

	img, err := l.load(p)
	if err != nil {
		l.missing[p] = true
		l.log.Warn("piece asset unavailable",
			zap.String("piece", p.AssetName()),
			zap.String("dir", l.dir),
			zap.Error(err))
		return nil
	}
	l.cache[p] = img
	return img
}

// Preload loads all twelve pieces and returns how many were found.
func (l *Loader) Preload() int {
	n := 0
	for _, c := range []board.Color{board.White, board.Black} {
		for k := board.Pawn; k <= board.King; k++ {
			if l.Image(board.NewPiece(k, c)) != nil {
				n++
			}
		}
	}
	return n
}

func (l *Loader) load(p board.Piece) (image.Image, error) {
	base := filepath.Join(l.dir, p.AssetName())

	data, err := os.ReadFile(base + ".png")
	if err == nil {
		src, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s.png: %w", base, err)
		}
		return scale(src, l.size), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s.png: %w", base, err)
	}

	data, err = os.ReadFile(base + ".svg")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read %s.svg: %w", base, err)
	}
	return rasterize(data, l.size)
}

// scale fits src into a size x size RGBA image, keeping its aspect ratio
// and centering it.
func scale(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, fit(float64(b.Dx()), float64(b.Dy()), size), src, b, xdraw.Over, nil)
	return dst
}

// fit returns the largest w:h rectangle centered in a size x size square.
func fit(w, h float64, size int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rect(0, 0, size, size)
	}
	k := float64(size) / math.Max(w, h)
	fw, fh := int(math.Round(w*k)), int(math.Round(h*k))
	x, y := (size-fw)/2, (size-fh)/2
	return image.Rect(x, y, x+fw, y+fh)
}

// rasterize renders an SVG document into a size x size image, fitted like
// scale.
func rasterize(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	r := fit(icon.ViewBox.W, icon.ViewBox.H, size)
	icon.SetTarget(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// sanitizeSVG fixes style spellings oksvg rejects.
func sanitizeSVG(svg []byte) []byte {
	for _, r := range [][2]string{
		{"fill:000000", "fill:#000000"},
		{"fill: 000000", "fill:#000000"},
		{"stroke: 000000", "stroke:#000000"},
		{"fill: #", "fill:#"},
		{"stroke: #", "stroke:#"},
		{"stop-color: #", "stop-color:#"},
	} {
		svg = bytes.ReplaceAll(svg, []byte(r[0]), []byte(r[1]))
	}
	return svg
}
