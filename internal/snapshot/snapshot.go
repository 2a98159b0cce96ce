// Package snapshot replays draw commands onto an in-memory raster and
// exports it as PNG.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/render"
)

// LabelSize is the font size used for rank and file labels.
const LabelSize = 14

// Background fills the margins around the board.
var Background = color.RGBA{0x30, 0x30, 0x30, 0xFF}

// Pieces supplies piece images; nil means the piece is not drawn.
type Pieces interface {
	Image(p board.Piece) image.Image
}

// Canvas is a render.Canvas backed by a gg context.
type Canvas struct {
	dc     *gg.Context
	pieces Pieces
	face   font.Face
}

// New creates a w x h canvas filled with bg.
func New(w, h int, pieces Pieces, bg color.Color) (*Canvas, error) {
	face, err := labelFace(LabelSize)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc, pieces: pieces, face: face}, nil
}

// Capture renders in onto a new canvas sized to the mapper's widget.
func Capture(in render.Input, pieces Pieces) (*Canvas, error) {
	c, err := New(in.Mapper.Width(), in.Mapper.Height(), pieces, Background)
	if err != nil {
		return nil, err
	}
	c.Draw(render.Render(in))
	return c, nil
}

// Draw executes cmds in order.
func (c *Canvas) Draw(cmds []render.Command) {
	dc := c.dc
	for _, cmd := range cmds {
		switch v := cmd.(type) {
		case render.FillRect:
			dc.SetColor(v.Color)
			dc.DrawRectangle(v.X, v.Y, v.W, v.H)
			dc.Fill()
		case render.FillCircle:
			dc.SetColor(v.Color)
			dc.DrawCircle(v.CX, v.CY, v.R)
			dc.Fill()
		case render.Text:
			dc.SetFontFace(c.face)
			dc.SetColor(v.Color)
			dc.DrawStringAnchored(v.Text, v.CX, v.CY, 0.5, 0.5)
		case render.Piece:
			if c.pieces == nil {
				continue
			}
			img := c.pieces.Image(v.Piece)
			if img == nil {
				continue
			}
			dc.DrawImage(img, int(v.X), int(v.Y))
		}
	}
}

// Image returns the raster.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the raster as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// SavePNG writes the raster to path, creating parent directories.
func (c *Canvas) SavePNG(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}

func labelFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	return face, nil
}
