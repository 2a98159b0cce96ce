package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/dragboard/internal/board"
	"github.com/hailam/dragboard/internal/geom"
	"github.com/hailam/dragboard/internal/promotion"
)

const pickerBlur = 1.5

var (
	pickerScrim  = color.RGBA{0, 0, 0, 110}
	pickerTile   = color.RGBA{250, 250, 250, 235}
	pickerHover  = color.RGBA{255, 214, 120, 245}
	pickerLetter = color.RGBA{30, 30, 30, 255}
)

// Picker is the modal promotion chooser. It covers four squares of the
// destination file, starting at the destination and running toward the
// middle of the board.
type Picker struct {
	open  bool
	pawn  board.Piece
	board image.Rectangle
	tiles []image.Rectangle
	frost *Frost
}

// Open shows the picker for pawn promoting on dest.
func (p *Picker) Open(m geom.Mapper, pawn board.Piece, dest board.Square) {
	p.open = true
	p.pawn = pawn
	p.board = m.BoardRect()
	p.tiles = pickerTiles(m, dest)
}

// Close hides the picker.
func (p *Picker) Close() {
	p.open = false
	p.tiles = nil
}

// IsOpen reports whether the picker is showing.
func (p *Picker) IsOpen() bool { return p.open }

// Click maps a click to a choice. Clicking outside the tiles cancels.
func (p *Picker) Click(x, y int) promotion.Choice {
	if k, ok := p.HitTest(x, y); ok {
		return promotion.Chosen(k)
	}
	return promotion.Cancel
}

// HitTest returns the option under (x, y).
func (p *Picker) HitTest(x, y int) (board.PieceKind, bool) {
	pt := image.Pt(x, y)
	for i, r := range p.tiles {
		if pt.In(r) {
			return promotion.Options[i], true
		}
	}
	return board.NoKind, false
}

// Draw renders the scrim and the four options.
func (p *Picker) Draw(screen *ebiten.Image, sprites *SpriteManager, mouseX, mouseY int) {
	if !p.open {
		return
	}
	if p.frost == nil {
		p.frost = NewFrost(pickerBlur, pickerScrim)
	}
	p.frost.Draw(screen, p.board)

	mouse := image.Pt(mouseX, mouseY)
	face := GetFaceWithSize(pickerFontSize)
	for i, r := range p.tiles {
		fill := pickerTile
		if mouse.In(r) {
			fill = pickerHover
		}
		cx := float32(r.Min.X) + float32(r.Dx())/2
		cy := float32(r.Min.Y) + float32(r.Dy())/2
		vector.DrawFilledCircle(screen, cx, cy, float32(r.Dx())/2, fill, true)

		piece := board.NewPiece(promotion.Options[i], p.pawn.Color)
		if sprites != nil && sprites.GetPiece(piece) != nil {
			sprites.DrawPieceAt(screen, piece, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()))
			continue
		}
		if face == nil {
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(cx), float64(cy))
		op.ColorScale.ScaleWithColor(pickerLetter)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(screen, promotion.Options[i].String(), face, op)
	}
}

// pickerTiles lays out one tile per promotion option in dest's column.
func pickerTiles(m geom.Mapper, dest board.Square) []image.Rectangle {
	x, y := m.SquareToOrigin(dest)
	step := m.SquareSize
	if y >= m.MarginTop+4*m.SquareSize {
		step = -step
	}
	tiles := make([]image.Rectangle, len(promotion.Options))
	for i := range tiles {
		ty := y + i*step
		tiles[i] = image.Rect(x, ty, x+m.SquareSize, ty+m.SquareSize)
	}
	return tiles
}
