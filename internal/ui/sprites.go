// Package ui hosts the board in an Ebitengine window.
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/dragboard/internal/assets"
	"github.com/hailam/dragboard/internal/board"
)

// SpriteManager turns loaded piece images into GPU images on first use.
type SpriteManager struct {
	loader *assets.Loader
	pieces map[board.Piece]*ebiten.Image
	absent map[board.Piece]bool
}

// NewSpriteManager creates a sprite manager backed by loader.
func NewSpriteManager(loader *assets.Loader) *SpriteManager {
	return &SpriteManager{
		loader: loader,
		pieces: make(map[board.Piece]*ebiten.Image),
		absent: make(map[board.Piece]bool),
	}
}

// GetPiece returns the sprite for a piece, or nil when it has no asset.
func (sm *SpriteManager) GetPiece(p board.Piece) *ebiten.Image {
	if img, ok := sm.pieces[p]; ok {
		return img
	}
	if sm.absent[p] {
		return nil
	}
	src := sm.loader.Image(p)
	if src == nil {
		sm.absent[p] = true
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	sm.pieces[p] = img
	return img
}

// DrawPieceAt draws a piece with its top-left corner at (x, y), scaled to
// size.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y, size float64) {
	sprite := sm.GetPiece(p)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	if w := sprite.Bounds().Dx(); w > 0 && float64(w) != size {
		scale := size / float64(w)
		op.GeoM.Scale(scale, scale)
	}
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the edge length pieces are loaded at.
func (sm *SpriteManager) Size() int {
	return sm.loader.Size()
}
