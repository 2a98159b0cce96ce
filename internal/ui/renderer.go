package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/dragboard/internal/render"
)

// Canvas replays draw commands onto an ebiten image. Target must be set
// each frame before Draw.
type Canvas struct {
	sprites *SpriteManager
	target  *ebiten.Image
}

// NewCanvas creates a canvas that draws pieces with sprites.
func NewCanvas(sprites *SpriteManager) *Canvas {
	return &Canvas{sprites: sprites}
}

// Target sets the image the next Draw writes to.
func (c *Canvas) Target(screen *ebiten.Image) {
	c.target = screen
}

// Draw implements render.Canvas.
func (c *Canvas) Draw(cmds []render.Command) {
	screen := c.target
	if screen == nil {
		return
	}
	for _, cmd := range cmds {
		switch v := cmd.(type) {
		case render.FillRect:
			vector.DrawFilledRect(screen, float32(v.X), float32(v.Y), float32(v.W), float32(v.H), v.Color, false)
		case render.FillCircle:
			vector.DrawFilledCircle(screen, float32(v.CX), float32(v.CY), float32(v.R), v.Color, true)
		case render.Text:
			face := GetBoldFace()
			if face == nil {
				continue
			}
			op := &text.DrawOptions{}
			op.GeoM.Translate(v.CX, v.CY)
			op.ColorScale.ScaleWithColor(v.Color)
			op.PrimaryAlign = text.AlignCenter
			op.SecondaryAlign = text.AlignCenter
			text.Draw(screen, v.Text, face, op)
		case render.Piece:
			if c.sprites != nil {
				c.sprites.DrawPieceAt(screen, v.Piece, v.X, v.Y, v.Size)
			}
		}
	}
}
