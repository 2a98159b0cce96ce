package ui

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/hailam/dragboard/internal/input"
)

// pointerSample is the mouse state for one frame.
type pointerSample struct {
	pos          image.Point
	down         bool
	justPressed  bool
	justReleased bool
}

// InputHandler samples the mouse once per frame and turns it into board
// events.
type InputHandler struct {
	last pointerSample
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update samples the mouse and returns this frame's events in order.
// Positions are in layout coordinates, which are the widget's pixels.
func (ih *InputHandler) Update() []input.Event {
	x, y := ebiten.CursorPosition()
	cur := pointerSample{
		pos:          image.Pt(x, y),
		down:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		justPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		justReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
	evs := pointerEvents(ih.last, cur)
	ih.last = cur
	return evs
}

// MousePosition returns the last sampled mouse position.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.last.pos.X, ih.last.pos.Y
}

// JustClicked reports whether the left button went down this frame.
func (ih *InputHandler) JustClicked() bool {
	return ih.last.justPressed
}

// pointerEvents derives events from two consecutive samples. A press and a
// release in the same frame yield both, press first.
func pointerEvents(prev, cur pointerSample) []input.Event {
	var evs []input.Event
	at := func(k input.EventKind) input.Event {
		return input.Event{Kind: k, X: cur.pos.X, Y: cur.pos.Y}
	}
	if cur.justPressed {
		evs = append(evs, at(input.Press))
	}
	if cur.down && !cur.justPressed && cur.pos != prev.pos {
		evs = append(evs, at(input.Move))
	}
	if cur.justReleased {
		if cur.pos != prev.pos && !cur.justPressed {
			evs = append(evs, at(input.Move))
		}
		evs = append(evs, at(input.Release))
	}
	return evs
}

// IsKeyJustPressed returns true if any of keys was just pressed.
func IsKeyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
