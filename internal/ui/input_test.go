package ui

import (
	"image"
	"reflect"
	"testing"

	"github.com/hailam/dragboard/internal/input"
)

func TestPointerEvents(t *testing.T) {
	at := func(x, y int) image.Point { return image.Pt(x, y) }
	ev := func(k input.EventKind, x, y int) input.Event { return input.Event{Kind: k, X: x, Y: y} }

	tests := []struct {
		name      string
		prev, cur pointerSample
		want      []input.Event
	}{
		{
			name: "idle hover",
			prev: pointerSample{pos: at(1, 1)},
			cur:  pointerSample{pos: at(5, 5)},
		},
		{
			name: "press",
			prev: pointerSample{pos: at(5, 5)},
			cur:  pointerSample{pos: at(5, 5), down: true, justPressed: true},
			want: []input.Event{ev(input.Press, 5, 5)},
		},
		{
			name: "drag",
			prev: pointerSample{pos: at(5, 5), down: true},
			cur:  pointerSample{pos: at(9, 7), down: true},
			want: []input.Event{ev(input.Move, 9, 7)},
		},
		{
			name: "held still",
			prev: pointerSample{pos: at(9, 7), down: true},
			cur:  pointerSample{pos: at(9, 7), down: true},
		},
		{
			name: "release after moving",
			prev: pointerSample{pos: at(9, 7), down: true},
			cur:  pointerSample{pos: at(20, 30), justReleased: true},
			want: []input.Event{ev(input.Move, 20, 30), ev(input.Release, 20, 30)},
		},
		{
			name: "click within one frame",
			prev: pointerSample{pos: at(3, 3)},
			cur:  pointerSample{pos: at(3, 3), justPressed: true, justReleased: true},
			want: []input.Event{ev(input.Press, 3, 3), ev(input.Release, 3, 3)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pointerEvents(tt.prev, tt.cur)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
