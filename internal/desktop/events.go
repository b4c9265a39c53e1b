package desktop

import (
	"fmt"

	"github.com/1broseidon/tabdock/internal/geometry"
)

// EventKind names an input event consumed by the desktop.
type EventKind string

const (
	EventPointerDown EventKind = "pointerdown"
	EventPointerMove EventKind = "pointermove"
	EventPointerUp   EventKind = "pointerup"
	EventClick       EventKind = "click"
	EventDoubleClick EventKind = "dblclick"
	EventResize      EventKind = "resize"
	EventKeyDown     EventKind = "keydown"
)

// InputEvent is a single named input. Pointer events use X/Y, resize uses
// Width/Height and keydown uses Key.
type InputEvent struct {
	Kind   EventKind `json:"kind"`
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Key    string    `json:"key,omitempty"`
}

// Point returns the pointer position of the event.
func (e InputEvent) Point() geometry.Point {
	return geometry.Point{X: e.X, Y: e.Y}
}

// Validate checks that the event carries the fields its kind needs.
func (e InputEvent) Validate() error {
	switch e.Kind {
	case EventPointerDown, EventPointerMove, EventPointerUp, EventClick, EventDoubleClick:
		return nil
	case EventResize:
		if !(e.Width > 0) || !(e.Height > 0) {
			return fmt.Errorf("resize event needs positive width and height")
		}
		return nil
	case EventKeyDown:
		if e.Key == "" {
			return fmt.Errorf("keydown event needs a key")
		}
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// Outcome reports what an input event did.
type Outcome struct {
	Handled  bool   `json:"handled"`
	WindowID string `json:"window_id,omitempty"`
	Region   string `json:"region,omitempty"`
	Action   string `json:"action,omitempty"`
}
