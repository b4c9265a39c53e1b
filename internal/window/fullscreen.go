package window

import "github.com/1broseidon/tabdock/internal/geometry"

// FullscreenToggler swaps a window between its configured geometry and the
// full viewport.
type FullscreenToggler struct {
	initialSize     geometry.Size
	initialPosition geometry.Point

	size       geometry.Size
	position   geometry.Point
	fullscreen bool
}

// NewFullscreenToggler captures the geometry that leaving fullscreen
// returns to.
func NewFullscreenToggler(size geometry.Size, position geometry.Point) *FullscreenToggler {
	return &FullscreenToggler{
		initialSize:     size,
		initialPosition: position,
		size:            size,
		position:        position,
	}
}

// Fullscreen reports the current state.
func (t *FullscreenToggler) Fullscreen() bool { return t.fullscreen }

// Size returns the current size.
func (t *FullscreenToggler) Size() geometry.Size { return t.size }

// Position returns the current position.
func (t *FullscreenToggler) Position() geometry.Point { return t.position }

// Geometry returns position and size as one rectangle.
func (t *FullscreenToggler) Geometry() geometry.Rect {
	return geometry.RectFrom(t.position, t.size)
}

// Toggle switches between Normal and Fullscreen.
func (t *FullscreenToggler) Toggle(viewport geometry.Size) {
	if t.fullscreen {
		t.Exit()
		return
	}
	t.Enter(viewport)
}

// Enter makes the window cover the viewport.
func (t *FullscreenToggler) Enter(viewport geometry.Size) {
	t.size = viewport
	t.position = geometry.Point{}
	t.fullscreen = true
}

// Exit restores the geometry captured at construction.
func (t *FullscreenToggler) Exit() {
	t.size = t.initialSize
	t.position = t.initialPosition
	t.fullscreen = false
}

// Fit keeps a fullscreen window matched to a resized viewport.
func (t *FullscreenToggler) Fit(viewport geometry.Size) {
	if t.fullscreen {
		t.size = viewport
	}
}
