package window

import "github.com/1broseidon/tabdock/internal/geometry"

// PointerListener receives global pointer events while attached.
type PointerListener interface {
	PointerMove(p geometry.Point)
	PointerUp(p geometry.Point)
}

// ListenerRegistry is the global (document level) pointer listener set.
type ListenerRegistry interface {
	Attach(l PointerListener)
	Detach(l PointerListener)
}

// ViewportFunc reports the current viewport size.
type ViewportFunc func() geometry.Size

// DragTracker computes a window's top-left position from pointer movement.
// Its listener is attached to the registry only while a drag is active.
type DragTracker struct {
	viewport  ViewportFunc
	listeners ListenerRegistry

	position geometry.Point
	dragging bool
	offset   geometry.Point
	elem     geometry.Size
}

// NewDragTracker creates an idle tracker. listeners may be nil, in which
// case pointer events must be fed to the tracker directly.
func NewDragTracker(viewport ViewportFunc, listeners ListenerRegistry) *DragTracker {
	return &DragTracker{viewport: viewport, listeners: listeners}
}

// Position returns the tracked top-left corner.
func (d *DragTracker) Position() geometry.Point {
	return d.position
}

// SetPosition overrides the tracked position, e.g. when centering.
func (d *DragTracker) SetPosition(p geometry.Point) {
	d.position = p
}

// Dragging reports whether a drag is in progress.
func (d *DragTracker) Dragging() bool {
	return d.dragging
}

// BeginDrag records the pointer offset from the element's top-left corner
// and starts listening for global pointer events.
func (d *DragTracker) BeginDrag(pointer geometry.Point, bounds geometry.Rect) {
	if d.dragging {
		return
	}
	d.offset = geometry.Point{X: pointer.X - bounds.X, Y: pointer.Y - bounds.Y}
	d.elem = bounds.Size()
	d.dragging = true
	if d.listeners != nil {
		d.listeners.Attach(d)
	}
}

// PointerMove moves the element so that the recorded offset is preserved,
// clamped to the viewport. A pointer outside the viewport ends the drag
// and leaves the last clamped position in place.
func (d *DragTracker) PointerMove(pointer geometry.Point) {
	if !d.dragging {
		return
	}
	viewport := d.viewport()
	if !viewport.Contains(pointer) {
		d.EndDrag()
		return
	}
	next := geometry.Point{X: pointer.X - d.offset.X, Y: pointer.Y - d.offset.Y}
	d.position = geometry.ClampOrigin(next, d.elem, viewport)
}

// PointerUp ends the drag.
func (d *DragTracker) PointerUp(geometry.Point) {
	d.EndDrag()
}

// EndDrag clears the dragging flag and detaches the global listener.
func (d *DragTracker) EndDrag() {
	if !d.dragging {
		return
	}
	d.dragging = false
	if d.listeners != nil {
		d.listeners.Detach(d)
	}
}
