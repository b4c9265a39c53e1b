package desktop

import (
	"github.com/1broseidon/tabdock/internal/actionlog"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/window"
)

// Dispatch applies one input event. Pointer presses reach only the topmost
// window, whose overlay covers the viewport; with no window open they fall
// through to the dock. Moves and releases go to the attached global
// listeners.
func (d *Desktop) Dispatch(ev InputEvent) (Outcome, error) {
	if err := ev.Validate(); err != nil {
		return Outcome{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Kind {
	case EventResize:
		d.resizeLocked(geometry.Size{Width: ev.Width, Height: ev.Height})
		return Outcome{Handled: true, Action: "resize"}, nil
	case EventPointerMove:
		return d.broadcastLocked(ev, false), nil
	case EventPointerUp:
		return d.broadcastLocked(ev, true), nil
	case EventKeyDown:
		return d.keyLocked(ev.Key), nil
	}

	top, ok := d.topLocked()
	if !ok {
		if ev.Kind == EventClick {
			return d.dockClickLocked(ev.Point())
		}
		return Outcome{}, nil
	}

	p := ev.Point()
	id := top.frame.ID()
	region := top.frame.HitTest(p)
	out := Outcome{Handled: true, WindowID: id, Region: region.String()}

	switch ev.Kind {
	case EventPointerDown:
		if region == window.RegionHeader && top.frame.BeginHeaderDrag(p) {
			out.Action = "drag-start"
		}
	case EventDoubleClick:
		if region == window.RegionHeader && top.frame.HeaderDoubleClick() {
			out.Action = "fullscreen"
			d.actions.Log(actionlog.ActionFullscreen, id, map[string]any{"fullscreen": top.frame.State().Fullscreen})
		}
	case EventClick:
		before := top.frame.State()
		top.frame.Click(p)
		after := top.frame.State()
		switch {
		case after.Closing && !before.Closing:
			out.Action = "close"
		case after.Minimized != before.Minimized:
			out.Action = "minimize"
			d.actions.Log(actionlog.ActionMinimize, id, map[string]any{"minimized": after.Minimized})
		case after.Fullscreen != before.Fullscreen:
			out.Action = "fullscreen"
			d.actions.Log(actionlog.ActionFullscreen, id, map[string]any{"fullscreen": after.Fullscreen})
		}
	}
	return out, nil
}

func (d *Desktop) broadcastLocked(ev InputEvent, up bool) Outcome {
	if len(d.listeners) == 0 {
		return Outcome{}
	}
	dragging := d.draggingLocked()
	p := ev.Point()
	for _, l := range append([]window.PointerListener(nil), d.listeners...) {
		if up {
			l.PointerUp(p)
		} else {
			l.PointerMove(p)
		}
	}

	out := Outcome{Handled: true, Action: "drag"}
	for _, id := range dragging {
		w, ok := d.windows[id]
		if !ok {
			continue
		}
		out.WindowID = id
		if !w.frame.State().Dragging {
			out.Action = "drag-end"
			r := w.frame.Geometry()
			d.actions.Log(actionlog.ActionDragEnd, id, map[string]any{"x": r.X, "y": r.Y})
		}
	}
	return out
}

func (d *Desktop) draggingLocked() []string {
	var ids []string
	for _, id := range d.stack.Ordered() {
		if w, ok := d.windows[id]; ok && w.frame.State().Dragging {
			ids = append(ids, id)
		}
	}
	return ids
}

func (d *Desktop) keyLocked(key string) Outcome {
	if key != "Escape" {
		return Outcome{}
	}
	top, ok := d.topLocked()
	if !ok {
		return Outcome{}
	}
	out := Outcome{Handled: true, WindowID: top.frame.ID()}
	if top.frame.Close() {
		out.Action = "close"
	}
	return out
}

func (d *Desktop) dockClickLocked(p geometry.Point) (Outcome, error) {
	entries := d.registry.Entries()
	idx := d.dockLayout.HitTest(d.viewport, len(entries), p)
	if idx < 0 {
		return Outcome{}, nil
	}
	entry := entries[idx]
	out := Outcome{Handled: true, Region: "dock", Action: "open"}
	if !entry.Launchable() {
		out.Action = "unavailable"
		return out, nil
	}
	info, err := d.openPluginLocked(entry.ID)
	if err != nil {
		return out, err
	}
	out.WindowID = info.ID
	return out, nil
}

// SetViewport updates the viewport size and lets every window refit.
func (d *Desktop) SetViewport(size geometry.Size) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resizeLocked(size)
}

func (d *Desktop) resizeLocked(size geometry.Size) bool {
	if !size.Valid() || size == d.viewport {
		return false
	}
	d.viewport = size
	for _, id := range d.stack.Ordered() {
		if w, ok := d.windows[id]; ok {
			w.frame.ViewportResized()
		}
	}
	d.logger.Debug("viewport resized", "width", size.Width, "height", size.Height)
	d.actions.Log(actionlog.ActionResize, "viewport", map[string]any{"width": size.Width, "height": size.Height})
	return true
}
