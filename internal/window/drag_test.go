package window

import (
	"testing"

	"github.com/1broseidon/tabdock/internal/geometry"
)

type recordingRegistry struct {
	attached map[PointerListener]bool
	attaches int
	detaches int
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{attached: make(map[PointerListener]bool)}
}

func (r *recordingRegistry) Attach(l PointerListener) {
	r.attached[l] = true
	r.attaches++
}

func (r *recordingRegistry) Detach(l PointerListener) {
	delete(r.attached, l)
	r.detaches++
}

func fixedViewport(w, h float64) ViewportFunc {
	return func() geometry.Size { return geometry.Size{Width: w, Height: h} }
}

func TestDragTracker_MovesWithOffset(t *testing.T) {
	reg := newRecordingRegistry()
	d := NewDragTracker(fixedViewport(1920, 1080), reg)
	d.SetPosition(geometry.Point{X: 100, Y: 100})

	d.BeginDrag(geometry.Point{X: 150, Y: 110}, geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300})
	if !d.Dragging() {
		t.Fatalf("expected dragging after BeginDrag")
	}
	if !reg.attached[d] {
		t.Fatalf("expected listener to be attached while dragging")
	}

	d.PointerMove(geometry.Point{X: 350, Y: 410})
	want := geometry.Point{X: 300, Y: 400}
	if got := d.Position(); got != want {
		t.Fatalf("Position() = %+v, want %+v", got, want)
	}

	d.PointerUp(geometry.Point{X: 350, Y: 410})
	if d.Dragging() {
		t.Fatalf("expected drag to end on pointer up")
	}
	if len(reg.attached) != 0 || reg.detaches != 1 {
		t.Fatalf("expected listener detached exactly once, attached=%d detaches=%d", len(reg.attached), reg.detaches)
	}
}

func TestDragTracker_ClampsEveryMove(t *testing.T) {
	vw, vh := 1024.0, 768.0
	d := NewDragTracker(fixedViewport(vw, vh), nil)
	elem := geometry.Size{Width: 400, Height: 300}
	d.BeginDrag(geometry.Point{X: 10, Y: 10}, geometry.Rect{X: 0, Y: 0, Width: elem.Width, Height: elem.Height})

	moves := []geometry.Point{
		{X: 0, Y: 0}, {X: 5, Y: 768}, {X: 1024, Y: 0}, {X: 1000, Y: 700},
		{X: 512, Y: 384}, {X: 3, Y: 3}, {X: 1024, Y: 768},
	}
	for _, m := range moves {
		d.PointerMove(m)
		p := d.Position()
		if p.X < 0 || p.X > vw-elem.Width || p.Y < 0 || p.Y > vh-elem.Height {
			t.Fatalf("after move to %+v position %+v escapes viewport", m, p)
		}
	}
}

func TestDragTracker_PointerOutsideViewportStopsAndKeepsGeometry(t *testing.T) {
	reg := newRecordingRegistry()
	d := NewDragTracker(fixedViewport(1920, 1080), reg)
	d.SetPosition(geometry.Point{X: 200, Y: 200})

	d.BeginDrag(geometry.Point{X: 220, Y: 210}, geometry.Rect{X: 200, Y: 200, Width: 400, Height: 300})
	d.PointerMove(geometry.Point{X: 30, Y: 60})
	last := d.Position()
	if last != (geometry.Point{X: 10, Y: 50}) {
		t.Fatalf("Position() = %+v, want {10 50}", last)
	}

	d.PointerMove(geometry.Point{X: -10, Y: 50})
	if d.Dragging() {
		t.Fatalf("expected drag to end when pointer leaves the viewport")
	}
	if got := d.Position(); got != last {
		t.Fatalf("Position() = %+v, want last clamped %+v", got, last)
	}
	if len(reg.attached) != 0 {
		t.Fatalf("expected listener detached after out-of-bounds exit")
	}

	d.PointerMove(geometry.Point{X: 500, Y: 500})
	if got := d.Position(); got != last {
		t.Fatalf("move after drag ended changed position to %+v", got)
	}
}

func TestDragTracker_IdleEventsAreNoops(t *testing.T) {
	reg := newRecordingRegistry()
	d := NewDragTracker(fixedViewport(800, 600), reg)
	d.SetPosition(geometry.Point{X: 1, Y: 2})

	d.PointerMove(geometry.Point{X: 300, Y: 300})
	d.EndDrag()
	d.PointerUp(geometry.Point{})

	if got := d.Position(); got != (geometry.Point{X: 1, Y: 2}) {
		t.Fatalf("Position() = %+v, want {1 2}", got)
	}
	if reg.attaches != 0 || reg.detaches != 0 {
		t.Fatalf("expected no registry traffic, got attaches=%d detaches=%d", reg.attaches, reg.detaches)
	}
}

func TestFullscreenToggler_RoundTrip(t *testing.T) {
	size := geometry.Size{Width: 800, Height: 600}
	pos := geometry.Point{X: 560, Y: 240}
	tg := NewFullscreenToggler(size, pos)

	tg.Toggle(geometry.Size{Width: 1920, Height: 1080})
	if !tg.Fullscreen() {
		t.Fatalf("expected fullscreen after first toggle")
	}
	if got := tg.Geometry(); got != (geometry.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("Geometry() = %+v, want full viewport at origin", got)
	}

	tg.Toggle(geometry.Size{Width: 1920, Height: 1080})
	if tg.Fullscreen() {
		t.Fatalf("expected normal after second toggle")
	}
	if got := tg.Geometry(); got != geometry.RectFrom(pos, size) {
		t.Fatalf("Geometry() = %+v, want %+v", got, geometry.RectFrom(pos, size))
	}
}

func TestCenteringPolicy(t *testing.T) {
	vp := geometry.Size{Width: 1920, Height: 1080}
	size := geometry.Size{Width: 800, Height: 600}

	if _, ok := (CenteringPolicy{}).Apply(size, vp, false); ok {
		t.Fatalf("disabled policy should not apply")
	}
	if _, ok := (CenteringPolicy{Enabled: true}).Apply(size, vp, true); ok {
		t.Fatalf("policy should not apply while minimized")
	}
	got, ok := (CenteringPolicy{Enabled: true}).Apply(size, vp, false)
	if !ok || got != (geometry.Point{X: 560, Y: 240}) {
		t.Fatalf("Apply() = %+v, %v, want {560 240}, true", got, ok)
	}
}
