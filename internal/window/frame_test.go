package window

import (
	"testing"
	"time"

	"github.com/1broseidon/tabdock/internal/geometry"
)

type fakeContent struct {
	mounts   int
	unmounts int
}

func (c *fakeContent) Mount()   { c.mounts++ }
func (c *fakeContent) Unmount() { c.unmounts++ }

type frameHarness struct {
	frame    *Frame
	sched    *ManualScheduler
	content  *fakeContent
	registry *recordingRegistry
	viewport geometry.Size
	closes   int
}

func newHarness(t *testing.T, opts Options) *frameHarness {
	t.Helper()
	h := &frameHarness{
		sched:    NewManualScheduler(),
		content:  &fakeContent{},
		registry: newRecordingRegistry(),
		viewport: geometry.Size{Width: 1920, Height: 1080},
	}
	h.frame = NewFrame(FrameConfig{
		ID:        "w1",
		Options:   opts,
		Z:         101,
		Viewport:  func() geometry.Size { return h.viewport },
		Listeners: h.registry,
		Scheduler: h.sched,
		Content:   h.content,
		OnClose:   func() { h.closes++ },
	})
	h.frame.Mount()
	return h
}

func TestFrame_OpensCenteredWithDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowDrag = false
	h := newHarness(t, opts)

	want := geometry.Rect{X: 560, Y: 240, Width: 800, Height: 600}
	if got := h.frame.Geometry(); got != want {
		t.Fatalf("Geometry() = %+v, want %+v", got, want)
	}
	if h.content.mounts != 1 {
		t.Fatalf("expected content mounted once, got %d", h.content.mounts)
	}
}

func TestFrame_MissingDimensionsFallBack(t *testing.T) {
	h := newHarness(t, Options{Title: "x", Width: -5})
	got := h.frame.Geometry().Size()
	if got != (geometry.Size{Width: DefaultWidth, Height: DefaultHeight}) {
		t.Fatalf("Size = %+v, want defaults", got)
	}
}

func TestFrame_ResizeRecentersWhenDragDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowDrag = false
	h := newHarness(t, opts)

	for _, vp := range []geometry.Size{{Width: 1280, Height: 720}, {Width: 1000, Height: 1000}, {Width: 700, Height: 500}} {
		h.viewport = vp
		h.frame.ViewportResized()
		want := geometry.Point{X: (vp.Width - 800) / 2, Y: (vp.Height - 600) / 2}
		if got := h.frame.Geometry().Origin(); got != want {
			t.Fatalf("viewport %+v: origin = %+v, want %+v", vp, got, want)
		}
	}
}

func TestFrame_ResizeKeepsDraggablePosition(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	before := h.frame.Geometry()
	h.viewport = geometry.Size{Width: 2560, Height: 1440}
	h.frame.ViewportResized()
	if got := h.frame.Geometry(); got != before {
		t.Fatalf("Geometry() = %+v, want unchanged %+v", got, before)
	}
}

func TestFrame_HeaderDragMovesWindow(t *testing.T) {
	h := newHarness(t, Options{Width: 400, Height: 300, AllowDrag: true})
	start := h.frame.Geometry()

	grab := geometry.Point{X: start.X + 50, Y: start.Y + 10}
	if got := h.frame.HitTest(grab); got != RegionHeader {
		t.Fatalf("HitTest() = %v, want header", got)
	}
	if !h.frame.BeginHeaderDrag(grab) {
		t.Fatalf("expected drag to start")
	}
	if !h.frame.State().Dragging {
		t.Fatalf("expected dragging state")
	}

	h.frame.PointerMove(geometry.Point{X: 100, Y: 20})
	if got := h.frame.Geometry().Origin(); got != (geometry.Point{X: 50, Y: 10}) {
		t.Fatalf("origin = %+v, want {50 10}", got)
	}

	h.frame.PointerMove(geometry.Point{X: -10, Y: 50})
	if h.frame.State().Dragging {
		t.Fatalf("expected drag to end outside the viewport")
	}
	if got := h.frame.Geometry().Origin(); got != (geometry.Point{X: 50, Y: 10}) {
		t.Fatalf("origin = %+v, want last clamped {50 10}", got)
	}
}

func TestFrame_DragBlockedByStateAndOptions(t *testing.T) {
	noDrag := newHarness(t, Options{AllowDrag: false, AllowFullscreen: true, AllowMinimize: true})
	g := noDrag.frame.Geometry()
	if noDrag.frame.BeginHeaderDrag(geometry.Point{X: g.X + 5, Y: g.Y + 5}) {
		t.Fatalf("drag must not start with allow_drag disabled")
	}

	full := newHarness(t, DefaultOptions())
	full.frame.ToggleFullscreen()
	if full.frame.BeginHeaderDrag(geometry.Point{X: 5, Y: 5}) {
		t.Fatalf("drag must not start while fullscreen")
	}

	mini := newHarness(t, DefaultOptions())
	mini.frame.ToggleMinimize()
	mg := mini.frame.Geometry()
	if mini.frame.BeginHeaderDrag(geometry.Point{X: mg.X + 5, Y: mg.Y + 5}) {
		t.Fatalf("drag must not start while minimized")
	}
}

func TestFrame_FullscreenTwiceRestoresGeometry(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	g := h.frame.Geometry()
	h.frame.BeginHeaderDrag(geometry.Point{X: g.X + 100, Y: g.Y + 10})
	h.frame.PointerMove(geometry.Point{X: 300, Y: 200})
	h.frame.PointerUp(geometry.Point{X: 300, Y: 200})

	before := h.frame.Geometry()
	if !h.frame.HeaderDoubleClick() {
		t.Fatalf("expected fullscreen toggle")
	}
	if got := h.frame.Geometry(); got != (geometry.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("fullscreen Geometry() = %+v", got)
	}
	h.frame.HeaderDoubleClick()
	if got := h.frame.Geometry(); got != before {
		t.Fatalf("Geometry() = %+v, want %+v", got, before)
	}
}

func TestFrame_FullscreenGatedByOptionsAndMinimize(t *testing.T) {
	h := newHarness(t, Options{AllowFullscreen: false, AllowMinimize: true})
	if h.frame.ToggleFullscreen() || h.frame.State().Fullscreen {
		t.Fatalf("fullscreen must be disabled by options")
	}

	m := newHarness(t, DefaultOptions())
	m.frame.ToggleMinimize()
	if m.frame.ToggleFullscreen() {
		t.Fatalf("fullscreen must be a no-op while minimized")
	}
}

func TestFrame_MinimizeRestorePreservesGeometry(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	g := h.frame.Geometry()
	h.frame.BeginHeaderDrag(geometry.Point{X: g.X + 100, Y: g.Y + 10})
	h.frame.PointerMove(geometry.Point{X: 700, Y: 300})
	h.frame.PointerUp(geometry.Point{})
	before := h.frame.Geometry()

	if !h.frame.ToggleMinimize() {
		t.Fatalf("expected minimize")
	}
	want := geometry.Rect{X: 20, Y: 1080 - 60, Width: 200, Height: 40}
	if got := h.frame.Geometry(); got != want {
		t.Fatalf("minimized Geometry() = %+v, want %+v", got, want)
	}
	if h.frame.ContentMounted() || h.content.unmounts != 1 {
		t.Fatalf("expected content unmounted while minimized")
	}

	h.frame.ToggleMinimize()
	if got := h.frame.Geometry(); got != before {
		t.Fatalf("restored Geometry() = %+v, want %+v", got, before)
	}
	if !h.frame.ContentMounted() || h.content.mounts != 2 {
		t.Fatalf("expected content remounted after restore")
	}
}

func TestFrame_MinimizeWinsOverFullscreen(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.frame.ToggleFullscreen()
	h.frame.ToggleMinimize()
	if got := h.frame.Geometry(); got != (geometry.Rect{X: 20, Y: 1020, Width: 200, Height: 40}) {
		t.Fatalf("Geometry() = %+v, want minimized footprint", got)
	}
	h.frame.ToggleMinimize()
	if got := h.frame.Geometry(); got != (geometry.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("Geometry() = %+v, want fullscreen after restore", got)
	}
}

func TestFrame_MinimizeDisallowed(t *testing.T) {
	h := newHarness(t, Options{AllowDrag: true, AllowFullscreen: true})
	if h.frame.ToggleMinimize() || h.frame.State().Minimized {
		t.Fatalf("minimize must be disabled by options")
	}
	g := h.frame.Geometry()
	// Without a minimize button the fullscreen button sits where it would be.
	p := geometry.Point{X: g.Right() - 16 - 16 - 8 - 8, Y: g.Y + 20}
	if got := h.frame.HitTest(p); got != RegionFullscreenButton {
		t.Fatalf("HitTest() = %v, want fullscreen", got)
	}
}

func TestFrame_CloseFiresOnceAfterDelay(t *testing.T) {
	h := newHarness(t, DefaultOptions())

	if !h.frame.Close() {
		t.Fatalf("expected close to start")
	}
	if !h.frame.State().Closing {
		t.Fatalf("expected closing flag")
	}
	if h.frame.Close() {
		t.Fatalf("second close while closing must be ignored")
	}

	h.sched.Advance(299 * time.Millisecond)
	if h.closes != 0 {
		t.Fatalf("close callback fired before the delay")
	}
	h.sched.Advance(time.Millisecond)
	if h.closes != 1 {
		t.Fatalf("close callback fired %d times, want 1", h.closes)
	}
	if h.frame.State().Closing {
		t.Fatalf("closing flag should clear after the delay")
	}

	h.frame.Close()
	h.sched.Advance(time.Second)
	if h.closes != 1 {
		t.Fatalf("close callback fired %d times, want 1", h.closes)
	}
}

func TestFrame_UnmountCancelsPendingClose(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.frame.Close()
	h.frame.Unmount()
	h.sched.Advance(time.Second)
	if h.closes != 0 {
		t.Fatalf("close callback fired after unmount")
	}
	if h.sched.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", h.sched.Pending())
	}
}

func TestFrame_ClickRegions(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	g := h.frame.Geometry()
	y := g.Y + 20
	closeBtn := geometry.Point{X: g.Right() - 16 - 8, Y: y}
	minBtn := geometry.Point{X: closeBtn.X - 24, Y: y}
	fullBtn := geometry.Point{X: minBtn.X - 24, Y: y}

	if got := h.frame.Click(geometry.Point{X: g.X + 10, Y: g.Y + 100}); got != RegionContent {
		t.Fatalf("Click() = %v, want content", got)
	}
	if h.frame.State().Closing {
		t.Fatalf("content click must not close")
	}

	if got := h.frame.Click(fullBtn); got != RegionFullscreenButton || !h.frame.State().Fullscreen {
		t.Fatalf("fullscreen button: region %v, fullscreen %v", got, h.frame.State().Fullscreen)
	}
	h.frame.ToggleFullscreen()

	if got := h.frame.Click(minBtn); got != RegionMinimizeButton || !h.frame.State().Minimized {
		t.Fatalf("minimize button: region %v, minimized %v", got, h.frame.State().Minimized)
	}
	h.frame.ToggleMinimize()

	if got := h.frame.Click(closeBtn); got != RegionCloseButton || !h.frame.State().Closing {
		t.Fatalf("close button: region %v, closing %v", got, h.frame.State().Closing)
	}
}

func TestFrame_OutsideClickCloses(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	if got := h.frame.Click(geometry.Point{X: 5, Y: 5}); got != RegionOutside {
		t.Fatalf("Click() = %v, want outside", got)
	}
	h.sched.Advance(DefaultCloseDelay)
	if h.closes != 1 {
		t.Fatalf("closes = %d, want 1", h.closes)
	}
}

func TestStack_NextIsAboveEverything(t *testing.T) {
	s := NewStack(100)
	s.SetLayer("dock", 1000)

	first := s.Push("a")
	second := s.Push("b")
	if first != 1001 {
		t.Fatalf("first z = %d, want 1001", first)
	}
	if second <= first {
		t.Fatalf("second z %d must exceed first %d", second, first)
	}
	if top, _ := s.Top(); top != "b" {
		t.Fatalf("Top() = %q, want b", top)
	}

	s.Remove("b")
	if top, _ := s.Top(); top != "a" {
		t.Fatalf("Top() = %q, want a", top)
	}
}

func TestStack_BaseFloor(t *testing.T) {
	s := NewStack(100)
	if z := s.Push("a"); z != 100 {
		t.Fatalf("Push() = %d, want 100", z)
	}
}

func TestManualScheduler_StopPreventsFire(t *testing.T) {
	s := NewManualScheduler()
	fired := 0
	tm := s.AfterFunc(10*time.Millisecond, func() { fired++ })
	if !tm.Stop() {
		t.Fatalf("Stop() = false, want true")
	}
	s.Advance(time.Second)
	if fired != 0 {
		t.Fatalf("stopped timer fired")
	}
}
