package window

import (
	"time"

	"github.com/1broseidon/tabdock/internal/geometry"
)

// ViewState is the set of view flags owned by a single frame.
type ViewState struct {
	Dragging   bool `json:"dragging"`
	Fullscreen bool `json:"fullscreen"`
	Minimized  bool `json:"minimized"`
	Closing    bool `json:"closing"`
}

// Content is the hosted plugin view. The frame mounts it while the frame is
// open and not minimized.
type Content interface {
	Mount()
	Unmount()
}

// Region identifies the part of a frame under a pointer.
type Region int

const (
	RegionOutside Region = iota
	RegionContent
	RegionHeader
	RegionFullscreenButton
	RegionMinimizeButton
	RegionCloseButton
)

func (r Region) String() string {
	switch r {
	case RegionOutside:
		return "outside"
	case RegionContent:
		return "content"
	case RegionHeader:
		return "header"
	case RegionFullscreenButton:
		return "fullscreen"
	case RegionMinimizeButton:
		return "minimize"
	case RegionCloseButton:
		return "close"
	default:
		return "unknown"
	}
}

// FrameConfig carries everything a frame needs from its owner.
type FrameConfig struct {
	ID         string
	Options    Options
	Z          int
	Viewport   ViewportFunc
	Listeners  ListenerRegistry
	Scheduler  Scheduler
	CloseDelay time.Duration
	Chrome     Chrome
	Content    Content
	// OnClose fires once, after the close delay has elapsed.
	OnClose func()
}

// Frame is a single floating panel. It is not safe for concurrent use; the
// owner serializes access.
type Frame struct {
	id         string
	opts       Options
	z          int
	viewport   ViewportFunc
	scheduler  Scheduler
	closeDelay time.Duration
	chrome     Chrome
	content    Content
	onClose    func()

	drag   *DragTracker
	full   *FullscreenToggler
	center CenteringPolicy

	minimized      bool
	closing        bool
	closed         bool
	mounted        bool
	contentMounted bool
	closeTimer     Timer
}

// NewFrame builds an unmounted frame. Missing dimensions fall back to the
// defaults.
func NewFrame(cfg FrameConfig) *Frame {
	opts := cfg.Options.Normalized()
	viewport := cfg.Viewport
	if viewport == nil {
		viewport = func() geometry.Size { return geometry.Size{} }
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = RealScheduler()
	}
	delay := cfg.CloseDelay
	if delay <= 0 {
		delay = DefaultCloseDelay
	}
	chrome := cfg.Chrome
	if chrome.HeaderHeight <= 0 {
		chrome = DefaultChrome()
	}

	f := &Frame{
		id:         cfg.ID,
		opts:       opts,
		z:          cfg.Z,
		viewport:   viewport,
		scheduler:  scheduler,
		closeDelay: delay,
		chrome:     chrome,
		content:    cfg.Content,
		onClose:    cfg.OnClose,
		center:     CenteringPolicy{Enabled: !opts.AllowDrag},
	}
	start := geometry.CenterIn(opts.Size(), viewport())
	f.drag = NewDragTracker(viewport, cfg.Listeners)
	f.drag.SetPosition(start)
	f.full = NewFullscreenToggler(opts.Size(), start)
	return f
}

// ID returns the frame identifier.
func (f *Frame) ID() string { return f.id }

// Z returns the z-order assigned at creation.
func (f *Frame) Z() int { return f.z }

// SetZ moves the frame to a new z-order, used when it is raised.
func (f *Frame) SetZ(z int) { f.z = z }

// Options returns the normalized window options.
func (f *Frame) Options() Options { return f.opts }

// Mounted reports whether the frame is open.
func (f *Frame) Mounted() bool { return f.mounted }

// ContentMounted reports whether the hosted content is currently mounted.
func (f *Frame) ContentMounted() bool { return f.contentMounted }

// State returns a copy of the view flags.
func (f *Frame) State() ViewState {
	return ViewState{
		Dragging:   f.drag.Dragging(),
		Fullscreen: f.full.Fullscreen(),
		Minimized:  f.minimized,
		Closing:    f.closing,
	}
}

// Mount opens the frame centered in the viewport and mounts its content.
func (f *Frame) Mount() {
	if f.mounted {
		return
	}
	f.mounted = true
	f.drag.SetPosition(geometry.CenterIn(f.opts.Size(), f.viewport()))
	f.applyCentering()
	f.mountContent()
}

// Unmount tears the frame down: pending close timers are stopped, an active
// drag is released and content is unmounted. The close callback does not
// fire.
func (f *Frame) Unmount() {
	if !f.mounted {
		return
	}
	f.mounted = false
	f.drag.EndDrag()
	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
	f.closing = false
	f.unmountContent()
}

// Geometry returns the rendered geometry. Minimized wins over fullscreen,
// which wins over the tracked position.
func (f *Frame) Geometry() geometry.Rect {
	switch {
	case f.minimized:
		return f.chrome.MinimizedRect(f.viewport())
	case f.full.Fullscreen():
		return f.full.Geometry()
	default:
		return geometry.RectFrom(f.drag.Position(), f.full.Size())
	}
}

// HitTest reports which part of the frame lies under p.
func (f *Frame) HitTest(p geometry.Point) Region {
	r := f.Geometry()
	if !r.Contains(p) {
		return RegionOutside
	}
	if p.Y >= r.Y+f.chrome.HeaderHeight {
		return RegionContent
	}
	for _, b := range f.buttons(r) {
		if b.rect.Contains(p) {
			return b.region
		}
	}
	return RegionHeader
}

type button struct {
	region Region
	rect   geometry.Rect
}

// buttons lays out the header controls right to left: close, minimize,
// fullscreen. Disallowed controls are not rendered.
func (f *Frame) buttons(r geometry.Rect) []button {
	size := f.chrome.ButtonSize
	y := r.Y + (f.chrome.HeaderHeight-size)/2
	x := r.Right() - f.chrome.ButtonInset - size

	out := []button{{region: RegionCloseButton, rect: geometry.Rect{X: x, Y: y, Width: size, Height: size}}}
	if f.opts.AllowMinimize {
		x -= f.chrome.ButtonGap + size
		out = append(out, button{region: RegionMinimizeButton, rect: geometry.Rect{X: x, Y: y, Width: size, Height: size}})
	}
	if f.opts.AllowFullscreen {
		x -= f.chrome.ButtonGap + size
		out = append(out, button{region: RegionFullscreenButton, rect: geometry.Rect{X: x, Y: y, Width: size, Height: size}})
	}
	return out
}

// BeginHeaderDrag starts dragging from a pointer-down on the header. It
// returns false when dragging is not allowed in the current state.
func (f *Frame) BeginHeaderDrag(p geometry.Point) bool {
	if !f.mounted || !f.opts.AllowDrag || f.full.Fullscreen() || f.minimized {
		return false
	}
	f.drag.BeginDrag(p, f.Geometry())
	return f.drag.Dragging()
}

// PointerMove feeds a pointer move to the drag tracker. Owners that route
// global pointer events through a ListenerRegistry do not need it.
func (f *Frame) PointerMove(p geometry.Point) {
	f.drag.PointerMove(p)
}

// PointerUp ends an active drag.
func (f *Frame) PointerUp(p geometry.Point) {
	f.drag.PointerUp(p)
}

// HeaderDoubleClick toggles fullscreen.
func (f *Frame) HeaderDoubleClick() bool {
	return f.ToggleFullscreen()
}

// ToggleFullscreen switches between normal and fullscreen geometry. It is a
// no-op while minimized or when fullscreen is not allowed.
func (f *Frame) ToggleFullscreen() bool {
	if !f.mounted || !f.opts.AllowFullscreen || f.minimized {
		return false
	}
	f.drag.EndDrag()
	f.full.Toggle(f.viewport())
	return true
}

// ToggleMinimize collapses the frame to its compact footprint or restores
// it. Content is unmounted while minimized.
func (f *Frame) ToggleMinimize() bool {
	if !f.mounted || !f.opts.AllowMinimize {
		return false
	}
	f.minimized = !f.minimized
	if f.minimized {
		f.drag.EndDrag()
		f.unmountContent()
		return true
	}
	f.applyCentering()
	f.mountContent()
	return true
}

// Close starts the close sequence. The close callback fires once the close
// delay has elapsed. Requests made while already closing are ignored.
func (f *Frame) Close() bool {
	if !f.mounted || f.closing || f.closed {
		return false
	}
	f.closing = true
	f.drag.EndDrag()
	f.closeTimer = f.scheduler.AfterFunc(f.closeDelay, f.finishClose)
	return true
}

func (f *Frame) finishClose() {
	if !f.closing {
		return
	}
	f.closing = false
	f.closeTimer = nil
	f.closed = true
	if f.onClose != nil {
		f.onClose()
	}
}

// Click handles a click at p on the frame's overlay and returns the region
// that was hit. Control buttons act, and clicks outside the panel close it.
func (f *Frame) Click(p geometry.Point) Region {
	region := f.HitTest(p)
	switch region {
	case RegionFullscreenButton:
		f.ToggleFullscreen()
	case RegionMinimizeButton:
		f.ToggleMinimize()
	case RegionCloseButton, RegionOutside:
		f.Close()
	}
	return region
}

// ViewportResized re-applies the viewport dependent policies.
func (f *Frame) ViewportResized() {
	if !f.mounted {
		return
	}
	f.full.Fit(f.viewport())
	f.applyCentering()
}

func (f *Frame) applyCentering() {
	if p, ok := f.center.Apply(f.opts.Size(), f.viewport(), f.minimized); ok {
		f.drag.SetPosition(p)
	}
}

func (f *Frame) mountContent() {
	if f.content == nil || f.contentMounted || !f.mounted || f.minimized {
		return
	}
	f.content.Mount()
	f.contentMounted = true
}

func (f *Frame) unmountContent() {
	if f.content == nil || !f.contentMounted {
		return
	}
	f.content.Unmount()
	f.contentMounted = false
}
