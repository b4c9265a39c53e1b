// Package desktop is the application-state container: it owns the
// viewport, the open window frames and their z-order, the plugin shells and
// the global pointer listener set, and turns named input events into frame
// transitions.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/tabdock/internal/actionlog"
	"github.com/1broseidon/tabdock/internal/dock"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/window"
)

// DockLayer is the stacking name of the dock bar.
const DockLayer = "dock"

var ErrWindowNotFound = errors.New("window not found")

// Config configures a Desktop.
type Config struct {
	Viewport   geometry.Size
	Chrome     window.Chrome
	CloseDelay time.Duration
	ZBase      int
	DockZ      int
	DockLayout dock.Layout
	Registry   *dock.Registry
	// Overrides replaces registry window options per plugin id.
	Overrides map[string]window.Options
	Scheduler window.Scheduler
	Logger    *slog.Logger
	Actions   *actionlog.Logger
}

// WindowInfo is a read-only snapshot of an open frame.
type WindowInfo struct {
	ID             string           `json:"id"`
	PluginID       string           `json:"plugin_id"`
	Title          string           `json:"title"`
	Z              int              `json:"z"`
	Geometry       geometry.Rect    `json:"geometry"`
	State          window.ViewState `json:"state"`
	Options        window.Options   `json:"options"`
	ContentMounted bool             `json:"content_mounted"`
}

type openWindow struct {
	frame    *window.Frame
	pluginID string
	shell    plugin.Shell
}

// Desktop serializes every transition under one mutex, including the close
// delay callbacks scheduled by frames.
type Desktop struct {
	mu sync.Mutex

	viewport   geometry.Size
	chrome     window.Chrome
	closeDelay time.Duration
	dockLayout dock.Layout
	registry   *dock.Registry
	overrides  map[string]window.Options
	scheduler  window.Scheduler
	logger     *slog.Logger
	actions    *actionlog.Logger

	stack      *window.Stack
	windows    map[string]*openWindow
	byPlugin   map[string]string
	shells     map[string]plugin.Shell
	containers []string
	listeners  []window.PointerListener
	seq        int
	closed     bool
}

// New creates an empty desktop.
func New(cfg Config) (*Desktop, error) {
	if !cfg.Viewport.Valid() {
		return nil, fmt.Errorf("invalid viewport %gx%g", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	registry := cfg.Registry
	if registry == nil {
		var err error
		registry, err = dock.NewRegistry()
		if err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = window.RealScheduler()
	}
	chrome := cfg.Chrome
	if chrome.HeaderHeight <= 0 {
		chrome = window.DefaultChrome()
	}
	layout := cfg.DockLayout
	if layout.IconSize <= 0 {
		layout = dock.DefaultLayout()
	}
	dockZ := cfg.DockZ
	if dockZ <= 0 {
		dockZ = 1000
	}

	d := &Desktop{
		viewport:   cfg.Viewport,
		chrome:     chrome,
		closeDelay: cfg.CloseDelay,
		dockLayout: layout,
		registry:   registry,
		overrides:  cfg.Overrides,
		logger:     logger,
		actions:    cfg.Actions,
		stack:      window.NewStack(cfg.ZBase),
		windows:    make(map[string]*openWindow),
		byPlugin:   make(map[string]string),
		shells:     make(map[string]plugin.Shell),
	}
	d.stack.SetLayer(DockLayer, dockZ)
	d.scheduler = d.lockedScheduler(scheduler)
	return d, nil
}

// lockedScheduler runs frame timer callbacks under the desktop mutex.
func (d *Desktop) lockedScheduler(inner window.Scheduler) window.Scheduler {
	return window.SchedulerFunc(func(delay time.Duration, f func()) window.Timer {
		return inner.AfterFunc(delay, func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if d.closed {
				return
			}
			f()
		})
	})
}

// Registry returns the dock registry.
func (d *Desktop) Registry() *dock.Registry {
	return d.registry
}

// Viewport returns the current viewport size.
func (d *Desktop) Viewport() geometry.Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

func (d *Desktop) viewportLocked() geometry.Size {
	return d.viewport
}

// Attach registers a global pointer listener. The caller holds d.mu.
func (d *Desktop) Attach(l window.PointerListener) {
	for _, cur := range d.listeners {
		if cur == l {
			return
		}
	}
	d.listeners = append(d.listeners, l)
}

// Detach removes a global pointer listener. The caller holds d.mu.
func (d *Desktop) Detach(l window.PointerListener) {
	for i, cur := range d.listeners {
		if cur == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of attached pointer listeners.
func (d *Desktop) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Containers returns the ids of mounted window containers in mount order.
func (d *Desktop) Containers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.containers...)
}

// OpenPlugin opens the window of a registered plugin. Opening a plugin
// that is already open raises the existing window above every other one.
func (d *Desktop) OpenPlugin(pluginID string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openPluginLocked(pluginID)
}

func (d *Desktop) openPluginLocked(pluginID string) (WindowInfo, error) {
	if d.closed {
		return WindowInfo{}, fmt.Errorf("desktop is shut down")
	}
	if id, ok := d.byPlugin[pluginID]; ok {
		w := d.windows[id]
		if top, ok := d.topLocked(); !ok || top != w {
			w.frame.SetZ(d.stack.Push(id))
			d.logger.Debug("window raised", "window", id, "z", w.frame.Z())
		}
		return d.infoLocked(w), nil
	}
	entry, err := d.registry.Lookup(pluginID)
	if err != nil {
		return WindowInfo{}, err
	}
	if !entry.Launchable() {
		return WindowInfo{}, fmt.Errorf("%w: %s", dock.ErrPluginUnavailable, pluginID)
	}

	shell, ok := d.shells[pluginID]
	if !ok {
		shell = entry.Component()
		d.shells[pluginID] = shell
	}
	if err := shell.Open(); err != nil {
		return WindowInfo{}, fmt.Errorf("failed to open %s: %w", pluginID, err)
	}

	opts := entry.Window
	if o, ok := d.overrides[pluginID]; ok {
		if o.Title == "" {
			o.Title = opts.Title
		}
		opts = o
	}

	d.seq++
	id := fmt.Sprintf("%s-%d", pluginID, d.seq)
	w := &openWindow{pluginID: pluginID, shell: shell}
	w.frame = window.NewFrame(window.FrameConfig{
		ID:         id,
		Options:    opts,
		Z:          d.stack.Push(id),
		Viewport:   d.viewportLocked,
		Listeners:  d,
		Scheduler:  d.scheduler,
		CloseDelay: d.closeDelay,
		Chrome:     d.chrome,
		Content:    shell,
		OnClose:    func() { d.finishCloseLocked(id) },
	})
	d.windows[id] = w
	d.byPlugin[pluginID] = id
	d.containers = append(d.containers, id)
	w.frame.Mount()

	info := d.infoLocked(w)
	d.logger.Info("window opened", "window", id, "plugin", pluginID, "z", info.Z)
	d.actions.Log(actionlog.ActionOpen, id, map[string]any{"plugin": pluginID, "z": info.Z})
	return info, nil
}

// finishCloseLocked runs from the frame's close callback, under d.mu.
func (d *Desktop) finishCloseLocked(id string) {
	w, ok := d.windows[id]
	if !ok {
		return
	}
	if err := w.shell.Close(); err != nil {
		d.logger.Warn("plugin close failed", "window", id, "plugin", w.pluginID, "error", err)
	}
	d.removeLocked(id)
	d.logger.Info("window closed", "window", id, "plugin", w.pluginID)
	d.actions.Log(actionlog.ActionClose, id, map[string]any{"plugin": w.pluginID})
}

func (d *Desktop) removeLocked(id string) {
	w, ok := d.windows[id]
	if !ok {
		return
	}
	w.frame.Unmount()
	delete(d.windows, id)
	if d.byPlugin[w.pluginID] == id {
		delete(d.byPlugin, w.pluginID)
	}
	d.stack.Remove(id)
	for i, c := range d.containers {
		if c == id {
			d.containers = append(d.containers[:i], d.containers[i+1:]...)
			break
		}
	}
}

// CloseWindow starts the close sequence of a window.
func (d *Desktop) CloseWindow(id string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.lookupLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	w.frame.Close()
	return d.infoLocked(w), nil
}

// ToggleFullscreen toggles a window's fullscreen state.
func (d *Desktop) ToggleFullscreen(id string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.lookupLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	if w.frame.ToggleFullscreen() {
		d.actions.Log(actionlog.ActionFullscreen, id, map[string]any{"fullscreen": w.frame.State().Fullscreen})
	}
	return d.infoLocked(w), nil
}

// ToggleMinimize toggles a window's minimized state.
func (d *Desktop) ToggleMinimize(id string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.lookupLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	if w.frame.ToggleMinimize() {
		d.actions.Log(actionlog.ActionMinimize, id, map[string]any{"minimized": w.frame.State().Minimized})
	}
	return d.infoLocked(w), nil
}

// Window returns a snapshot of one window.
func (d *Desktop) Window(id string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.lookupLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	return d.infoLocked(w), nil
}

// WindowForPlugin returns the open window of a plugin.
func (d *Desktop) WindowForPlugin(pluginID string) (WindowInfo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.byPlugin[pluginID]
	if !ok {
		return WindowInfo{}, false
	}
	return d.infoLocked(d.windows[id]), true
}

// Windows returns every open window, topmost first.
func (d *Desktop) Windows() []WindowInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := d.stack.Ordered()
	out := make([]WindowInfo, 0, len(ids))
	for _, id := range ids {
		if w, ok := d.windows[id]; ok {
			out = append(out, d.infoLocked(w))
		}
	}
	return out
}

// WithShell runs fn with the shell of pluginID under the desktop lock. The
// shell is created if the plugin was never opened.
func (d *Desktop) WithShell(pluginID string, fn func(plugin.Shell) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	shell, ok := d.shells[pluginID]
	if !ok {
		entry, err := d.registry.Lookup(pluginID)
		if err != nil {
			return err
		}
		if !entry.Launchable() {
			return fmt.Errorf("%w: %s", dock.ErrPluginUnavailable, pluginID)
		}
		shell = entry.Component()
		d.shells[pluginID] = shell
	}
	return fn(shell)
}

// Render returns the content lines of a window's shell.
func (d *Desktop) Render(id string, width, height int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return w.shell.Render(width, height), nil
}

// Shutdown unmounts every window without firing close callbacks and stops
// pending timers.
func (d *Desktop) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range d.stack.Ordered() {
		if w, ok := d.windows[id]; ok {
			if err := w.shell.Close(); err != nil {
				d.logger.Warn("plugin close failed", "window", id, "error", err)
			}
		}
		d.removeLocked(id)
	}
	d.listeners = nil
	d.closed = true
}

func (d *Desktop) lookupLocked(id string) (*openWindow, error) {
	w, ok := d.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	return w, nil
}

func (d *Desktop) infoLocked(w *openWindow) WindowInfo {
	return WindowInfo{
		ID:             w.frame.ID(),
		PluginID:       w.pluginID,
		Title:          w.frame.Options().Title,
		Z:              w.frame.Z(),
		Geometry:       w.frame.Geometry(),
		State:          w.frame.State(),
		Options:        w.frame.Options(),
		ContentMounted: w.frame.ContentMounted(),
	}
}

func (d *Desktop) topLocked() (*openWindow, bool) {
	for _, id := range d.stack.Ordered() {
		if w, ok := d.windows[id]; ok {
			return w, true
		}
	}
	return nil, false
}
