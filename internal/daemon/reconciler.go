package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/tabdock/internal/geometry"
)

// ViewportFunc reads the current viewport size from the display.
type ViewportFunc func() (geometry.Size, error)

// ViewportSink receives viewport changes. It reports whether the size
// was applied.
type ViewportSink interface {
	SetViewport(size geometry.Size) bool
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically polls the display and resizes the desktop when
// the viewport drifts.
type Reconciler struct {
	mu       sync.Mutex
	interval time.Duration
	read     ViewportFunc
	sink     ViewportSink
	logger   *slog.Logger
	last     geometry.Size
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, read ViewportFunc, sink ViewportSink) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		read:     read,
		sink:     sink,
		logger:   logger,
	}
}

// SetInterval changes the poll interval. It takes effect after the next tick.
func (r *Reconciler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.interval = d
	r.mu.Unlock()
}

func (r *Reconciler) currentInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	interval := r.currentInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
			if next := r.currentInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
				r.logger.Info("reconciler interval changed", "interval", interval)
			}
		}
	}
}

// reconcile performs a single pass and reports whether the desktop was resized.
func (r *Reconciler) reconcile() (changed bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
			changed = false
		}
	}()

	size, err := r.read()
	if err != nil {
		r.logger.Warn("reconciler: failed to read viewport", "error", err)
		return false
	}

	r.mu.Lock()
	same := size == r.last
	r.last = size
	r.mu.Unlock()
	if same {
		return false
	}

	if !r.sink.SetViewport(size) {
		return false
	}
	r.logger.Info("viewport changed", "width", size.Width, "height", size.Height)
	return true
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() bool {
	return r.reconcile()
}
