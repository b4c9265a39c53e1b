package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events into one notification.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports keys changed on disk by someone other than the store.
type Watcher struct {
	store    *FileStore
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher starts watching the store directory. Events that arrive
// before Run is called are queued, not lost.
func (s *FileStore) NewWatcher(debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(s.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch storage directory: %w", err)
	}
	return &Watcher{store: s, fsw: fsw, debounce: debounce, logger: logger}, nil
}

// Run delivers changed keys to onChange until ctx is cancelled. onChange
// is called from the Run goroutine with keys sorted.
func (w *Watcher) Run(ctx context.Context, onChange func(keys []string)) {
	defer w.fsw.Close()

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			key := keyFromName(filepath.Base(event.Name))
			if key == "" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.store.external(key) {
				continue
			}
			w.logger.Debug("storage change detected", "key", key, "op", event.Op.String())
			pending[key] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("storage watcher error", "error", err)

		case <-fire:
			fire = nil
			if len(pending) == 0 {
				continue
			}
			keys := make([]string, 0, len(pending))
			for k := range pending {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			clear(pending)
			w.safeNotify(onChange, keys)
		}
	}
}

func (w *Watcher) safeNotify(onChange func([]string), keys []string) {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("storage watcher panic recovered", "error", err)
		}
	}()
	onChange(keys)
}

// Close stops watching without waiting for Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
