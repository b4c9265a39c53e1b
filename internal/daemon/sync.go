package daemon

import (
	"context"
	"log/slog"
	"strings"
)

// Reloader re-reads the services backed by the given storage keys.
type Reloader interface {
	Reload(keys []string) error
}

// ChangeSource delivers batches of changed storage keys until ctx ends.
type ChangeSource interface {
	Run(ctx context.Context, onChange func(keys []string))
}

// StateSynchronizer reloads in-memory state when another process edits
// the data directory.
type StateSynchronizer struct {
	reloader Reloader
	logger   *slog.Logger
}

// NewStateSynchronizer creates a new state synchronizer.
func NewStateSynchronizer(reloader Reloader, logger *slog.Logger) *StateSynchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateSynchronizer{
		reloader: reloader,
		logger:   logger,
	}
}

// HandleChange is called with the keys that changed on disk.
func (s *StateSynchronizer) HandleChange(keys []string) {
	if len(keys) == 0 {
		return
	}
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("store sync panic recovered", "error", err)
		}
	}()

	s.logger.Info("store changed on disk, reloading", "keys", strings.Join(keys, ","))
	if err := s.reloader.Reload(keys); err != nil {
		s.logger.Warn("failed to reload changed keys", "keys", strings.Join(keys, ","), "error", err)
	}
}

// Run feeds changes from src into HandleChange. Blocks until ctx is cancelled.
func (s *StateSynchronizer) Run(ctx context.Context, src ChangeSource) {
	s.logger.Info("store sync started")
	src.Run(ctx, s.HandleChange)
	s.logger.Info("store sync stopped")
}
