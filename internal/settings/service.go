package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/tabdock/internal/actionlog"
	"github.com/1broseidon/tabdock/internal/storage"
)

// StorageKey is the store key holding the settings document.
const StorageKey = "setting"

// Service owns the persisted settings. It is safe for concurrent use.
type Service struct {
	mu    sync.Mutex
	store storage.Store
	state State
	log   *actionlog.Logger
}

// NewService loads settings from store, falling back to Defaults for a
// missing document or missing fields.
func NewService(store storage.Store, log *actionlog.Logger) (*Service, error) {
	s := &Service{store: store, state: Defaults(), log: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the stored document.
func (s *Service) Reload() error {
	state, err := load(s.store)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

func load(store storage.Store) (State, error) {
	state := Defaults()
	raw, err := store.GetRaw(StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return state, nil
		}
		return State{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := state.Validate(); err != nil {
		return State{}, fmt.Errorf("invalid stored settings: %w", err)
	}
	return state, nil
}

// State returns a copy of the current settings.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update applies one field change and persists the result.
func (s *Service) Update(part, key string, value any) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := next.UpdateItem(part, key, value); err != nil {
		return State{}, err
	}
	if err := s.store.Put(StorageKey, next); err != nil {
		return State{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.state = next
	s.log.Log(actionlog.ActionSettingUpdate, part+"."+key, map[string]any{"value": fmt.Sprint(value)})
	return next.Clone(), nil
}

// Reset restores the defaults.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := Defaults()
	if err := s.store.Put(StorageKey, def); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.state = def
	return nil
}

// SearchURL builds a result URL with the current engine.
func (s *Service) SearchURL(query string) (string, error) {
	return s.State().SearchURL(query)
}
