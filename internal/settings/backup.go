package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/1broseidon/tabdock/internal/storage"
)

// BackupVersion is the current backup document version.
const BackupVersion = 1

// Backup is a snapshot of every stored key.
type Backup struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Data      map[string]json.RawMessage `json:"data"`
}

// Keys returns the stored keys in sorted order.
func (b *Backup) Keys() []string {
	keys := make([]string, 0, len(b.Data))
	for k := range b.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BackupFileName returns backup-<RFC3339 UTC>.json.
func BackupFileName(t time.Time) string {
	return "backup-" + t.UTC().Format(time.RFC3339) + ".json"
}

// Export collects every key in store.
func Export(store storage.Store, now time.Time) (*Backup, error) {
	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}
	b := &Backup{Version: BackupVersion, CreatedAt: now.UTC(), Data: make(map[string]json.RawMessage, len(keys))}
	for _, k := range keys {
		raw, err := store.GetRaw(k)
		if err != nil {
			return nil, fmt.Errorf("failed to export %q: %w", k, err)
		}
		b.Data[k] = raw
	}
	return b, nil
}

// WriteBackup exports store into dir and returns the written path.
func WriteBackup(store storage.Store, dir string, now time.Time) (string, error) {
	b, err := Export(store, now)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	path := filepath.Join(dir, BackupFileName(now))
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// ParseBackup decodes and validates a backup document.
func ParseBackup(data []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if b.Version < 1 || b.Version > BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %d", b.Version)
	}
	for k, raw := range b.Data {
		if err := storage.ValidateKey(k); err != nil {
			return nil, err
		}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("backup entry %q is not valid JSON", k)
		}
	}
	if raw, ok := b.Data[StorageKey]; ok {
		state := Defaults()
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, fmt.Errorf("backup settings: %w", err)
		}
		if err := state.Validate(); err != nil {
			return nil, fmt.Errorf("backup settings: %w", err)
		}
	}
	return &b, nil
}

// Import writes every key of b into store and returns the keys written.
func Import(store storage.Store, b *Backup) ([]string, error) {
	keys := b.Keys()
	for _, k := range keys {
		if err := store.PutRaw(k, b.Data[k]); err != nil {
			return nil, fmt.Errorf("failed to import %q: %w", k, err)
		}
	}
	return keys, nil
}

// ImportFile reads a backup file and imports it.
func ImportFile(store storage.Store, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	b, err := ParseBackup(data)
	if err != nil {
		return nil, err
	}
	return Import(store, b)
}
