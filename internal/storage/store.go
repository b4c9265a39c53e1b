// Package storage is the key-value persistence boundary used by plugin
// shells. Each key is one indented JSON document on disk.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a key-value document store.
type Store interface {
	Get(key string, v any) error
	Put(key string, v any) error
	Delete(key string) error
	Keys() ([]string, error)
	GetRaw(key string) (json.RawMessage, error)
	PutRaw(key string, data json.RawMessage) error
}

// FileStore keeps one <key>.json file per key in a directory.
type FileStore struct {
	dir string

	mu sync.Mutex
	// written remembers the digest of the last write (or "" for a delete)
	// per key so that watchers can tell our own writes from external ones.
	written map[string]string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{dir: dir, written: make(map[string]string)}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// ValidateKey rejects keys that are empty or could escape the directory.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key is required")
	}
	if strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	if strings.HasPrefix(key, ".") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get decodes the document stored under key into v.
func (s *FileStore) Get(key string, v any) error {
	data, err := s.GetRaw(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %q: %w", key, err)
	}
	return nil
}

// GetRaw returns the stored JSON for key.
func (s *FileStore) GetRaw(key string) (json.RawMessage, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return json.RawMessage(data), nil
}

// Put encodes v as indented JSON under key.
func (s *FileStore) Put(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.write(key, append(data, '\n'))
}

// PutRaw stores already encoded JSON under key.
func (s *FileStore) PutRaw(key string, data json.RawMessage) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON for %q", key)
	}
	return s.write(key, append([]byte(nil), data...))
}

func (s *FileStore) write(key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	s.written[key] = digest(data)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		delete(s.written, key)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.written[key] = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list storage keys: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if key := keyFromName(entry.Name()); key != "" {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

// keyFromName maps a file name to its key, or "" for files that are not
// documents (temp files, other extensions).
func keyFromName(name string) string {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return ""
	}
	key := strings.TrimSuffix(name, ".json")
	if ValidateKey(key) != nil {
		return ""
	}
	return key
}

// external reports whether the current on-disk state of key differs from
// what this store last wrote.
func (s *FileStore) external(key string) bool {
	s.mu.Lock()
	last, ok := s.written[key]
	s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if err != nil {
		// Gone: external unless we deleted it.
		return !ok || last != ""
	}
	return !ok || last != digest(data)
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
