// Package memo implements the memo mini-application: a persisted list of
// notes and the shell that edits them.
package memo

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/tabdock/internal/storage"
)

const (
	// StorageKey is the store key holding the note list.
	StorageKey = "memos"
	// TimeLayout is the persisted timestamp format (YYYY-MM-DD HH:mm:ss).
	TimeLayout = "2006-01-02 15:04:05"
	// DefaultTitle is given to notes created from the shell.
	DefaultTitle = "新建备忘录"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is a single memo.
type Note struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Date       string `json:"date"`
	LastEdited string `json:"lastEdited"`
}

// Notebook is the persisted note list. It is safe for concurrent use.
type Notebook struct {
	mu    sync.Mutex
	store storage.Store
	notes []Note
	now   func() time.Time
	newID func() string
}

// Option customizes a Notebook.
type Option func(*Notebook)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(n *Notebook) { n.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(newID func() string) Option {
	return func(n *Notebook) { n.newID = newID }
}

// NewNotebook loads the note list from store. A missing key yields an
// empty notebook.
func NewNotebook(store storage.Store, opts ...Option) (*Notebook, error) {
	n := &Notebook{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := n.Reload(); err != nil {
		return nil, err
	}
	return n, nil
}

// Reload replaces the in-memory list with the stored one.
func (n *Notebook) Reload() error {
	var notes []Note
	if err := n.store.Get(StorageKey, &notes); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to load memos: %w", err)
		}
		notes = nil
	}

	n.mu.Lock()
	n.notes = notes
	n.mu.Unlock()
	return nil
}

// List returns a copy of the notes in insertion order.
func (n *Notebook) List() []Note {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Note, len(n.notes))
	copy(out, n.notes)
	return out
}

// Len returns the number of notes.
func (n *Notebook) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}

// Get returns the note with the given id.
func (n *Notebook) Get(id string) (Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.index(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return n.notes[i], nil
}

// Add appends a note and persists the list. An empty title becomes
// DefaultTitle.
func (n *Notebook) Add(title, content string) (Note, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	stamp := n.now().Format(TimeLayout)
	note := Note{
		ID:         n.newID(),
		Title:      title,
		Content:    content,
		Date:       stamp,
		LastEdited: stamp,
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	next := append(n.cloneLocked(), note)
	if err := n.commitLocked(next); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Update rewrites a note's title and content and stamps its last-edited
// time.
func (n *Notebook) Update(id, title, content string) (Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.index(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	next := n.cloneLocked()
	next[i].Title = title
	next[i].Content = content
	next[i].LastEdited = n.now().Format(TimeLayout)
	if err := n.commitLocked(next); err != nil {
		return Note{}, err
	}
	return next[i], nil
}

// Delete removes a note and returns the index it occupied.
func (n *Notebook) Delete(id string) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.index(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	next := make([]Note, 0, len(n.notes)-1)
	next = append(next, n.notes[:i]...)
	next = append(next, n.notes[i+1:]...)
	if err := n.commitLocked(next); err != nil {
		return -1, err
	}
	return i, nil
}

// MostRecent returns the note edited last. Ties go to the later note in
// the list.
func (n *Notebook) MostRecent() (Note, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.notes) == 0 {
		return Note{}, false
	}
	best := n.notes[0]
	bestAt := parseStamp(best.LastEdited)
	for _, note := range n.notes[1:] {
		at := parseStamp(note.LastEdited)
		if !bestAt.After(at) {
			best, bestAt = note, at
		}
	}
	return best, true
}

func (n *Notebook) index(id string) int {
	for i, note := range n.notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}

func (n *Notebook) cloneLocked() []Note {
	out := make([]Note, len(n.notes), len(n.notes)+1)
	copy(out, n.notes)
	return out
}

func (n *Notebook) commitLocked(next []Note) error {
	if next == nil {
		next = []Note{}
	}
	if err := n.store.Put(StorageKey, next); err != nil {
		return fmt.Errorf("failed to save memos: %w", err)
	}
	n.notes = next
	return nil
}

func parseStamp(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
