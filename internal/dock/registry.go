// Package dock holds the static plugin registry shown as launcher icons and
// the magnification curve applied under the pointer.
package dock

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/window"
)

var (
	ErrPluginNotFound    = errors.New("plugin not found")
	ErrPluginUnavailable = errors.New("plugin has no launchable view")
)

// Entry describes one launcher icon. Component builds the hosted shell;
// entries without a component are listed but cannot be opened.
type Entry struct {
	ID        string
	Title     string
	Icon      string
	Window    window.Options
	Component func() plugin.Shell
}

// Launchable reports whether the entry can be opened.
func (e Entry) Launchable() bool {
	return e.Component != nil
}

// Registry is the process-wide, read-only list of entries.
type Registry struct {
	entries []Entry
	byID    map[string]int
}

// NewRegistry builds a registry. Duplicate ids are rejected.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("dock entry %q has no id", e.Title)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate dock entry %q", e.ID)
		}
		if e.Window.Title == "" {
			e.Window.Title = e.Title
		}
		r.byID[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// Entries returns the entries in dock order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry with the given id.
func (r *Registry) Lookup(id string) (Entry, error) {
	i, ok := r.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrPluginNotFound, id)
	}
	return r.entries[i], nil
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Reorder returns the entry ids sorted by order, with unnamed entries kept
// at the end in their original order. Unknown ids in order are ignored.
func (r *Registry) Reorder(order []string) *Registry {
	if len(order) == 0 {
		return r
	}
	seen := make(map[string]bool, len(order))
	var sorted []Entry
	for _, id := range order {
		i, ok := r.byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		sorted = append(sorted, r.entries[i])
	}
	for _, e := range r.entries {
		if !seen[e.ID] {
			sorted = append(sorted, e)
		}
	}
	out, _ := NewRegistry(sorted...)
	return out
}
