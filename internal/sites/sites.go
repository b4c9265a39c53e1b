// Package sites implements the bookmarks mini-application backed by the
// navigation site list.
package sites

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/1broseidon/tabdock/internal/storage"
)

// StorageKey is the store key holding the site list.
const StorageKey = "siteList"

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrInvalidURL   = errors.New("invalid site url")
)

// Site is one navigation entry.
type Site struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	IconBase64 string `json:"iconBase64"`
}

// List is the persisted site list. It is safe for concurrent use.
type List struct {
	mu    sync.Mutex
	store storage.Store
	sites []Site
	newID func() string
}

// NewList loads the site list from store.
func NewList(store storage.Store) (*List, error) {
	l := &List{store: store, newID: uuid.NewString}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory list with the stored one.
func (l *List) Reload() error {
	var sites []Site
	if err := l.store.Get(StorageKey, &sites); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to load sites: %w", err)
		}
		sites = nil
	}
	l.mu.Lock()
	l.sites = sites
	l.mu.Unlock()
	return nil
}

// All returns a copy of the sites in display order.
func (l *List) All() []Site {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Site, len(l.sites))
	copy(out, l.sites)
	return out
}

// Get returns the site with the given id.
func (l *List) Get(id string) (Site, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return Site{}, fmt.Errorf("%w: %s", ErrSiteNotFound, id)
	}
	return l.sites[i], nil
}

// NormalizeURL validates raw and adds an https scheme when none is given.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}

// Add appends a site. An empty title falls back to the URL host.
func (l *List) Add(rawURL, title, icon string) (Site, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return Site{}, err
	}
	if strings.TrimSpace(title) == "" {
		parsed, _ := url.Parse(u)
		title = parsed.Host
	}
	site := Site{ID: l.newID(), URL: u, Title: title, IconBase64: icon}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := append(l.clone(), site)
	if err := l.commit(next); err != nil {
		return Site{}, err
	}
	return site, nil
}

// Update edits a site's url and title. The icon is kept unless icon is
// non-empty.
func (l *List) Update(id, rawURL, title, icon string) (Site, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return Site{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return Site{}, fmt.Errorf("%w: %s", ErrSiteNotFound, id)
	}
	next := l.clone()
	next[i].URL = u
	if strings.TrimSpace(title) != "" {
		next[i].Title = title
	}
	if icon != "" {
		next[i].IconBase64 = icon
	}
	if err := l.commit(next); err != nil {
		return Site{}, err
	}
	return next[i], nil
}

// Delete removes a site and returns the index it occupied.
func (l *List) Delete(id string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrSiteNotFound, id)
	}
	next := make([]Site, 0, len(l.sites)-1)
	next = append(next, l.sites[:i]...)
	next = append(next, l.sites[i+1:]...)
	if err := l.commit(next); err != nil {
		return -1, err
	}
	return i, nil
}

func (l *List) index(id string) int {
	for i, s := range l.sites {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) clone() []Site {
	out := make([]Site, len(l.sites), len(l.sites)+1)
	copy(out, l.sites)
	return out
}

func (l *List) commit(next []Site) error {
	if next == nil {
		next = []Site{}
	}
	if err := l.store.Put(StorageKey, next); err != nil {
		return fmt.Errorf("failed to save sites: %w", err)
	}
	l.sites = next
	return nil
}
