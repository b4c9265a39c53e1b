package sites

import (
	"fmt"

	"github.com/1broseidon/tabdock/internal/actionlog"
	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/window"
)

// PluginID is the dock id of the bookmarks plugin.
const PluginID = "bookmarks"

// WindowOptions returns the frame options the bookmarks plugin opens with.
func WindowOptions() window.Options {
	opts := window.DefaultOptions()
	opts.Title = "书签"
	opts.Width = 640
	opts.Height = 480
	return opts
}

// Shell lists bookmarks with a cursor.
type Shell struct {
	plugin.MountState

	list   *List
	log    *actionlog.Logger
	cursor int
}

var _ plugin.Shell = (*Shell)(nil)

// NewShell creates a shell over list.
func NewShell(list *List, log *actionlog.Logger) *Shell {
	return &Shell{list: list, log: log}
}

// Open resets the cursor to the first site.
func (s *Shell) Open() error {
	s.cursor = 0
	return nil
}

// Close has nothing to flush; every change is committed as it happens.
func (s *Shell) Close() error {
	return nil
}

// Cursor returns the highlighted site.
func (s *Shell) Cursor() (Site, bool) {
	all := s.list.All()
	if len(all) == 0 {
		return Site{}, false
	}
	return all[min(s.cursor, len(all)-1)], true
}

// Move shifts the cursor by delta, clamped to the list.
func (s *Shell) Move(delta int) {
	n := len(s.list.All())
	if n == 0 {
		s.cursor = 0
		return
	}
	s.cursor = max(0, min(n-1, s.cursor+delta))
}

// Add appends a site and moves the cursor to it.
func (s *Shell) Add(rawURL, title string) (Site, error) {
	site, err := s.list.Add(rawURL, title, "")
	if err != nil {
		return Site{}, err
	}
	s.log.Log(actionlog.ActionSiteAdd, site.ID, map[string]any{"url": site.URL})
	s.cursor = len(s.list.All()) - 1
	return site, nil
}

// Delete removes the highlighted site.
func (s *Shell) Delete() error {
	site, ok := s.Cursor()
	if !ok {
		return fmt.Errorf("no site selected")
	}
	if _, err := s.list.Delete(site.ID); err != nil {
		return err
	}
	s.log.Log(actionlog.ActionSiteDelete, site.ID, nil)
	s.Move(0)
	return nil
}

// Render draws the site list.
func (s *Shell) Render(width, height int) []string {
	if !s.Mounted() {
		return nil
	}
	all := s.list.All()
	if len(all) == 0 {
		return plugin.Fit([]string{"(no bookmarks)"}, width, height)
	}
	lines := make([]string, 0, len(all))
	for i, site := range all {
		marker := "  "
		if i == s.cursor {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s", marker, site.Title, site.URL))
	}
	return plugin.Fit(lines, width, height)
}
