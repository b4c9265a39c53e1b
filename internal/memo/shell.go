package memo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/tabdock/internal/actionlog"
	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/window"
)

// PluginID is the dock id of the memo plugin.
const PluginID = "memo"

// WindowOptions returns the frame options the memo plugin opens with.
func WindowOptions() window.Options {
	opts := window.DefaultOptions()
	opts.Title = "备忘录"
	opts.AllowDrag = false
	opts.AllowFullscreen = true
	opts.AllowMinimize = false
	return opts
}

// Shell is the memo editor: a note list on the left and the selected
// note's title and content on the right.
type Shell struct {
	plugin.MountState

	book *Notebook
	log  *actionlog.Logger

	selected string
	title    string
	content  string
	dirty    bool
}

var _ plugin.Shell = (*Shell)(nil)

// NewShell creates a shell editing book.
func NewShell(book *Notebook, log *actionlog.Logger) *Shell {
	return &Shell{book: book, log: log}
}

// Open selects the most recently edited note.
func (s *Shell) Open() error {
	if note, ok := s.book.MostRecent(); ok {
		s.load(note)
	}
	return nil
}

// Close saves unsaved form changes and clears the form.
func (s *Shell) Close() error {
	err := s.flush()
	s.reset()
	return err
}

// Refresh re-reads the selected note after the notebook changed outside
// the shell. Unsaved form changes are kept. A selected note that no longer
// exists is replaced by the most recently edited one.
func (s *Shell) Refresh() {
	if s.selected == "" {
		return
	}
	if note, err := s.book.Get(s.selected); err == nil {
		if !s.dirty {
			s.load(note)
		}
		return
	}
	if note, ok := s.book.MostRecent(); ok {
		s.load(note)
		return
	}
	s.reset()
}

// Selected returns the note being edited.
func (s *Shell) Selected() (Note, bool) {
	if s.selected == "" {
		return Note{}, false
	}
	note, err := s.book.Get(s.selected)
	if err != nil {
		return Note{}, false
	}
	return note, true
}

// Form returns the title and content currently in the editor.
func (s *Shell) Form() (title, content string) {
	return s.title, s.content
}

// Select switches the editor to note id, saving the current one first.
func (s *Shell) Select(id string) error {
	note, err := s.book.Get(id)
	if err != nil {
		return err
	}
	if s.selected != id {
		if err := s.flush(); err != nil && !errors.Is(err, ErrNoteNotFound) {
			return err
		}
	}
	s.load(note)
	return nil
}

// SetForm changes the editor contents without saving them. Close, Select
// and Add save pending changes.
func (s *Shell) SetForm(title, content string) {
	if s.selected == "" {
		return
	}
	s.title = title
	s.content = content
	s.dirty = true
}

// Edit replaces the editor contents and persists them immediately.
func (s *Shell) Edit(title, content string) error {
	if s.selected == "" {
		return fmt.Errorf("no memo selected")
	}
	s.title = title
	s.content = content
	s.dirty = true
	return s.save()
}

// EditNote selects note id and commits title and content to it.
func (s *Shell) EditNote(id, title, content string) (Note, error) {
	if err := s.Select(id); err != nil {
		return Note{}, err
	}
	if err := s.Edit(title, content); err != nil {
		return Note{}, err
	}
	return s.book.Get(id)
}

// Add creates a note and selects it. An empty title becomes DefaultTitle.
func (s *Shell) Add(title, content string) (Note, error) {
	if err := s.flush(); err != nil && !errors.Is(err, ErrNoteNotFound) {
		return Note{}, err
	}
	note, err := s.book.Add(title, content)
	if err != nil {
		return Note{}, err
	}
	s.log.Log(actionlog.ActionMemoAdd, note.ID, nil)
	s.load(note)
	return note, nil
}

// Delete removes a note. Deleting the selected note selects the one now at
// the same position, else the previous one; an empty list clears the form.
func (s *Shell) Delete(id string) error {
	idx, err := s.book.Delete(id)
	if err != nil {
		return err
	}
	s.log.Log(actionlog.ActionMemoDelete, id, nil)
	if s.selected != "" && s.selected != id {
		return nil
	}

	notes := s.book.List()
	switch {
	case len(notes) == 0:
		s.reset()
	case idx < len(notes):
		s.load(notes[idx])
	default:
		s.load(notes[idx-1])
	}
	return nil
}

func (s *Shell) flush() error {
	if s.selected == "" || !s.dirty {
		return nil
	}
	return s.save()
}

func (s *Shell) save() error {
	note, err := s.book.Update(s.selected, s.title, s.content)
	if err != nil {
		return err
	}
	s.dirty = false
	s.log.Log(actionlog.ActionMemoSave, note.ID, map[string]any{"title": note.Title})
	return nil
}

func (s *Shell) load(note Note) {
	s.selected = note.ID
	s.title = note.Title
	s.content = note.Content
	s.dirty = false
}

func (s *Shell) reset() {
	s.selected = ""
	s.title = ""
	s.content = ""
	s.dirty = false
}

// Render draws the note list and editor.
func (s *Shell) Render(width, height int) []string {
	if !s.Mounted() {
		return nil
	}
	leftWidth := min(24, width/3)

	var left []string
	left = append(left, "+ 新建")
	for _, note := range s.book.List() {
		marker := "  "
		if note.ID == s.selected {
			marker = "> "
		}
		left = append(left, marker+note.Title)
	}

	var right []string
	if s.selected == "" {
		right = append(right, "(no memo selected)")
	} else {
		right = append(right, s.title, strings.Repeat("─", max(0, width-leftWidth-1)))
		right = append(right, strings.Split(s.content, "\n")...)
		if note, ok := s.Selected(); ok {
			right = append(right, "", "last edited "+note.LastEdited)
		}
	}

	return plugin.Fit(plugin.Columns(left, right, leftWidth, width), width, height)
}
