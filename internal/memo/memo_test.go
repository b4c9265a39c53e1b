package memo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/1broseidon/tabdock/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestBook(t *testing.T) (*Notebook, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := &testClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)}
	seq := 0
	book, err := NewNotebook(store,
		WithClock(clock.now),
		WithIDs(func() string { seq++; return fmt.Sprintf("n%d", seq) }),
	)
	if err != nil {
		t.Fatalf("NewNotebook: %v", err)
	}
	return book, store
}

func TestNotebook_PersistsEveryChange(t *testing.T) {
	book, store := newTestBook(t)

	note, err := book.Add("", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if note.Title != DefaultTitle {
		t.Fatalf("Title = %q, want %q", note.Title, DefaultTitle)
	}
	if note.Date != "2024-05-01 09:00:01" || note.LastEdited != note.Date {
		t.Fatalf("timestamps = %q / %q", note.Date, note.LastEdited)
	}

	if _, err := book.Update(note.ID, "groceries", "milk"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := NewNotebook(store)
	if err != nil {
		t.Fatalf("NewNotebook: %v", err)
	}
	got, err := reloaded.Get(note.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "groceries" || got.Content != "milk" || got.LastEdited != "2024-05-01 09:00:02" {
		t.Fatalf("reloaded note = %+v", got)
	}
}

func TestNotebook_UpdateAlwaysStamps(t *testing.T) {
	book, _ := newTestBook(t)
	note, _ := book.Add("a", "b")
	got, err := book.Update(note.ID, "a", "b")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.LastEdited == note.LastEdited {
		t.Fatalf("LastEdited stayed at %q, want a new stamp", got.LastEdited)
	}
}

func TestNotebook_MostRecent(t *testing.T) {
	book, _ := newTestBook(t)
	if _, ok := book.MostRecent(); ok {
		t.Fatalf("empty notebook has no most recent note")
	}
	a, _ := book.Add("a", "")
	book.Add("b", "")
	book.Update(a.ID, "a", "edited")

	got, ok := book.MostRecent()
	if !ok || got.ID != a.ID {
		t.Fatalf("MostRecent() = %+v, want %s", got, a.ID)
	}
}

func TestShell_OpenPreloadsMostRecent(t *testing.T) {
	book, _ := newTestBook(t)
	book.Add("first", "1")
	second, _ := book.Add("second", "2")

	s := NewShell(book, nil)
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != second.ID {
		t.Fatalf("Selected() = %+v, want %s", sel, second.ID)
	}
	if title, content := s.Form(); title != "second" || content != "2" {
		t.Fatalf("Form() = %q, %q", title, content)
	}
}

func TestShell_AddSelectsNewNote(t *testing.T) {
	book, _ := newTestBook(t)
	s := NewShell(book, nil)
	s.Open()

	note, err := s.Add("", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != note.ID || sel.Title != DefaultTitle {
		t.Fatalf("Selected() = %+v", sel)
	}

	named, err := s.Add("groceries", "milk")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if title, content := s.Form(); title != "groceries" || content != "milk" || named.Title != "groceries" {
		t.Fatalf("Form() = %q, %q after adding %+v", title, content, named)
	}
}

func TestShell_EditPersistsImmediately(t *testing.T) {
	book, store := newTestBook(t)
	s := NewShell(book, nil)
	note, _ := s.Add("", "")

	if err := s.Edit("todo", "ship it"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	reloaded, _ := NewNotebook(store)
	got, _ := reloaded.Get(note.ID)
	if got.Title != "todo" || got.Content != "ship it" {
		t.Fatalf("stored note = %+v", got)
	}
}

func TestShell_DeleteSelectionRules(t *testing.T) {
	book, _ := newTestBook(t)
	s := NewShell(book, nil)
	a, _ := book.Add("a", "")
	b, _ := book.Add("b", "")
	c, _ := book.Add("c", "")

	// Deleting the middle note selects the one that slides into its place.
	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sel, _ := s.Selected(); sel.ID != c.ID {
		t.Fatalf("after deleting b selected %q, want %q", sel.ID, c.ID)
	}

	// Deleting the last note falls back to the previous one.
	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sel, _ := s.Selected(); sel.ID != a.ID {
		t.Fatalf("after deleting c selected %q, want %q", sel.ID, a.ID)
	}

	// Deleting the only note clears the form.
	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("expected no selection")
	}
	if title, content := s.Form(); title != "" || content != "" {
		t.Fatalf("Form() = %q, %q, want empty", title, content)
	}
}

func TestShell_CloseSavesAndResets(t *testing.T) {
	book, _ := newTestBook(t)
	s := NewShell(book, nil)
	note, _ := s.Add("", "")
	s.SetForm("draft", "")

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, _ := book.Get(note.ID)
	if got.Title != "draft" {
		t.Fatalf("saved title = %q, want draft", got.Title)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("expected selection cleared after close")
	}
}

func TestShell_CloseWithoutChangesKeepsNote(t *testing.T) {
	book, _ := newTestBook(t)
	note, _ := book.Add("first", "body")
	s := NewShell(book, nil)
	s.Open()

	book.Update(note.ID, "edited", "new body")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, _ := book.Get(note.ID)
	if got.Title != "edited" || got.Content != "new body" {
		t.Fatalf("stored note = %+v, want the outside edit kept", got)
	}
}

func TestShell_EditNoteSwitchesSelection(t *testing.T) {
	book, _ := newTestBook(t)
	a, _ := book.Add("a", "")
	b, _ := book.Add("b", "")
	s := NewShell(book, nil)
	s.Open()
	s.SetForm("b draft", "pending")

	got, err := s.EditNote(a.ID, "a2", "done")
	if err != nil {
		t.Fatalf("EditNote: %v", err)
	}
	if got.ID != a.ID || got.Title != "a2" || got.Content != "done" {
		t.Fatalf("EditNote() = %+v", got)
	}
	if sel, _ := s.Selected(); sel.ID != a.ID {
		t.Fatalf("selected %q, want %q", sel.ID, a.ID)
	}
	if prev, _ := book.Get(b.ID); prev.Title != "b draft" || prev.Content != "pending" {
		t.Fatalf("pending form not saved before switching: %+v", prev)
	}
	if _, err := s.EditNote("missing", "x", "y"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("EditNote(missing) error = %v, want ErrNoteNotFound", err)
	}
}

func TestShell_DeleteOtherNoteKeepsSelection(t *testing.T) {
	book, _ := newTestBook(t)
	a, _ := book.Add("a", "")
	b, _ := book.Add("b", "")
	s := NewShell(book, nil)
	s.Select(b.ID)

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sel, _ := s.Selected(); sel.ID != b.ID {
		t.Fatalf("selected %q, want %q", sel.ID, b.ID)
	}
}

func TestShell_Refresh(t *testing.T) {
	book, store := newTestBook(t)
	a, _ := book.Add("a", "")
	b, _ := book.Add("b", "")
	s := NewShell(book, nil)
	s.Select(a.ID)

	other, _ := NewNotebook(store)
	other.Update(a.ID, "a from disk", "x")
	book.Reload()
	s.Refresh()
	if title, content := s.Form(); title != "a from disk" || content != "x" {
		t.Fatalf("Form() = %q, %q after refresh", title, content)
	}

	// Unsaved edits win over the reloaded copy.
	s.SetForm("mine", "y")
	other.Update(a.ID, "theirs", "z")
	book.Reload()
	s.Refresh()
	if title, _ := s.Form(); title != "mine" {
		t.Fatalf("Form() title = %q, want mine", title)
	}

	// A selected note deleted elsewhere falls back to the most recent one.
	s.Edit("mine", "y")
	other.Reload()
	other.Delete(a.ID)
	book.Reload()
	s.Refresh()
	if sel, _ := s.Selected(); sel.ID != b.ID {
		t.Fatalf("selected %q after delete, want %q", sel.ID, b.ID)
	}
}

func TestShell_RenderOnlyWhenMounted(t *testing.T) {
	book, _ := newTestBook(t)
	s := NewShell(book, nil)
	s.Add("", "")
	if lines := s.Render(60, 10); lines != nil {
		t.Fatalf("unmounted shell rendered %d lines", len(lines))
	}
	s.Mount()
	lines := s.Render(60, 10)
	if len(lines) != 10 {
		t.Fatalf("Render() = %d lines, want 10", len(lines))
	}
}

func TestWindowOptions(t *testing.T) {
	opts := WindowOptions()
	if opts.AllowDrag || !opts.AllowFullscreen || opts.AllowMinimize {
		t.Fatalf("WindowOptions() = %+v", opts)
	}
}
