package app

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/dock"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/memo"
	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/settings"
	"github.com/1broseidon/tabdock/internal/window"
)

func newTestApp(t *testing.T, cfg *config.Config) (*App, *window.ManualScheduler) {
	t.Helper()
	sched := window.NewManualScheduler()
	a, err := New(Options{
		Config:    cfg,
		DataDir:   t.TempDir(),
		Viewport:  geometry.Size{Width: 1920, Height: 1080},
		Scheduler: sched,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, sched
}

func TestNew_RegistryOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dock.Plugins = []string{"settings", "memo"}
	a, _ := newTestApp(t, cfg)

	entries := a.Desktop.Registry().Entries()
	if len(entries) != 7 {
		t.Fatalf("len(entries) = %d, want 7", len(entries))
	}
	if entries[0].ID != "settings" || entries[1].ID != "memo" || entries[2].ID != "bookmarks" {
		t.Fatalf("order = %s,%s,%s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if _, err := a.Desktop.OpenPlugin("todo"); !errors.Is(err, dock.ErrPluginUnavailable) {
		t.Fatalf("OpenPlugin(todo) error = %v, want ErrPluginUnavailable", err)
	}
}

func TestOpenMemo_CenteredAndCloseSavesEdit(t *testing.T) {
	a, sched := newTestApp(t, nil)
	note, err := a.Notes.Add("first", "body")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	info, err := a.Desktop.OpenPlugin(memo.PluginID)
	if err != nil {
		t.Fatalf("OpenPlugin(memo) error: %v", err)
	}
	if info.Geometry != (geometry.Rect{X: 560, Y: 240, Width: 800, Height: 600}) {
		t.Fatalf("memo geometry = %+v", info.Geometry)
	}
	if info.Options.AllowDrag || info.Options.AllowMinimize {
		t.Fatalf("memo options = %+v", info.Options)
	}

	err = a.Desktop.WithShell(memo.PluginID, func(s plugin.Shell) error {
		return s.(*memo.Shell).Edit("first", "edited")
	})
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}

	if _, err := a.Desktop.CloseWindow(info.ID); err != nil {
		t.Fatalf("CloseWindow() error: %v", err)
	}
	sched.Advance(300 * time.Millisecond)
	if len(a.Desktop.Windows()) != 0 {
		t.Fatalf("memo window still open")
	}

	reloaded, err := memo.NewNotebook(a.Store)
	if err != nil {
		t.Fatalf("NewNotebook() error: %v", err)
	}
	got, err := reloaded.Get(note.ID)
	if err != nil || got.Content != "edited" {
		t.Fatalf("stored note = %+v, %v", got, err)
	}
}

func TestEditMemo_OpenEditorKeepsEdit(t *testing.T) {
	a, sched := newTestApp(t, nil)
	note, err := a.AddMemo("first", "body")
	if err != nil {
		t.Fatalf("AddMemo() error: %v", err)
	}
	info, err := a.Desktop.OpenPlugin(memo.PluginID)
	if err != nil {
		t.Fatalf("OpenPlugin(memo) error: %v", err)
	}

	edited, err := a.EditMemo(note.ID, "edited", "new body")
	if err != nil {
		t.Fatalf("EditMemo() error: %v", err)
	}
	if edited.Title != "edited" || edited.Content != "new body" {
		t.Fatalf("EditMemo() = %+v", edited)
	}
	err = a.Desktop.WithShell(memo.PluginID, func(s plugin.Shell) error {
		if title, content := s.(*memo.Shell).Form(); title != "edited" || content != "new body" {
			t.Errorf("open editor form = %q, %q", title, content)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithShell() error: %v", err)
	}

	if _, err := a.Desktop.CloseWindow(info.ID); err != nil {
		t.Fatalf("CloseWindow() error: %v", err)
	}
	sched.Advance(300 * time.Millisecond)

	got, err := a.Notes.Get(note.ID)
	if err != nil || got.Title != "edited" || got.Content != "new body" {
		t.Fatalf("stored note = %+v, %v", got, err)
	}
}

func TestReload_OpenEditorKeepsExternalWrite(t *testing.T) {
	a, sched := newTestApp(t, nil)
	note, _ := a.Notes.Add("first", "body")
	info, err := a.Desktop.OpenPlugin(memo.PluginID)
	if err != nil {
		t.Fatalf("OpenPlugin(memo) error: %v", err)
	}

	other, err := memo.NewNotebook(a.Store)
	if err != nil {
		t.Fatalf("NewNotebook() error: %v", err)
	}
	if _, err := other.Update(note.ID, "edited", "new body"); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if err := a.Reload([]string{memo.StorageKey}); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	if _, err := a.Desktop.CloseWindow(info.ID); err != nil {
		t.Fatalf("CloseWindow() error: %v", err)
	}
	sched.Advance(300 * time.Millisecond)

	got, _ := a.Notes.Get(note.ID)
	if got.Title != "edited" || got.Content != "new body" {
		t.Fatalf("stored note = %+v, want the external write kept", got)
	}
}

func TestMemoCommands_DriveOpenEditor(t *testing.T) {
	a, _ := newTestApp(t, nil)
	first, _ := a.AddMemo("a", "")
	if _, err := a.Desktop.OpenPlugin(memo.PluginID); err != nil {
		t.Fatalf("OpenPlugin(memo) error: %v", err)
	}

	second, err := a.AddMemo("", "")
	if err != nil {
		t.Fatalf("AddMemo() error: %v", err)
	}
	selected := func() string {
		var id string
		a.Desktop.WithShell(memo.PluginID, func(s plugin.Shell) error {
			sel, _ := s.(*memo.Shell).Selected()
			id = sel.ID
			return nil
		})
		return id
	}
	if got := selected(); got != second.ID || second.Title != memo.DefaultTitle {
		t.Fatalf("selected %q after add, want %q (%+v)", got, second.ID, second)
	}

	if err := a.DeleteMemo(second.ID); err != nil {
		t.Fatalf("DeleteMemo() error: %v", err)
	}
	if got := selected(); got != first.ID {
		t.Fatalf("selected %q after delete, want %q", got, first.ID)
	}
	if err := a.DeleteMemo(second.ID); !errors.Is(err, memo.ErrNoteNotFound) {
		t.Fatalf("DeleteMemo(again) error = %v, want ErrNoteNotFound", err)
	}
}

func TestNew_PluginOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	width := 500.0
	drag := true
	cfg.Plugins = map[string]config.PluginConfig{
		memo.PluginID: {Width: &width, AllowDrag: &drag},
		"ghost":       {Width: &width},
	}
	a, _ := newTestApp(t, cfg)

	info, err := a.Desktop.OpenPlugin(memo.PluginID)
	if err != nil {
		t.Fatalf("OpenPlugin() error: %v", err)
	}
	if info.Geometry.Width != 500 || !info.Options.AllowDrag || info.Title != "备忘录" {
		t.Fatalf("overridden window = %+v", info)
	}
}

func TestReload_PicksUpExternalWrites(t *testing.T) {
	a, _ := newTestApp(t, nil)

	state := settings.Defaults()
	state.Search.CurrentEngine = "google"
	if err := a.Store.Put(settings.StorageKey, state); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := a.Reload([]string{settings.StorageKey}); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if got := a.Settings.State().Search.CurrentEngine; got != "google" {
		t.Fatalf("CurrentEngine = %q, want google", got)
	}
}

func TestBackup_ExportImport(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Notes.Add("keep", "me"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	path, err := a.ExportBackup(dir, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ExportBackup() error: %v", err)
	}

	b, _ := newTestApp(t, nil)
	keys, err := b.ImportBackup(path)
	if err != nil {
		t.Fatalf("ImportBackup() error: %v", err)
	}
	if len(keys) == 0 || b.Notes.Len() != 1 {
		t.Fatalf("imported keys = %v, notes = %d", keys, b.Notes.Len())
	}
}
