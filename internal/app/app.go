// Package app wires the persisted plugin data, the dock registry and the
// desktop into one process-wide instance shared by the daemon, the TUI and
// the MCP server.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/tabdock/internal/actionlog"
	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/dock"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/memo"
	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/settings"
	"github.com/1broseidon/tabdock/internal/sites"
	"github.com/1broseidon/tabdock/internal/storage"
	"github.com/1broseidon/tabdock/internal/window"
)

// Options configures New. Zero values fall back to the config.
type Options struct {
	Config    *config.Config
	DataDir   string
	Viewport  geometry.Size
	Scheduler window.Scheduler
	Logger    *slog.Logger
	Actions   *actionlog.Logger
}

// App holds the shared services.
type App struct {
	Config   *config.Config
	Store    *storage.FileStore
	Notes    *memo.Notebook
	Sites    *sites.List
	Settings *settings.Service
	Desktop  *desktop.Desktop
	Actions  *actionlog.Logger
	Logger   *slog.Logger

	ownsActions bool
}

// New opens the data directory and builds the desktop.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = cfg.DataDirPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := storage.NewFileStore(dataDir)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Store: store, Logger: logger, Actions: opts.Actions}
	if a.Actions == nil {
		lc := cfg.GetLoggingConfig()
		a.Actions, err = actionlog.New(actionlog.Config{
			Enabled:   lc.Enabled,
			Level:     actionlog.ParseLevel(lc.Level),
			FilePath:  lc.File,
			MaxSizeMB: lc.MaxSizeMB,
			MaxFiles:  lc.MaxFiles,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open action log: %w", err)
		}
		a.ownsActions = true
	}

	if a.Notes, err = memo.NewNotebook(store); err != nil {
		return nil, fmt.Errorf("failed to load memos: %w", err)
	}
	if a.Sites, err = sites.NewList(store); err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	if a.Settings, err = settings.NewService(store, a.Actions); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	registry, err := dock.NewRegistry(a.Entries()...)
	if err != nil {
		return nil, err
	}
	registry = registry.Reorder(cfg.Dock.Plugins)

	viewport := opts.Viewport
	if !viewport.Valid() {
		viewport = cfg.ViewportSize()
	}
	overrides := make(map[string]window.Options, len(cfg.Plugins))
	for id, p := range cfg.Plugins {
		entry, err := registry.Lookup(id)
		if err != nil {
			logger.Warn("config override for unknown plugin", "plugin", id)
			continue
		}
		overrides[id] = p.Apply(entry.Window)
	}

	a.Desktop, err = desktop.New(desktop.Config{
		Viewport:   viewport,
		Chrome:     cfg.Chrome(),
		CloseDelay: cfg.CloseDelay(),
		ZBase:      cfg.ZOrder.Base,
		DockZ:      cfg.ZOrder.DockLayer,
		DockLayout: cfg.DockLayout(),
		Registry:   registry,
		Overrides:  overrides,
		Scheduler:  opts.Scheduler,
		Logger:     logger,
		Actions:    a.Actions,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Entries returns the built-in dock entries in their default order.
func (a *App) Entries() []dock.Entry {
	return []dock.Entry{
		{
			ID:     memo.PluginID,
			Title:  "备忘录",
			Icon:   "plugin_memo",
			Window: memo.WindowOptions(),
			Component: func() plugin.Shell {
				return memo.NewShell(a.Notes, a.Actions)
			},
		},
		{
			ID:     sites.PluginID,
			Title:  "书签",
			Icon:   "plugin_bookmarks",
			Window: sites.WindowOptions(),
			Component: func() plugin.Shell {
				return sites.NewShell(a.Sites, a.Actions)
			},
		},
		{
			ID:     settings.PluginID,
			Title:  "设置",
			Icon:   "plugin_setting",
			Window: settings.WindowOptions(),
			Component: func() plugin.Shell {
				return settings.NewShell(a.Settings)
			},
		},
		{ID: "readlater", Title: "稍后阅读", Icon: "plugin_readlater"},
		{ID: "habit", Title: "习惯养成", Icon: "plugin_habit"},
		{ID: "todo", Title: "代办", Icon: "plugin_todo"},
		{ID: "whateat", Title: "今天吃什么", Icon: "plugin_whateat"},
	}
}

// Reload re-reads the services whose storage keys changed on disk.
func (a *App) Reload(keys []string) error {
	var firstErr error
	reload := func(key string, fn func() error) {
		if !slices.Contains(keys, key) {
			return
		}
		if err := fn(); err != nil {
			a.Logger.Warn("failed to reload store key", "key", key, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to reload %s: %w", key, err)
			}
			return
		}
		a.Actions.Log(actionlog.ActionStoreReload, key, nil)
	}
	reload(memo.StorageKey, func() error {
		if err := a.Notes.Reload(); err != nil {
			return err
		}
		return a.withMemo(func(sh *memo.Shell) error {
			sh.Refresh()
			return nil
		})
	})
	reload(sites.StorageKey, a.Sites.Reload)
	reload(settings.StorageKey, a.Settings.Reload)
	return firstErr
}

// ExportBackup writes a backup file into dir.
func (a *App) ExportBackup(dir string, now time.Time) (string, error) {
	path, err := settings.WriteBackup(a.Store, dir, now)
	if err != nil {
		return "", err
	}
	a.Actions.Log(actionlog.ActionBackupExport, path, nil)
	a.noteBackup(path)
	return path, nil
}

// ImportBackup restores a backup file and reloads every service.
func (a *App) ImportBackup(path string) ([]string, error) {
	keys, err := settings.ImportFile(a.Store, path)
	if err != nil {
		return nil, err
	}
	a.Actions.Log(actionlog.ActionBackupImport, path, map[string]any{"keys": len(keys)})
	if err := a.Reload(keys); err != nil {
		return keys, err
	}
	a.noteBackup(path)
	return keys, nil
}

// AddMemo creates a note through the memo shell so an open editor selects
// it.
func (a *App) AddMemo(title, content string) (memo.Note, error) {
	var note memo.Note
	err := a.withMemo(func(sh *memo.Shell) error {
		var err error
		note, err = sh.Add(title, content)
		return err
	})
	return note, err
}

// EditMemo commits title and content to note id through the memo shell,
// so closing an open editor does not write an older form back.
func (a *App) EditMemo(id, title, content string) (memo.Note, error) {
	var note memo.Note
	err := a.withMemo(func(sh *memo.Shell) error {
		var err error
		note, err = sh.EditNote(id, title, content)
		return err
	})
	return note, err
}

// DeleteMemo removes note id through the memo shell.
func (a *App) DeleteMemo(id string) error {
	return a.withMemo(func(sh *memo.Shell) error {
		return sh.Delete(id)
	})
}

// withMemo runs fn against the memo shell under the desktop lock. When the
// memo plugin is disabled a detached shell over the same notebook is used.
func (a *App) withMemo(fn func(*memo.Shell) error) error {
	var ran bool
	err := a.Desktop.WithShell(memo.PluginID, func(s plugin.Shell) error {
		sh, ok := s.(*memo.Shell)
		if !ok {
			return fmt.Errorf("memo plugin has unexpected shell %T", s)
		}
		ran = true
		return fn(sh)
	})
	if ran {
		return err
	}
	if err != nil && !errors.Is(err, dock.ErrPluginUnavailable) && !errors.Is(err, dock.ErrPluginNotFound) {
		return err
	}
	return fn(memo.NewShell(a.Notes, a.Actions))
}

func (a *App) noteBackup(path string) {
	_ = a.Desktop.WithShell(settings.PluginID, func(s plugin.Shell) error {
		if shell, ok := s.(*settings.Shell); ok {
			shell.NoteBackup(path)
		}
		return nil
	})
}

// Close shuts the desktop down and closes the action log.
func (a *App) Close() error {
	a.Desktop.Shutdown()
	if a.ownsActions {
		return a.Actions.Close()
	}
	return nil
}
