// Package tui is the terminal front end of the tabdock daemon: a scaled
// preview of the desktop, a dock launcher, and memo and settings editors.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/memo"
	"github.com/1broseidon/tabdock/internal/settings"
)

// Controller is the daemon surface the TUI drives. *ipc.Client implements it.
type Controller interface {
	Ping() error
	GetStatus() (*ipc.StatusData, error)
	ListPlugins() (*ipc.PluginsData, error)
	ListWindows() ([]desktop.WindowInfo, error)
	OpenPlugin(pluginID string) (*desktop.WindowInfo, error)
	CloseWindow(windowID string) (*desktop.WindowInfo, error)
	ToggleFullscreen(windowID string) (*desktop.WindowInfo, error)
	ToggleMinimize(windowID string) (*desktop.WindowInfo, error)
	ListMemos() ([]memo.Note, error)
	AddMemo(title, content string) (*memo.Note, error)
	EditMemo(id, title, content string) (*memo.Note, error)
	DeleteMemo(id string) error
	GetSettings() (*settings.State, error)
	SetSetting(part, key string, value any) (*settings.State, error)
	SearchURL(query string) (string, error)
}

var _ Controller = (*ipc.Client)(nil)

// TUI represents the terminal user interface.
type TUI struct {
	ctrl    Controller
	refresh time.Duration
}

// New creates a TUI that talks to the daemon through ctrl.
func New(ctrl Controller) *TUI {
	return &TUI{ctrl: ctrl, refresh: time.Second}
}

// Run starts the TUI main loop.
func (t *TUI) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := newModel(t.ctrl, time.Now)
	m.refreshEvery = t.refresh
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m = m.resize(w, h)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}
