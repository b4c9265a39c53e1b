package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/ipc"
)

const dockListWidth = 26

// pluginItem implements list.Item for the dock launcher.
type pluginItem struct {
	info ipc.PluginInfo
}

func (i pluginItem) Title() string {
	switch {
	case i.info.WindowID != "":
		return "● " + i.info.Title
	case !i.info.Launchable:
		return "  " + i.info.Title
	default:
		return "○ " + i.info.Title
	}
}

func (i pluginItem) Description() string {
	if !i.info.Launchable {
		return "unavailable"
	}
	if i.info.WindowID != "" {
		return i.info.WindowID
	}
	return i.info.ID
}

func (i pluginItem) FilterValue() string { return i.info.ID }

// statusMsg reports the outcome of an action to the status line.
type statusMsg struct {
	text string
}

// refreshMsg asks the root model to re-read daemon state now.
type refreshMsg struct{}

func refreshNow() tea.Msg { return refreshMsg{} }

// DesktopTab shows the dock launcher next to a scaled desktop preview.
type DesktopTab struct {
	ctrl Controller
	list list.Model

	viewport geometry.Size
	windows  []desktop.WindowInfo
	selected string

	width  int
	height int
}

// NewDesktopTab creates the desktop tab sub-model.
func NewDesktopTab(ctrl Controller) DesktopTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Dock"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return DesktopTab{ctrl: ctrl, list: l}
}

// SetState replaces the plugins, windows and viewport shown.
func (d *DesktopTab) SetState(plugins []ipc.PluginInfo, windows []desktop.WindowInfo, viewport geometry.Size) {
	items := make([]list.Item, 0, len(plugins))
	for _, p := range plugins {
		items = append(items, pluginItem{info: p})
	}
	d.list.SetItems(items)
	d.windows = windows
	d.viewport = viewport

	if d.windowIndex(d.selected) < 0 {
		d.selected = ""
		if len(windows) > 0 {
			d.selected = windows[0].ID
		}
	}
}

// Selected returns the highlighted window id.
func (d DesktopTab) Selected() string { return d.selected }

func (d DesktopTab) windowIndex(id string) int {
	for i, w := range d.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (d *DesktopTab) cycle(delta int) {
	if len(d.windows) == 0 {
		d.selected = ""
		return
	}
	i := d.windowIndex(d.selected)
	i = (i + delta + len(d.windows)) % len(d.windows)
	d.selected = d.windows[i].ID
}

// Update implements tea.Model.
func (d DesktopTab) Update(msg tea.Msg) (DesktopTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.list.SetSize(dockListWidth, msg.Height)
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "o":
			item, ok := d.list.SelectedItem().(pluginItem)
			if !ok {
				return d, nil
			}
			info, err := d.ctrl.OpenPlugin(item.info.ID)
			if err != nil {
				return d, status(fmt.Sprintf("open %s: %v", item.info.ID, err))
			}
			d.selected = info.ID
			return d, tea.Batch(status("opened "+info.ID), refreshNow)
		case "]":
			d.cycle(1)
			return d, nil
		case "[":
			d.cycle(-1)
			return d, nil
		case "x":
			return d, d.windowAction("closed", d.ctrl.CloseWindow)
		case "f":
			return d, d.windowAction("fullscreen toggled", d.ctrl.ToggleFullscreen)
		case "m":
			return d, d.windowAction("minimize toggled", d.ctrl.ToggleMinimize)
		}
	}

	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

func (d DesktopTab) windowAction(verb string, fn func(string) (*desktop.WindowInfo, error)) tea.Cmd {
	if d.selected == "" {
		return status("no window selected")
	}
	if _, err := fn(d.selected); err != nil {
		return status(fmt.Sprintf("%s: %v", d.selected, err))
	}
	return tea.Batch(status(d.selected+" "+verb), refreshNow)
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// View implements tea.Model.
func (d DesktopTab) View() string {
	left := lipgloss.NewStyle().Width(dockListWidth).Height(d.height).Render(d.list.View())

	previewW := d.width - dockListWidth - 2
	previewH := d.height - 1
	if previewW < 5 || previewH < 3 {
		return left
	}

	caption := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(
		fmt.Sprintf("%.0f×%.0f  %d window(s)  [ ] select  x close  f fullscreen  m minimize",
			d.viewport.Width, d.viewport.Height, len(d.windows)))
	preview := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, renderDesktop(d.viewport, d.windows, d.selected, previewW, previewH)...),
		caption,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", preview)
}
