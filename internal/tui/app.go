package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// refreshTickMsg polls the daemon.
type refreshTickMsg struct{}

func refreshTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// model is the root bubbletea model for the TUI.
type model struct {
	ctrl Controller
	now  func() time.Time

	// Tab navigation
	activeTab Tab

	// Sub-models
	desktopTab  DesktopTab
	memoTab     MemoTab
	settingsTab SettingsTab

	// Daemon state
	daemonConnected bool
	windowCount     int
	message         string

	clock        time.Time
	refreshEvery time.Duration

	// Terminal dimensions
	width  int
	height int
}

func newModel(ctrl Controller, now func() time.Time) model {
	m := model{
		ctrl:         ctrl,
		now:          now,
		activeTab:    TabDesktop,
		desktopTab:   NewDesktopTab(ctrl),
		memoTab:      NewMemoTab(ctrl),
		settingsTab:  NewSettingsTab(ctrl),
		clock:        now(),
		refreshEvery: time.Second,
	}
	m.refresh()
	return m
}

// refresh re-reads daemon state into every tab.
func (m *model) refresh() {
	if err := m.ctrl.Ping(); err != nil {
		m.daemonConnected = false
		m.windowCount = 0
		return
	}
	m.daemonConnected = true

	st, err := m.ctrl.GetStatus()
	if err != nil {
		m.message = err.Error()
		return
	}
	plugins, err := m.ctrl.ListPlugins()
	if err != nil {
		m.message = err.Error()
		return
	}
	windows, err := m.ctrl.ListWindows()
	if err != nil {
		m.message = err.Error()
		return
	}
	m.windowCount = len(windows)
	m.desktopTab.SetState(plugins.Plugins, windows, st.Viewport)

	if notes, err := m.ctrl.ListMemos(); err == nil {
		m.memoTab.SetNotes(notes)
	}
	if s, err := m.ctrl.GetSettings(); err == nil {
		m.settingsTab.SetState(s)
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

func (m model) resize(w, h int) model {
	m.width = w
	m.height = h
	sub := tea.WindowSizeMsg{Width: w, Height: m.contentHeight()}
	m.desktopTab, _ = m.desktopTab.Update(sub)
	m.memoTab, _ = m.memoTab.Update(sub)
	m.settingsTab, _ = m.settingsTab.Update(sub)
	return m
}

// capturing reports whether the active tab consumes every key.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabMemos:
		return m.memoTab.Editing()
	case TabSettings:
		return m.settingsTab.Capturing()
	}
	return false
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(clockTick(m.clock), refreshTick(m.refreshEvery))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case clockMsg:
		m.clock = time.Time(msg)
		return m, clockTick(m.clock)
	case refreshTickMsg:
		if !m.capturing() {
			m.refresh()
		}
		return m, refreshTick(m.refreshEvery)
	case refreshMsg:
		m.refresh()
		return m, nil
	case statusMsg:
		m.message = msg.text
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		if km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch km.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
				return m, nil
			case "1":
				m.activeTab = TabDesktop
				return m, nil
			case "2":
				m.activeTab = TabMemos
				return m, nil
			case "3":
				m.activeTab = TabSettings
				return m, nil
			case "r":
				m.refresh()
				return m, nil
			}
		}
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabDesktop:
		m.desktopTab, cmd = m.desktopTab.Update(msg)
	case TabMemos:
		m.memoTab, cmd = m.memoTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonConnected, m.windowCount, Clock(m.clock), m.message, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	if !m.daemonConnected {
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Start the daemon with 'tabdock daemon'")
	} else {
		switch m.activeTab {
		case TabDesktop:
			content = m.desktopTab.View()
		case TabMemos:
			content = m.memoTab.View()
		case TabSettings:
			content = m.settingsTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
