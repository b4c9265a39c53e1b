package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabdock/internal/settings"
)

// settingChange is one part/key/value update sent on form submit.
type settingChange struct {
	part  string
	key   string
	value any
}

// SettingsTab shows the settings document, edits it with a huh form and
// resolves search queries against the current engine.
type SettingsTab struct {
	ctrl  Controller
	state *settings.State

	width  int
	height int

	editing bool
	form    *huh.Form

	fEngine     string
	fTarget     string
	fSuggestion string
	fSearch     bool
	fHistory    bool
	fNavList    bool
	fDock       bool
	fClock      bool

	searching bool
	query     textinput.Model
	lastURL   string
}

// NewSettingsTab creates the settings tab sub-model.
func NewSettingsTab(ctrl Controller) SettingsTab {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 200
	ti.Width = 40
	return SettingsTab{ctrl: ctrl, query: ti}
}

// SetState replaces the displayed settings.
func (s *SettingsTab) SetState(st *settings.State) {
	s.state = st
}

// Capturing reports whether keys go to the form or the search input.
func (s SettingsTab) Capturing() bool { return s.editing || s.searching }

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = ws.Width
		s.height = ws.Height
	}
	if s.editing {
		return s.updateEditing(msg)
	}
	if s.searching {
		return s.updateSearching(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "e":
			if s.state == nil {
				return s, status("settings not loaded")
			}
			s.startEditing()
			return s, s.form.Init()
		case "/":
			s.searching = true
			s.query.SetValue("")
			return s, s.query.Focus()
		}
	}
	return s, nil
}

func (s SettingsTab) updateSearching(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			s.searching = false
			s.query.Blur()
			return s, nil
		case "enter":
			s.searching = false
			s.query.Blur()
			url, err := s.ctrl.SearchURL(s.query.Value())
			if err != nil {
				return s, status(fmt.Sprintf("search: %v", err))
			}
			s.lastURL = url
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.query, cmd = s.query.Update(msg)
	return s, cmd
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		s.editing = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.editing = false
		s.form = nil
		return s, s.applyForm()
	}
	return s, cmd
}

func (s *SettingsTab) startEditing() {
	st := s.state
	s.fEngine = st.Search.CurrentEngine
	s.fTarget = string(st.Search.OpenPageTarget)
	s.fSuggestion = string(st.Search.Suggestion)
	s.fSearch = st.Search.Show
	s.fHistory = st.Search.ShowHistory
	s.fNavList = st.NavList.Show
	s.fDock = st.Dock.Show
	s.fClock = st.TimeCalendar.Show

	engines := make([]huh.Option[string], 0, len(st.Search.SearchEngines))
	for _, e := range st.Search.SearchEngines {
		engines = append(engines, huh.NewOption(e.Name, e.ID))
	}

	w := max(s.width-4, 40)
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("currentEngine").
				Title("Search Engine").
				Options(engines...).
				Value(&s.fEngine),
			huh.NewSelect[string]().
				Key("openPageTarget").
				Title("Open Results In").
				Options(
					huh.NewOption("new tab", string(settings.TargetBlank)),
					huh.NewOption("current tab", string(settings.TargetSelf)),
				).
				Value(&s.fTarget),
			huh.NewSelect[string]().
				Key("suggestion").
				Title("Suggestions").
				Options(
					huh.NewOption("none", string(settings.SuggestionNone)),
					huh.NewOption("baidu", string(settings.SuggestionBaidu)),
					huh.NewOption("bing", string(settings.SuggestionBing)),
					huh.NewOption("google", string(settings.SuggestionGoogle)),
				).
				Value(&s.fSuggestion),
		),
		huh.NewGroup(
			huh.NewConfirm().Key("search.show").Title("Show search box").Value(&s.fSearch),
			huh.NewConfirm().Key("search.showHistory").Title("Show search history").Value(&s.fHistory),
			huh.NewConfirm().Key("navList.show").Title("Show bookmarks").Value(&s.fNavList),
			huh.NewConfirm().Key("dock.show").Title("Show dock").Value(&s.fDock),
			huh.NewConfirm().Key("timeCalendar.show").Title("Show clock").Value(&s.fClock),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

// changes lists the fields the form altered relative to the loaded state.
func (s SettingsTab) changes() []settingChange {
	st := s.state
	var out []settingChange
	add := func(changed bool, part, key string, value any) {
		if changed {
			out = append(out, settingChange{part: part, key: key, value: value})
		}
	}
	add(s.fEngine != st.Search.CurrentEngine, "search", "currentEngine", s.fEngine)
	add(s.fTarget != string(st.Search.OpenPageTarget), "search", "openPageTarget", s.fTarget)
	add(s.fSuggestion != string(st.Search.Suggestion), "search", "suggestion", s.fSuggestion)
	add(s.fSearch != st.Search.Show, "search", "show", s.fSearch)
	add(s.fHistory != st.Search.ShowHistory, "search", "showHistory", s.fHistory)
	add(s.fNavList != st.NavList.Show, "navList", "show", s.fNavList)
	add(s.fDock != st.Dock.Show, "dock", "show", s.fDock)
	add(s.fClock != st.TimeCalendar.Show, "timeCalendar", "show", s.fClock)
	return out
}

func (s SettingsTab) applyForm() tea.Cmd {
	changes := s.changes()
	if len(changes) == 0 {
		return status("no changes")
	}
	for _, c := range changes {
		if _, err := s.ctrl.SetSetting(c.part, c.key, c.value); err != nil {
			return tea.Batch(status(fmt.Sprintf("%s.%s: %v", c.part, c.key, err)), refreshNow)
		}
	}
	return tea.Batch(status(fmt.Sprintf("saved %d setting(s)", len(changes))), refreshNow)
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	style := lipgloss.NewStyle().Width(s.width).Height(s.height).Padding(1, 2)

	if s.editing && s.form != nil {
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Render("Editing Settings") +
			lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + s.form.View())
	}

	if s.state == nil {
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No settings loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	st := s.state
	engine := st.Search.CurrentEngine
	if e, ok := st.Engine(engine); ok {
		engine = e.Name
	}

	lines := []string{
		row("Search Engine", engine),
		row("Open Results In", string(st.Search.OpenPageTarget)),
		row("Suggestions", string(st.Search.Suggestion)),
		"",
		row("Search Box", onOff(st.Search.Show)),
		row("Search History", onOff(st.Search.ShowHistory)),
		row("Bookmarks", onOff(st.NavList.Show)),
		row("Dock", onOff(st.Dock.Show)),
		row("Clock", onOff(st.TimeCalendar.Show)),
		"",
	}
	if s.searching {
		lines = append(lines, "  "+s.query.View())
	} else if s.lastURL != "" {
		lines = append(lines, row("Last Search", s.lastURL))
	}
	lines = append(lines, "", dimStyle.Render("  Press 'e' to edit settings, '/' to search"))

	return style.Render(strings.Join(lines, "\n"))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
