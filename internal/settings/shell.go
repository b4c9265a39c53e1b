package settings

import (
	"fmt"

	"github.com/1broseidon/tabdock/internal/plugin"
	"github.com/1broseidon/tabdock/internal/window"
)

// PluginID is the dock id of the settings plugin.
const PluginID = "settings"

// Section is a page of the settings window.
type Section int

const (
	SectionLayout Section = iota
	SectionSearch
	SectionBackup
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionLayout:
		return "布局"
	case SectionSearch:
		return "搜索"
	case SectionBackup:
		return "备份"
	default:
		return "?"
	}
}

// WindowOptions returns the frame options the settings plugin opens with.
func WindowOptions() window.Options {
	opts := window.DefaultOptions()
	opts.Title = "设置"
	opts.AllowDrag = true
	opts.AllowFullscreen = true
	opts.AllowMinimize = false
	return opts
}

// Shell shows the settings grouped in sections.
type Shell struct {
	plugin.MountState

	svc     *Service
	section Section
	// lastBackup is the path of the last export made from this shell.
	lastBackup string
}

var _ plugin.Shell = (*Shell)(nil)

// NewShell creates a shell over svc.
func NewShell(svc *Service) *Shell {
	return &Shell{svc: svc}
}

// Open starts on the layout section.
func (s *Shell) Open() error {
	s.section = SectionLayout
	return nil
}

// Close has nothing to flush; updates are persisted by the service.
func (s *Shell) Close() error {
	return nil
}

// Section returns the active section.
func (s *Shell) Section() Section { return s.section }

// NextSection cycles through the sections.
func (s *Shell) NextSection(delta int) {
	n := int(sectionCount)
	s.section = Section(((int(s.section)+delta)%n + n) % n)
}

// NoteBackup records the path of a finished export for display.
func (s *Shell) NoteBackup(path string) {
	s.lastBackup = path
}

// Render draws the active section.
func (s *Shell) Render(width, height int) []string {
	if !s.Mounted() {
		return nil
	}
	st := s.svc.State()

	tabs := ""
	for i := Section(0); i < sectionCount; i++ {
		label := i.String()
		if i == s.section {
			label = "[" + label + "]"
		}
		tabs += label + " "
	}
	lines := []string{tabs, ""}

	switch s.section {
	case SectionLayout:
		lines = append(lines,
			fmt.Sprintf("search box     %s", onOff(st.Search.Show)),
			fmt.Sprintf("navigation     %s", onOff(st.NavList.Show)),
			fmt.Sprintf("dock           %s", onOff(st.Dock.Show)),
			fmt.Sprintf("time calendar  %s", onOff(st.TimeCalendar.Show)),
		)
	case SectionSearch:
		lines = append(lines,
			fmt.Sprintf("engine         %s", st.Search.CurrentEngine),
			fmt.Sprintf("open target    %s", st.Search.OpenPageTarget),
			fmt.Sprintf("suggestion     %s", st.Search.Suggestion),
			fmt.Sprintf("history        %s", onOff(st.Search.ShowHistory)),
			fmt.Sprintf("auto focus     %s", onOff(st.Search.AutoFocus)),
			fmt.Sprintf("translate      %s", onOff(st.Search.ShowTranslate)),
			"",
		)
		for _, e := range st.Search.SearchEngines {
			lines = append(lines, fmt.Sprintf("  %-8s %s", e.ID, e.URL))
		}
	case SectionBackup:
		lines = append(lines, "export: tabdock backup export", "import: tabdock backup import <file>")
		if s.lastBackup != "" {
			lines = append(lines, "", "last export "+s.lastBackup)
		}
	}
	return plugin.Fit(lines, width, height)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
