package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabdock/internal/memo"
	"github.com/1broseidon/tabdock/internal/plugin"
)

const memoListWidth = 28

// MemoTab lists memos and edits them with a huh form.
type MemoTab struct {
	ctrl   Controller
	notes  []memo.Note
	cursor int

	width  int
	height int

	editing bool
	editID  string // empty when adding
	form    *huh.Form
	fTitle  string
	fBody   string
}

// NewMemoTab creates the memo tab sub-model.
func NewMemoTab(ctrl Controller) MemoTab {
	return MemoTab{ctrl: ctrl}
}

// SetNotes replaces the listed notes, keeping the cursor on the same id.
func (t *MemoTab) SetNotes(notes []memo.Note) {
	var keep string
	if t.cursor < len(t.notes) {
		keep = t.notes[t.cursor].ID
	}
	t.notes = notes
	t.cursor = 0
	for i, n := range notes {
		if n.ID == keep {
			t.cursor = i
			break
		}
	}
}

// Editing reports whether the form captures input.
func (t MemoTab) Editing() bool { return t.editing }

func (t MemoTab) current() (memo.Note, bool) {
	if t.cursor < 0 || t.cursor >= len(t.notes) {
		return memo.Note{}, false
	}
	return t.notes[t.cursor], true
}

// Update implements tea.Model.
func (t MemoTab) Update(msg tea.Msg) (MemoTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if t.cursor < len(t.notes)-1 {
				t.cursor++
			}
		case "k", "up":
			if t.cursor > 0 {
				t.cursor--
			}
		case "n":
			t.startEditing(memo.Note{})
			return t, t.form.Init()
		case "e", "enter":
			if n, ok := t.current(); ok {
				t.startEditing(n)
				return t, t.form.Init()
			}
		case "d":
			n, ok := t.current()
			if !ok {
				return t, nil
			}
			if err := t.ctrl.DeleteMemo(n.ID); err != nil {
				return t, status(fmt.Sprintf("delete memo: %v", err))
			}
			return t, tea.Batch(status("deleted "+n.Title), refreshNow)
		}
	}
	return t, nil
}

func (t MemoTab) updateEditing(msg tea.Msg) (MemoTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.editing = false
			t.form = nil
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.editing = false
		t.form = nil
		return t, t.applyForm()
	}
	return t, cmd
}

func (t *MemoTab) startEditing(n memo.Note) {
	t.editID = n.ID
	t.fTitle = n.Title
	t.fBody = n.Content

	w := max(t.width-4, 40)
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Placeholder(memo.DefaultTitle).
				Value(&t.fTitle),
			huh.NewText().
				Key("content").
				Title("Content").
				Lines(8).
				Value(&t.fBody),
		),
	).WithWidth(w).WithShowHelp(true)
	t.editing = true
}

func (t MemoTab) applyForm() tea.Cmd {
	if t.editID == "" {
		n, err := t.ctrl.AddMemo(t.fTitle, t.fBody)
		if err != nil {
			return status(fmt.Sprintf("add memo: %v", err))
		}
		return tea.Batch(status("added "+n.Title), refreshNow)
	}
	n, err := t.ctrl.EditMemo(t.editID, t.fTitle, t.fBody)
	if err != nil {
		return status(fmt.Sprintf("edit memo: %v", err))
	}
	return tea.Batch(status("saved "+n.Title), refreshNow)
}

// View implements tea.Model.
func (t MemoTab) View() string {
	style := lipgloss.NewStyle().Width(t.width).Height(t.height).Padding(1, 2)
	if t.editing && t.form != nil {
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Render("Editing memo") +
			lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + t.form.View())
	}

	if len(t.notes) == 0 {
		return lipgloss.NewStyle().
			Width(t.width).
			Height(t.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No memos. Press 'n' to write one.")
	}

	left := make([]string, 0, len(t.notes))
	for i, n := range t.notes {
		marker := "  "
		if i == t.cursor {
			marker = "> "
		}
		left = append(left, marker+n.Title)
	}

	var right []string
	if n, ok := t.current(); ok {
		right = append(right, n.Title, "edited "+n.LastEdited, "")
		right = append(right, strings.Split(n.Content, "\n")...)
	}

	lines := plugin.Columns(left, right, memoListWidth, max(t.width-4, memoListWidth+2))
	lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
		Render("n new  e edit  d delete  j/k move"))
	return style.Render(strings.Join(lines, "\n"))
}
