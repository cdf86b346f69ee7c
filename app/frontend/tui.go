package frontend

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/app/models"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// syncMsg is sent after a controller call finishes.
type syncMsg struct{}

// addedMsg reports the outcome of an add so the input can be cleared.
type addedMsg struct{ ok bool }

type tuiModel struct {
	ctx    context.Context
	ctrl   *Controller
	mode   mode
	input  []rune
	editID int
	cursor int
}

func newTUIModel(ctx context.Context, ctrl *Controller) *tuiModel {
	return &tuiModel{ctx: ctx, ctrl: ctrl}
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *Controller) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newTUIModel(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *tuiModel) Init() tea.Cmd {
	return m.call(func(ctx context.Context) { _ = m.ctrl.Load(ctx) })
}

// call runs fn off the UI goroutine.
func (m *tuiModel) call(fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(m.ctx)
		return syncMsg{}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncMsg:
		m.clampCursor()
	case addedMsg:
		if msg.ok {
			m.input = nil
		}
		m.clampCursor()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.ctrl.Visible()
	selected, hasSelection := models.Task{}, m.cursor < len(visible)
	if hasSelection {
		selected = visible[m.cursor]
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "a":
		m.mode = modeAdd
	case "e", "enter":
		if hasSelection {
			m.mode = modeEdit
			m.editID = selected.ID
			m.input = []rune(selected.Title)
		}
	case " ", "x":
		if hasSelection {
			return m, m.call(func(ctx context.Context) { m.ctrl.Toggle(ctx, selected.ID) })
		}
	case "d":
		if hasSelection {
			return m, m.call(func(ctx context.Context) { m.ctrl.Delete(ctx, selected.ID) })
		}
	case "c":
		if m.ctrl.Stats().Completed > 0 {
			return m, m.call(m.ctrl.ClearCompleted)
		}
	case "1":
		m.setFilter(FilterAll)
	case "2":
		m.setFilter(FilterActive)
	case "3":
		m.setFilter(FilterCompleted)
	case "r":
		return m, m.call(func(ctx context.Context) { _ = m.ctrl.Load(ctx) })
	case "esc":
		m.ctrl.DismissError()
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeAdd && m.ctrl.Submitting() {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = nil
	case tea.KeyEnter:
		return m, m.submit()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *tuiModel) submit() tea.Cmd {
	text := string(m.input)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	switch m.mode {
	case modeAdd:
		if m.ctrl.Submitting() {
			return nil
		}
		return func() tea.Msg {
			return addedMsg{ok: m.ctrl.Add(m.ctx, text)}
		}
	case modeEdit:
		id := m.editID
		m.mode = modeBrowse
		m.input = nil
		return m.call(func(ctx context.Context) { m.ctrl.UpdateTitle(ctx, id, text) })
	}
	return nil
}

func (m *tuiModel) setFilter(f Filter) {
	m.ctrl.SetFilter(f)
	m.cursor = 0
}

func (m *tuiModel) clampCursor() {
	n := len(m.ctrl.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todo List") + "\n")
	b.WriteString(subtitleStyle.Render("Stay organized and productive") + "\n\n")

	if msg := m.ctrl.Error(); msg != "" {
		b.WriteString(errorStyle.Render(msg+"  (esc to dismiss)") + "\n\n")
	}

	m.writeInput(&b)

	if m.ctrl.Loading() {
		b.WriteString("Loading todos...\n\n")
		writeHelp(&b)
		return b.String()
	}

	stats := m.ctrl.Stats()
	m.writeFilters(&b, stats)
	m.writeList(&b)

	if stats.Completed > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("c: Clear Completed (%d)", stats.Completed)) + "\n\n")
	}
	writeHelp(&b)
	return b.String()
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	switch {
	case m.mode == modeAdd && m.ctrl.Submitting():
		b.WriteString("> " + string(m.input) + "  adding...\n\n")
	case m.mode == modeAdd:
		b.WriteString("> " + string(m.input) + cursorStyle.Render("_") + "\n\n")
	default:
		b.WriteString(hintStyle.Render("> What needs to be done? (a to add)") + "\n\n")
	}
}

func (m *tuiModel) writeFilters(b *strings.Builder, stats Stats) {
	tabs := []struct {
		filter Filter
		label  string
	}{
		{FilterAll, fmt.Sprintf("1 All (%d)", stats.Total)},
		{FilterActive, fmt.Sprintf("2 Active (%d)", stats.Active)},
		{FilterCompleted, fmt.Sprintf("3 Done (%d)", stats.Completed)},
	}
	current := m.ctrl.Filter()
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.filter == current {
			parts = append(parts, activeTab.Render(tab.label))
			continue
		}
		parts = append(parts, tab.label)
	}
	b.WriteString(strings.Join(parts, "   ") + "\n\n")
}

func (m *tuiModel) writeList(b *strings.Builder) {
	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		if empty, ok := m.ctrl.EmptyState(); ok {
			b.WriteString("  " + empty.Title + "\n")
			b.WriteString("  " + subtitleStyle.Render(empty.Subtitle) + "\n\n")
		}
		return
	}

	for i, task := range visible {
		pointer := "  "
		if i == m.cursor && m.mode == modeBrowse {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}

		title := task.Title
		switch {
		case m.mode == modeEdit && task.ID == m.editID:
			title = string(m.input) + cursorStyle.Render("_") + hintStyle.Render("  enter save, esc cancel")
		case task.Completed:
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", pointer, box, title))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(hintStyle.Render("a add | e edit | space toggle | d delete | c clear | 1-3 filter | r reload | q quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
