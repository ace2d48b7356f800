// Package ui provides the terminal interface for the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/session"
	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/todo"
	"github.com/nibzard/tasklist/internal/utils"
	"github.com/nibzard/tasklist/internal/validate"
)

const (
	title       = "My To-Do List"
	placeholder = "Add a task..."
	emptyList   = "No Items To Do"

	// inputLimit lets overlong names reach the validator.
	inputLimit = 4 * validate.MaxLength
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ec9b0"))
	buttonStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ec9b0"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d73a4a"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#666"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	controlStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c07b"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666"))
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// changedMsg reports that the store or the edit session changed.
type changedMsg struct{}

// Model is the bubbletea model of the task list view.
type Model struct {
	ctrl   *session.Controller
	logger *log.Logger

	input    textinput.Model
	focus    focus
	cursor   int
	tasks    todo.List
	inputErr error
	status   string

	mu      sync.Mutex
	closed  bool
	changes chan struct{}
	cancels []func()
}

// New returns a view over ctrl, subscribed to the controller and its store.
// Call Close to unsubscribe.
func New(ctrl *session.Controller, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = inputLimit
	input.Width = validate.MaxLength
	input.Prompt = "> "
	input.Focus()

	m := &Model{
		ctrl:    ctrl,
		logger:  logger,
		input:   input,
		changes: make(chan struct{}, 1),
	}
	m.cancels = append(m.cancels,
		ctrl.Store().Subscribe(func(store.Event) { m.notify() }),
		ctrl.Subscribe(func(session.Mode) { m.notify() }),
	)
	m.refresh()
	return m
}

// Close unsubscribes the view from the store and the controller and
// releases the change listener. It is safe to call more than once.
func (m *Model) Close() {
	for _, cancel := range m.cancels {
		cancel()
	}
	m.cancels = nil

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.changes)
	}
}

// notify coalesces change notifications; one pending signal is enough to
// trigger a redraw.
func (m *Model) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Init starts the cursor blink and the change listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

// Update handles keys and change notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "tab" {
			m.switchFocus()
			return m, nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil
	case "esc":
		if m.ctrl.Mode() == session.Editing {
			m.ctrl.Cancel()
			m.input.Reset()
			m.inputErr = nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "e":
		if task, ok := m.selected(); ok {
			m.edit(task)
		}
	case "d":
		if task, ok := m.selected(); ok {
			m.report("delete", m.ctrl.Delete(task.ID))
		}
	case " ", "space", "x":
		if task, ok := m.selected(); ok {
			m.report("toggle", m.ctrl.Toggle(task.ID))
		}
	}
	m.refresh()
	return m, nil
}

func (m *Model) submit() {
	res, err := m.ctrl.Submit(m.input.Value())
	if errors.Is(err, validate.ErrEmptyTask) || errors.Is(err, validate.ErrTooLong) {
		m.inputErr = err
		return
	}

	m.inputErr = nil
	m.input.Reset()
	m.status = ""
	if res.Fallback {
		m.status = "The edited task was deleted; added it as a new task"
	}
	m.report("save", err)
	m.refresh()
}

func (m *Model) edit(task todo.Task) {
	name, err := m.ctrl.Edit(task.ID)
	if err != nil {
		// Completed tasks have no edit control.
		if !errors.Is(err, session.ErrCompleted) {
			m.report("edit", err)
		}
		return
	}
	m.input.SetValue(name)
	m.input.CursorEnd()
	m.inputErr = nil
	m.setFocus(focusInput)
}

// report shows a recoverable error in the status line.
func (m *Model) report(action string, err error) {
	if err == nil {
		return
	}
	m.logger.Error("Task list operation failed", "action", action, "error", err)
	m.status = fmt.Sprintf("Could not %s: %v", action, err)
}

func (m *Model) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) switchFocus() {
	if m.focus == focusInput {
		m.setFocus(focusList)
		return
	}
	m.setFocus(focusInput)
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) refresh() {
	m.tasks = m.ctrl.Store().Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the form and the list.
func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)
	m.writeForm(&b)
	m.writeList(&b)
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n\n")
	}
	writeHelp(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *Model) writeForm(b *strings.Builder) {
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(buttonStyle.Render("[" + m.ctrl.Label() + "]"))
	b.WriteString("\n")
	if msg := validate.Message(m.inputErr); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	b.WriteString("\n")
}

func (m *Model) writeList(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  " + emptyList + "\n\n")
		return
	}
	editing := m.ctrl.EditingID()
	for i, task := range m.tasks {
		b.WriteString(m.formatRow(i, task, task.ID == editing))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *Model) formatRow(i int, task todo.Task, editing bool) string {
	marker := " "
	if m.focus == focusList && i == m.cursor {
		marker = ">"
	}

	box := "[ ]"
	name := task.Name
	if task.IsCompleted {
		box = "[x]"
		name = doneStyle.Render(name)
	}
	if m.focus == focusList && i == m.cursor {
		name = selectedStyle.Render(name)
	}
	if editing {
		name += controlStyle.Render(" (editing)")
	}

	controls := "[d]"
	if !task.IsCompleted {
		controls = "[e] " + controls
	}
	return fmt.Sprintf("%s %s %s  %s", marker, box, name, controlStyle.Render(controls))
}

func writeHelp(b *strings.Builder) {
	b.WriteString(helpStyle.Render("tab focus | enter submit | esc cancel edit | j/k move | e edit | d delete | space toggle | q quit"))
	b.WriteString("\n")
}

// Summary returns a one-line description of a task for logs and messages.
func Summary(task todo.Task) string {
	box := "[ ]"
	if task.IsCompleted {
		box = "[x]"
	}
	return box + " " + utils.Truncate(task.Name, validate.MaxLength)
}

// RunTUI runs the interactive view until the user quits or ctx is done.
func RunTUI(ctx context.Context, ctrl *session.Controller, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := New(ctrl, logger)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
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
