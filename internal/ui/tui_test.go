package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist/internal/session"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/todo"
)

func newTestModel(t *testing.T) (*Model, *session.Controller) {
	t.Helper()
	shim, err := storage.NewShim(storage.NewMemoryKV(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	st := store.New(shim, store.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	ctrl := session.New(st, nil)
	m := New(ctrl, nil)
	t.Cleanup(m.Close)
	return m, ctrl
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func pressRune(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

func TestEmptyView(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{title, emptyList, "[ADD]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSubmitAdds(t *testing.T) {
	m, ctrl := newTestModel(t)

	typeText(m, "  Buy milk  ")
	press(m, tea.KeyEnter)

	tasks := ctrl.Store().Tasks()
	if len(tasks) != 1 || tasks[0].Name != "Buy milk" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	view := m.View()
	if !strings.Contains(view, "[ ] Buy milk") {
		t.Errorf("view missing row:\n%s", view)
	}
	if strings.Contains(view, emptyList) {
		t.Error("empty placeholder shown with tasks present")
	}
}

func TestValidationErrorsShown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "Please enter a task"},
		{"blank", "    ", "Please enter a task"},
		{"too long", strings.Repeat("a", 51), "Task is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newTestModel(t)
			if tt.input != "" {
				typeText(m, tt.input)
			}
			press(m, tea.KeyEnter)

			if ctrl.Store().Len() != 0 {
				t.Error("invalid input must not add a task")
			}
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, m.View())
			}
			if m.input.Value() != tt.input {
				t.Errorf("input should be kept, got %q", m.input.Value())
			}
		})
	}
}

func TestEditFlow(t *testing.T) {
	m, ctrl := newTestModel(t)
	typeText(m, "Buy milk")
	press(m, tea.KeyEnter)

	press(m, tea.KeyTab)
	pressRune(m, 'e')

	if ctrl.Mode() != session.Editing {
		t.Fatalf("mode = %v, want Editing", ctrl.Mode())
	}
	if m.input.Value() != "Buy milk" {
		t.Errorf("input prefill = %q", m.input.Value())
	}
	if m.focus != focusInput {
		t.Error("edit should focus the input")
	}
	if !strings.Contains(m.View(), "[UPDATE]") {
		t.Errorf("label should be UPDATE:\n%s", m.View())
	}

	typeText(m, " and eggs")
	press(m, tea.KeyEnter)

	tasks := ctrl.Store().Tasks()
	if len(tasks) != 1 || tasks[0].Name != "Buy milk and eggs" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if ctrl.Mode() != session.Idle || !strings.Contains(m.View(), "[ADD]") {
		t.Error("submit should return to Idle")
	}
}

func TestEscCancelsEdit(t *testing.T) {
	m, ctrl := newTestModel(t)
	typeText(m, "Walk dog")
	press(m, tea.KeyEnter)
	press(m, tea.KeyTab)
	pressRune(m, 'e')

	press(m, tea.KeyEsc)

	if ctrl.Mode() != session.Idle {
		t.Errorf("mode = %v, want Idle", ctrl.Mode())
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if got := ctrl.Store().Tasks()[0].Name; got != "Walk dog" {
		t.Errorf("name changed to %q", got)
	}
}

func TestToggleAndCompletedControls(t *testing.T) {
	m, ctrl := newTestModel(t)
	typeText(m, "Read book")
	press(m, tea.KeyEnter)
	press(m, tea.KeyTab)

	if !strings.Contains(m.View(), "[e] [d]") {
		t.Errorf("open task should show edit control:\n%s", m.View())
	}

	pressRune(m, 'x')
	if !ctrl.Store().Tasks()[0].IsCompleted {
		t.Fatal("x should toggle completion")
	}
	view := m.View()
	if !strings.Contains(view, "[x] Read book") {
		t.Errorf("completed row missing:\n%s", view)
	}
	if strings.Contains(view, "[e]") {
		t.Errorf("completed task must not show edit control:\n%s", view)
	}

	pressRune(m, 'e')
	if ctrl.Mode() != session.Idle {
		t.Error("completed task must not enter Editing")
	}

	press(m, tea.KeySpace)
	if ctrl.Store().Tasks()[0].IsCompleted {
		t.Error("space should toggle back")
	}
}

func TestDeleteAndCursor(t *testing.T) {
	m, ctrl := newTestModel(t)
	for _, name := range []string{"one", "two", "three"} {
		typeText(m, name)
		press(m, tea.KeyEnter)
	}
	press(m, tea.KeyTab)

	pressRune(m, 'j')
	pressRune(m, 'j')
	pressRune(m, 'j')
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	pressRune(m, 'd')

	names := []string{}
	for _, task := range ctrl.Store().Tasks() {
		names = append(names, task.Name)
	}
	if strings.Join(names, ",") != "one,two" {
		t.Fatalf("names = %v", names)
	}
	if m.cursor != 1 {
		t.Errorf("cursor should clamp to 1, got %d", m.cursor)
	}

	press(m, tea.KeyUp)
	pressRune(m, 'k')
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestChangeNotificationRedraws(t *testing.T) {
	m, ctrl := newTestModel(t)

	if _, err := ctrl.Store().Add("from elsewhere"); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.Store().Add("and again"); err != nil {
		t.Fatal(err)
	}

	msg := waitForChange(m.changes)()
	if _, ok := msg.(changedMsg); !ok {
		t.Fatalf("msg = %T, want changedMsg", msg)
	}
	select {
	case <-m.changes:
		t.Error("notifications should coalesce into one pending signal")
	default:
	}

	m.tasks = nil
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Error("changedMsg should re-arm the listener")
	}
	if !strings.Contains(m.View(), "from elsewhere") {
		t.Errorf("view not refreshed:\n%s", m.View())
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	m, ctrl := newTestModel(t)
	m.Close()
	if _, err := ctrl.Store().Add("quiet"); err != nil {
		t.Fatal(err)
	}
	select {
	case _, ok := <-m.changes:
		if ok {
			t.Error("closed view should not be notified")
		}
	default:
		t.Error("Close should close the change channel")
	}
}

func TestCloseReleasesChangeListener(t *testing.T) {
	m, _ := newTestModel(t)

	done := make(chan tea.Msg, 1)
	go func() { done <- waitForChange(m.changes)() }()

	m.Close()
	m.Close()

	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("listener returned %T after Close, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("listener still blocked after Close")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	// q is text while the input has focus.
	pressRune(m, 'q')
	if m.input.Value() != "q" {
		t.Errorf("q should be typed into the input, got %q", m.input.Value())
	}

	cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}

	press(m, tea.KeyTab)
	cmd = pressRune(m, 'q')
	if cmd == nil {
		t.Fatal("q should quit from the list")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(todo.Task{Name: "a"}); got != "[ ] a" {
		t.Errorf("Summary = %q", got)
	}
	if got := Summary(todo.Task{Name: "b", IsCompleted: true}); got != "[x] b" {
		t.Errorf("Summary = %q", got)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
