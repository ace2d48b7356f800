package session

import (
	"errors"
	"testing"

	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/todo"
	"github.com/nibzard/tasklist/internal/validate"
)

func newController(t *testing.T, initial todo.List) (*Controller, *storage.Shim) {
	t.Helper()
	kv := storage.NewMemoryKV()
	shim, err := storage.NewShim(kv, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if initial != nil {
		if err := shim.Save(initial); err != nil {
			t.Fatal(err)
		}
	}
	return New(store.New(shim), nil), shim
}

func TestSubmitIdleAdds(t *testing.T) {
	c, shim := newController(t, nil)

	if c.Mode() != Idle || c.Label() != LabelAdd {
		t.Fatalf("new controller mode = %v label = %s", c.Mode(), c.Label())
	}

	res, err := c.Submit("  buy milk  ")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Op != store.OpAdd || res.Name != "buy milk" || res.ID == "" {
		t.Errorf("result = %+v", res)
	}
	if c.Mode() != Idle {
		t.Error("mode should stay Idle after add")
	}
	if got := shim.Load(); len(got) != 1 || got[0].Name != "buy milk" {
		t.Errorf("persisted = %+v", got)
	}
}

func TestSubmitValidationErrors(t *testing.T) {
	c, shim := newController(t, todo.List{{ID: "a", Name: "old"}})
	if _, err := c.Edit("a"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		raw  string
		want error
	}{
		{"", validate.ErrEmptyTask},
		{"    ", validate.ErrEmptyTask},
		{"this task name is definitely longer than fifty characters", validate.ErrTooLong},
	}
	for _, tt := range tests {
		_, err := c.Submit(tt.raw)
		if !errors.Is(err, tt.want) {
			t.Errorf("Submit(%q) = %v, want %v", tt.raw, err, tt.want)
		}
	}

	if c.Mode() != Editing || c.EditingID() != "a" {
		t.Error("validation failure must not leave Editing")
	}
	got := shim.Load()
	if len(got) != 1 || got[0].Name != "old" {
		t.Errorf("validation failure mutated the list: %+v", got)
	}
}

func TestEditAndSubmitUpdates(t *testing.T) {
	c, shim := newController(t, todo.List{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "second"},
	})

	name, err := c.Edit("b")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if name != "second" {
		t.Errorf("prefill = %q, want second", name)
	}
	if c.Mode() != Editing || c.Label() != LabelUpdate || c.EditingID() != "b" {
		t.Errorf("after Edit: mode=%v label=%s id=%s", c.Mode(), c.Label(), c.EditingID())
	}

	res, err := c.Submit("second, renamed")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Op != store.OpUpdate || res.ID != "b" || res.Fallback {
		t.Errorf("result = %+v", res)
	}
	if c.Mode() != Idle {
		t.Error("successful submit should return to Idle")
	}

	got := shim.Load()
	if len(got) != 2 || got[1].ID != "b" || got[1].Name != "second, renamed" {
		t.Errorf("persisted = %+v", got)
	}
}

func TestEditRejectsCompleted(t *testing.T) {
	c, _ := newController(t, todo.List{{ID: "done", Name: "x", IsCompleted: true}})

	_, err := c.Edit("done")
	if !errors.Is(err, ErrCompleted) {
		t.Errorf("Edit(completed) = %v, want ErrCompleted", err)
	}
	if c.Mode() != Idle {
		t.Error("rejected Edit should not change mode")
	}

	_, err = c.Edit("missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Edit(missing) = %v, want ErrNotFound", err)
	}
}

func TestToggleWhileEditingKeepsCompletionOnUpdate(t *testing.T) {
	c, _ := newController(t, todo.List{{ID: "a", Name: "x"}})
	if _, err := c.Edit("a"); err != nil {
		t.Fatal(err)
	}
	// Completing the task through the other path while the form is open.
	if err := c.Toggle("a"); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != Editing {
		t.Error("Toggle must not change the edit session")
	}
	if _, err := c.Submit("y"); err != nil {
		t.Fatal(err)
	}
	task, _ := c.Store().Get("a")
	if !task.IsCompleted || task.Name != "y" {
		t.Errorf("task = %+v, want name y and still completed", task)
	}
}

func TestDeleteWhileEditingFallsBackToAdd(t *testing.T) {
	c, shim := newController(t, todo.List{
		{ID: "a", Name: "keep"},
		{ID: "b", Name: "doomed"},
	})
	if _, err := c.Edit("b"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("b"); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != Editing || c.EditingID() != "b" {
		t.Error("Delete must not change the edit session")
	}

	res, err := c.Submit("new one")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Op != store.OpAdd || !res.Fallback || res.ID == "b" {
		t.Errorf("result = %+v, want fallback add", res)
	}
	if c.Mode() != Idle {
		t.Error("should return to Idle")
	}
	got := shim.Load()
	if len(got) != 2 || got[1].Name != "new one" {
		t.Errorf("persisted = %+v", got)
	}
}

func TestCancel(t *testing.T) {
	c, _ := newController(t, todo.List{{ID: "a", Name: "x"}})
	c.Cancel()
	if c.Mode() != Idle {
		t.Fatal("Cancel on Idle changed mode")
	}
	c.Edit("a")
	c.Cancel()
	if c.Mode() != Idle || c.EditingID() != "" {
		t.Error("Cancel should return to Idle")
	}
}

func TestSubscribeModeChanges(t *testing.T) {
	c, _ := newController(t, todo.List{{ID: "a", Name: "x"}, {ID: "b", Name: "y"}})

	var modes []Mode
	cancel := c.Subscribe(func(m Mode) { modes = append(modes, m) })

	c.Edit("a")
	c.Edit("a") // same id, no change
	c.Edit("b")
	c.Submit("z")
	c.Submit("w") // add while Idle, no mode change

	want := []Mode{Editing, Editing, Idle}
	if len(modes) != len(want) {
		t.Fatalf("modes = %v, want %v", modes, want)
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Errorf("mode %d = %v, want %v", i, modes[i], want[i])
		}
	}

	cancel()
	c.Edit("a")
	if len(modes) != len(want) {
		t.Error("cancelled subscriber was called")
	}
}

func TestModeString(t *testing.T) {
	if Idle.String() != "idle" || Editing.String() != "editing" {
		t.Errorf("String() = %s / %s", Idle, Editing)
	}
}
