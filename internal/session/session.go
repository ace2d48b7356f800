// Package session tracks which task, if any, the input form is editing.
//
// A Controller is in one of two modes. In Idle, a valid submission adds a
// new task. In Editing, entered with Edit on a task that is not completed, a
// valid submission renames that task and returns to Idle. Delete and Toggle
// never change the mode.
//
// If the task being edited is deleted before the form is submitted, the
// submission adds a new task instead.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/validate"
)

// ErrCompleted is returned by Edit for a completed task.
var ErrCompleted = errors.New("completed tasks cannot be edited")

// Mode is the edit-session state.
type Mode int

const (
	Idle Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "idle"
}

// Submit button labels.
const (
	LabelAdd    = "ADD"
	LabelUpdate = "UPDATE"
)

// Result describes a successful submission.
type Result struct {
	// Op is store.OpAdd or store.OpUpdate.
	Op store.Op
	// ID is the added or updated task.
	ID string
	// Name is the stored (trimmed) name.
	Name string
	// Fallback is set when an edit targeted a task that no longer exists
	// and the submission was added as a new task.
	Fallback bool
}

// Controller routes form submissions to the store.
type Controller struct {
	store  *store.Store
	logger *log.Logger

	mu        sync.Mutex
	editingID string

	subMu  sync.Mutex
	subs   map[int]func(Mode)
	nextID int
}

// New returns an Idle controller over st. A nil logger discards output.
func New(st *store.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		store:  st,
		logger: logger,
		subs:   make(map[int]func(Mode)),
	}
}

// Store returns the underlying store.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editingID == "" {
		return Idle
	}
	return Editing
}

// EditingID returns the id being edited, or "" when Idle.
func (c *Controller) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// Label returns the submit button label for the current mode.
func (c *Controller) Label() string {
	if c.Mode() == Editing {
		return LabelUpdate
	}
	return LabelAdd
}

// Edit enters Editing for id and returns the task's current name for the
// form. Completed or unknown tasks leave the mode unchanged.
func (c *Controller) Edit(id string) (string, error) {
	task, ok := c.store.Get(id)
	if !ok {
		return "", fmt.Errorf("edit %s: %w", id, store.ErrNotFound)
	}
	if task.IsCompleted {
		return "", fmt.Errorf("edit %s: %w", id, ErrCompleted)
	}
	c.setEditing(id)
	c.logger.Debug("Editing task", "id", id)
	return task.Name, nil
}

// Cancel returns to Idle without submitting.
func (c *Controller) Cancel() {
	if c.EditingID() == "" {
		return
	}
	c.setEditing("")
}

// Submit validates raw and adds or updates a task. Validation errors
// (validate.ErrEmptyTask, validate.ErrTooLong) leave the store and the mode
// untouched. A persistence error is returned alongside a valid Result: the
// change is applied in memory and the mode still returns to Idle.
func (c *Controller) Submit(raw string) (Result, error) {
	name, err := validate.Validate(raw)
	if err != nil {
		return Result{}, err
	}

	editing := c.EditingID()
	if editing != "" {
		err := c.store.Update(editing, name)
		if !errors.Is(err, store.ErrNotFound) {
			c.setEditing("")
			return Result{Op: store.OpUpdate, ID: editing, Name: name}, err
		}
		c.logger.Info("Edited task no longer exists; adding instead", "id", editing)
	}

	id, err := c.store.Add(name)
	c.setEditing("")
	return Result{Op: store.OpAdd, ID: id, Name: name, Fallback: editing != ""}, err
}

// Delete removes id. The edit session is left as is.
func (c *Controller) Delete(id string) error {
	return c.store.Remove(id)
}

// Toggle flips completion of id. The edit session is left as is.
func (c *Controller) Toggle(id string) error {
	return c.store.Toggle(id)
}

// Subscribe registers fn to run when the mode or edited task changes.
func (c *Controller) Subscribe(fn func(Mode)) (cancel func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) setEditing(id string) {
	c.mu.Lock()
	changed := c.editingID != id
	c.editingID = id
	c.mu.Unlock()
	if !changed {
		return
	}

	mode := Idle
	if id != "" {
		mode = Editing
	}
	c.subMu.Lock()
	fns := make([]func(Mode), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(mode)
	}
}
