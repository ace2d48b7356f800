// Package store holds the in-memory task list and mirrors it to a Persister.
package store

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tasklist/internal/todo"
)

// ErrNotFound is returned when an operation names an id that is not in the list.
var ErrNotFound = errors.New("task not found")

// Persister loads the list once and saves it after every mutation.
type Persister interface {
	Load() todo.List
	Save(todo.List) error
}

// Op identifies a mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpToggle Op = "toggle"
)

// Event describes a completed mutation. SaveErr is set when the change was
// applied in memory but could not be persisted.
type Event struct {
	Op      Op
	ID      string
	SaveErr error
}

// Store is the ordered task list.
type Store struct {
	mu     sync.Mutex
	tasks  todo.List
	p      Persister
	logger *log.Logger
	newID  func() string

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New loads the list from p.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		p:      p,
		logger: log.New(io.Discard),
		newID:  uuid.NewString,
		subs:   make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load().Clone()
	s.logger.Debug("Store loaded", "tasks", len(s.tasks))
	return s
}

// Tasks returns a copy of the list in order.
func (s *Store) Tasks() todo.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (todo.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.tasks.Get(id); t != nil {
		return *t, true
	}
	return todo.Task{}, false
}

// Add appends a new, not completed task and returns its id. name is stored
// as given; callers validate it first.
func (s *Store) Add(name string) (string, error) {
	s.mu.Lock()
	id := s.newID()
	for s.tasks.Index(id) >= 0 {
		id = s.newID()
	}
	s.tasks = append(s.tasks, todo.Task{ID: id, Name: name})
	err := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Op: OpAdd, ID: id, SaveErr: err})
	return id, err
}

// Update replaces the name of the task with id. Completion is left as is.
func (s *Store) Update(id, name string) error {
	s.mu.Lock()
	t := s.tasks.Get(id)
	if t == nil {
		s.mu.Unlock()
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	t.Name = name
	err := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Op: OpUpdate, ID: id, SaveErr: err})
	return err
}

// Remove deletes the task with id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	i := s.tasks.Index(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	next := make(todo.List, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	err := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Op: OpRemove, ID: id, SaveErr: err})
	return err
}

// Toggle flips completion of the task with id.
func (s *Store) Toggle(id string) error {
	s.mu.Lock()
	t := s.tasks.Get(id)
	if t == nil {
		s.mu.Unlock()
		return fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	t.IsCompleted = !t.IsCompleted
	err := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Op: OpToggle, ID: id, SaveErr: err})
	return err
}

// Subscribe registers fn to run after every mutation. fn is called outside
// the store lock and may read the store. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(ev Event) {
	s.logger.Debug("Task list changed", "op", ev.Op, "id", ev.ID)

	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) saveLocked() error {
	if err := s.p.Save(s.tasks.Clone()); err != nil {
		s.logger.Error("Persisting task list failed", "err", err)
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
