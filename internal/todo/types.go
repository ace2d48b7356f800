// Package todo defines the task record and the persisted list format.
package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task is a single to-do entry.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
}

// List is the ordered task list in insertion order.
type List []Task

// Clone returns a copy of the list that shares no backing array with l.
// A nil list clones to an empty, non-nil list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Index returns the position of the task with id, or -1.
func (l List) Index(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a task by ID, or nil if not found.
func (l List) Get(id string) *Task {
	if i := l.Index(id); i >= 0 {
		return &l[i]
	}
	return nil
}

// CountCompleted returns the number of completed tasks.
func (l List) CountCompleted() int {
	n := 0
	for _, t := range l {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// Encode serializes the list as a JSON array with 2-space indentation.
// A nil list encodes as [] rather than null.
func Encode(l List) ([]byte, error) {
	if l == nil {
		l = List{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}

	// Add trailing newline
	return append(data, '\n'), nil
}

// Decode parses a stored value. It does not apply schema validation;
// use Validate for that.
func Decode(data []byte) (List, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("parse task list: empty value")
	}

	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	if l == nil {
		// "null" is what a missing value serializes to in some writers.
		l = List{}
	}
	return l, nil
}
