package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/nibzard/tasklist/internal/todo"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// resolveTaskRef finds the task named by ref: a 1-based position in tasks,
// or a prefix of exactly one task id.
func resolveTaskRef(tasks todo.List, ref string) (todo.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return todo.Task{}, ErrTaskRefRequired
	}

	if isAllDigits(ref) {
		n, err := strconv.Atoi(ref)
		if err != nil || n < 1 || n > len(tasks) {
			return todo.Task{}, fmt.Errorf("no task at position %s (have %d)", ref, len(tasks))
		}
		return tasks[n-1], nil
	}

	var matches []todo.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return todo.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return todo.Task{}, fmt.Errorf("ambiguous task reference %q matches %d tasks", ref, len(matches))
	}
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
