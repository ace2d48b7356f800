// Package validate checks task names entered by the user.
package validate

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/nibzard/tasklist/internal/todo"
)

// MaxLength is the longest accepted task name, in characters, after trimming.
const MaxLength = todo.MaxNameLength

var (
	// ErrEmptyTask is returned when the input is blank after trimming.
	ErrEmptyTask = errors.New("Please enter a task")
	// ErrTooLong is returned when the trimmed input exceeds MaxLength.
	ErrTooLong = errors.New("Task is too long")
)

// Validate trims raw and checks it is a usable task name.
// It returns the trimmed name, or ErrEmptyTask / ErrTooLong.
func Validate(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return "", ErrEmptyTask
	}
	if n > MaxLength {
		return "", ErrTooLong
	}
	return name, nil
}

// Message returns the user-facing text for a validation error, or "" for nil.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyTask):
		return ErrEmptyTask.Error()
	case errors.Is(err, ErrTooLong):
		return ErrTooLong.Error()
	default:
		return err.Error()
	}
}
