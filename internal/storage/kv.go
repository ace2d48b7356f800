// Package storage persists the task list in a local key-value slot.
package storage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultKey is the key the task list is stored under.
const DefaultKey = "todos"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: closed")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// KV is a minimal synchronous key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set replaces the value for key.
	Set(key string, value []byte) error
	// Close releases the backend.
	Close() error
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open creates the named backend rooted at dir. An empty name selects the
// file backend.
func Open(backend, dir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileKV(dir)
	case BackendSQLite:
		return NewSQLiteKV(SQLitePath(dir))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s)", backend, strings.Join(Backends(), "|"))
	}
}

// ValidateKey reports whether key is usable by every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid storage key %q: use letters, digits, '.', '_' or '-'", key)
	}
	return nil
}
