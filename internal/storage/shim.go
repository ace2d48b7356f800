package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/todo"
)

// Shim reads and writes the task list under one fixed key.
type Shim struct {
	kv     KV
	key    string
	logger *log.Logger
}

// NewShim binds a KV and key. A nil logger discards output; an empty key
// uses DefaultKey.
func NewShim(kv KV, key string, logger *log.Logger) (*Shim, error) {
	if kv == nil {
		return nil, errors.New("storage: nil KV")
	}
	if key == "" {
		key = DefaultKey
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Shim{kv: kv, key: key, logger: logger}, nil
}

// Key returns the storage key.
func (s *Shim) Key() string {
	return s.key
}

// Load returns the stored list. An absent key, read failure, or a value that
// is not a valid list yields an empty list; the failure is logged, never
// returned.
func (s *Shim) Load() todo.List {
	list, err := s.LoadStrict()
	if err != nil {
		s.logger.Warn("Discarding stored task list", "key", s.key, "err", err)
		return todo.List{}
	}
	return list
}

// LoadStrict is Load with failures reported. An absent key is not a failure.
func (s *Shim) LoadStrict() (todo.List, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok {
		s.logger.Debug("No stored task list", "key", s.key)
		return todo.List{}, nil
	}
	if result := todo.Validate(data); !result.Valid {
		return nil, fmt.Errorf("load %s: %w", s.key, result.Err())
	}
	list, err := todo.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	for _, problem := range todo.Check(list) {
		s.logger.Warn("Keeping stored task that breaks a constraint", "key", s.key, "problem", problem)
	}
	s.logger.Debug("Loaded task list", "key", s.key, "tasks", len(list))
	return list, nil
}

// Save writes the full list.
func (s *Shim) Save(list todo.List) error {
	data, err := todo.Encode(list)
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		s.logger.Error("Saving task list failed", "key", s.key, "err", err)
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	s.logger.Debug("Saved task list", "key", s.key, "tasks", len(list))
	return nil
}
