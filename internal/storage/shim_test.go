package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/todo"
)

// failingKV returns errors for every call.
type failingKV struct{ err error }

func (f failingKV) Get(string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingKV) Set(string, []byte) error         { return f.err }
func (f failingKV) Close() error                     { return nil }

func newTestShim(t *testing.T, kv KV) (*Shim, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	shim, err := NewShim(kv, "", logger)
	if err != nil {
		t.Fatalf("NewShim: %v", err)
	}
	return shim, &buf
}

func TestShimRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			shim, _ := newTestShim(t, kv)
			list := todo.List{
				{ID: "1", Name: "buy milk"},
				{ID: "2", Name: "walk dog", IsCompleted: true},
			}
			if err := shim.Save(list); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got := shim.Load()
			if len(got) != len(list) {
				t.Fatalf("Load returned %d tasks, want %d", len(got), len(list))
			}
			for i := range list {
				if got[i] != list[i] {
					t.Errorf("task %d: got %+v, want %+v", i, got[i], list[i])
				}
			}
		})
	}
}

func TestShimLoadAbsent(t *testing.T) {
	shim, _ := newTestShim(t, NewMemoryKV())
	got := shim.Load()
	if got == nil || len(got) != 0 {
		t.Errorf("Load on absent key = %#v, want empty list", got)
	}
	if _, err := shim.LoadStrict(); err != nil {
		t.Errorf("LoadStrict on absent key = %v, want nil", err)
	}
}

func TestShimLoadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"garbage", "not json at all"},
		{"empty", ""},
		{"wrong shape", `{"tasks":[]}`},
		{"missing fields", `[{"id":"a"}]`},
		{"bad type", `[{"id":"a","name":"x","isCompleted":1}]`},
		{"null element", `[null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			kv.Set(DefaultKey, []byte(tt.value))
			shim, logs := newTestShim(t, kv)

			got := shim.Load()
			if got == nil || len(got) != 0 {
				t.Errorf("Load() = %#v, want empty list", got)
			}
			if _, err := shim.LoadStrict(); err == nil {
				t.Error("LoadStrict() should report the failure")
			}
			if !strings.Contains(logs.String(), "Discarding stored task list") {
				t.Errorf("expected a warning in logs, got %q", logs.String())
			}
		})
	}
}

func TestShimKeepsRecordsBreakingConstraints(t *testing.T) {
	long := strings.Repeat("a", todo.MaxNameLength+1)
	tests := []struct {
		name    string
		value   string
		wantLen int
	}{
		{"name too long", `[{"id":"1","name":"keep me","isCompleted":false},{"id":"2","name":"` + long + `","isCompleted":true}]`, 2},
		{"empty name", `[{"id":"1","name":"keep me","isCompleted":false},{"id":"2","name":"","isCompleted":false}]`, 2},
		{"duplicate ids", `[{"id":"1","name":"keep me","isCompleted":false},{"id":"1","name":"twin","isCompleted":false}]`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			kv.Set(DefaultKey, []byte(tt.value))
			shim, logs := newTestShim(t, kv)

			got := shim.Load()
			if len(got) != tt.wantLen {
				t.Fatalf("Load() returned %d tasks, want %d", len(got), tt.wantLen)
			}
			if got[0].Name != "keep me" {
				t.Errorf("first task = %+v", got[0])
			}
			if strings.Contains(logs.String(), "Discarding stored task list") {
				t.Error("a well-formed list must not be discarded")
			}
			if !strings.Contains(logs.String(), "breaks a constraint") {
				t.Errorf("expected a per-record warning, got %q", logs.String())
			}

			// Saving the loaded list back keeps every record.
			if err := shim.Save(append(got, todo.Task{ID: "3", Name: "new"})); err != nil {
				t.Fatal(err)
			}
			if reloaded := shim.Load(); len(reloaded) != tt.wantLen+1 {
				t.Errorf("after save: %d tasks, want %d", len(reloaded), tt.wantLen+1)
			}
		})
	}
}

func TestShimReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	shim, _ := newTestShim(t, failingKV{err: boom})

	if got := shim.Load(); len(got) != 0 {
		t.Errorf("Load() = %#v, want empty list", got)
	}
	if err := shim.Save(todo.List{{ID: "1", Name: "x"}}); !errors.Is(err, boom) {
		t.Errorf("Save() error = %v, want wrapped %v", err, boom)
	}
}

func TestShimSavesEmptyListAsArray(t *testing.T) {
	kv := NewMemoryKV()
	shim, _ := newTestShim(t, kv)
	if err := shim.Save(nil); err != nil {
		t.Fatal(err)
	}
	raw, ok, _ := kv.Get(DefaultKey)
	if !ok || strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("stored value = %q, want []", raw)
	}
}

func TestNewShim(t *testing.T) {
	if _, err := NewShim(nil, "", nil); err == nil {
		t.Error("expected error for nil KV")
	}
	if _, err := NewShim(NewMemoryKV(), "../x", nil); err == nil {
		t.Error("expected error for invalid key")
	}
	shim, err := NewShim(NewMemoryKV(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if shim.Key() != DefaultKey {
		t.Errorf("Key() = %q, want %q", shim.Key(), DefaultKey)
	}
}
