package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist/internal/utils"
)

// MaxNameLength is the longest task name Check accepts.
const MaxNameLength = 50

const schemaURL = "tasklist://todo.schema.json"

// Schema is the JSON Schema of the persisted layout. It checks structure
// only; per-record constraints are reported by Check.
var Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tasklist persisted value",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "isCompleted"],
    "properties": {
      "id": {"type": "string"},
      "name": {"type": "string"},
      "isCompleted": {"type": "boolean"}
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// Err joins the collected errors, or returns nil for a valid result.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Validate checks a raw stored value against Schema. Values that are not
// JSON at all produce a single error at the root path. A structurally valid
// value may still hold records that Check reports.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	s, err := schema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("invalid JSON: %w", err),
		})
		return result
	}

	if err := s.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

// Check reports records that break the constraints new input is held to:
// an empty id, a blank name, a name longer than MaxNameLength runes, or an
// id already used by an earlier record. Such records still load.
func Check(l List) []error {
	var errs []error
	seen := make(map[string]int, len(l))
	for i, t := range l {
		if t.ID == "" {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("[%d].id", i), Err: errors.New("empty id")})
		} else if first, dup := seen[t.ID]; dup {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q (first at [%d])", t.ID, first),
			})
		} else {
			seen[t.ID] = i
		}

		name := strings.TrimSpace(t.Name)
		switch {
		case name == "":
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("[%d].name", i), Err: errors.New("empty name")})
		case utf8.RuneCountInString(name) > MaxNameLength:
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].name", i),
				Err:  fmt.Errorf("name longer than %d characters", MaxNameLength),
			})
		}
	}
	return errs
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
