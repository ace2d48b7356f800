// Package todo defines the task record and the persisted list format.
//
// The list is stored as a single JSON array under one key:
//
//	[
//	  {"id": "2f1c0c4e-8f0b-4a55-9a0e-3b7d0f2e9a11", "name": "buy milk", "isCompleted": false},
//	  {"id": "9b7e4d35-1c2a-4f5e-8a4b-6d1e2c3f4a5b", "name": "walk dog", "isCompleted": true}
//	]
//
// # Validation
//
// Decoded values are checked against an embedded JSON Schema (draft 2020-12):
//   - the top-level value must be an array
//   - each element requires a string "id", a string "name" and a boolean "isCompleted"
//
// A value that fails the schema is unusable and loads as an empty list.
// Check reports records that are well formed but break the input rules
// (empty id or name, a name over 50 characters, a repeated id); those
// records are kept.
//
// # File Format
//
// Encode writes 2-space indentation with a trailing newline so that values
// stored by the file backend stay readable and diff cleanly.
package todo
