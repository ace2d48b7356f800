package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags

# Directory holding the task data (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.tasklist"

# Storage backend: file (one JSON file per key), sqlite, or memory
backend = "file"

# Storage key of the task list
key = "todos"

# Log file; empty means tasklist.log inside data_dir, "-" means stderr
# log_file = ""

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false
`
}
