package config

import (
	"fmt"
	"slices"

	"github.com/nibzard/tasklist/internal/appdir"
	"github.com/nibzard/tasklist/internal/storage"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultDataDir   = "~/" + appdir.Dir
	DefaultBackend   = storage.BackendFile
	DefaultKey       = storage.DefaultKey
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	DataDir string `toml:"data_dir"`
	Backend string `toml:"backend"`
	Key     string `toml:"key"`

	// Logging. An empty LogFile means tasklist.log inside DataDir;
	// "-" means stderr.
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Computed
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"backend",
		"key",
		"log_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Value returns the effective value of a field as a string.
func (c *Config) Value(field string) string {
	switch field {
	case "data_dir":
		return c.DataDir
	case "backend":
		return c.Backend
	case "key":
		return c.Key
	case "log_file":
		return c.LogFile
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Validate checks the values that cannot be recovered from at runtime.
func (c *Config) Validate() error {
	if !slices.Contains(storage.Backends(), c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, storage.Backends())
	}
	if err := storage.ValidateKey(c.Key); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q (want text, json or logfmt)", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
