// Package appdir provides constants and utilities for the .tasklist directory structure.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the tasklist state directory.
	Dir = ".tasklist"

	// ConfigFile is the config file name (inside .tasklist or the project root).
	ConfigFile = "tasklist.toml"

	// HiddenConfigFile is the alternative project-level config file name.
	HiddenConfigFile = ".tasklist.toml"

	// LogFile is the default log file name (inside .tasklist).
	LogFile = "tasklist.log"
)

// Home returns the tasklist directory under the user's home directory.
// It falls back to Dir relative to the working directory when the home
// directory cannot be determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the full path to the config file within base.
func ConfigPath(base string) string {
	return joinPath(base, ConfigFile)
}

// LogPath returns the full path to the log file within base.
func LogPath(base string) string {
	return joinPath(base, LogFile)
}

func joinPath(base, file string) string {
	if base == "" {
		base = "."
	}
	return filepath.Join(base, file)
}
