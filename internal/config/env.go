package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvDataDir       = "TASKLIST_DATA_DIR"
	EnvBackend       = "TASKLIST_BACKEND"
	EnvKey           = "TASKLIST_KEY"
	EnvLogFile       = "TASKLIST_LOG_FILE"
	EnvLogLevel      = "TASKLIST_LOG_LEVEL"
	EnvLogFormat     = "TASKLIST_LOG_FORMAT"
	EnvLogTimestamps = "TASKLIST_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKLIST_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	str(EnvDataDir, "data_dir", &cfg.DataDir)
	str(EnvBackend, "backend", &cfg.Backend)
	str(EnvKey, "key", &cfg.Key)
	str(EnvLogFile, "log_file", &cfg.LogFile)
	str(EnvLogLevel, "log_level", &cfg.LogLevel)
	str(EnvLogFormat, "log_format", &cfg.LogFormat)
	boolean(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	boolean(EnvLogCaller, "log_caller", &cfg.LogCaller)
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
