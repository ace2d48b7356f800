package config

import "flag"

// flagFields maps global flag names to config field names.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"backend":        "backend",
	"key":            "key",
	"log-file":       "log_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags binds the global flags to cfg and parses args.
// If sources is non-nil, explicitly set flags are attributed to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task data")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "Storage key of the task list")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (- for stderr)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
