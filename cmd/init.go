package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tasklist/internal/appdir"
	"github.com/nibzard/tasklist/internal/config"
)

// initCommand writes an example config file into the project root.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	path := filepath.Join(cfg.ProjectRoot, appdir.ConfigFile)
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(stdout, "Skipping %s (already exists)\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

// configCommand prints the effective configuration with the source of each value.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	if file := cws.ConfigFile(); file != "" {
		fmt.Fprintf(stdout, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintln(stdout, "Config file: (none)")
		fmt.Fprintln(stdout)
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(stdout, "%-15s %-40s (%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return nil
}
