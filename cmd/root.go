// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/session"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams; tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand. Without one, the list view runs on a
	// terminal and the plain listing everywhere else.
	subcommand := "ls"
	if ui.IsTTY(os.Stdout) {
		subcommand = "tui"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "log", "tail":
		return logCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app wires the configured backend, store and edit session together.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	kv     storage.KV
	shim   *storage.Shim
	store  *store.Store
	ctrl   *session.Controller
}

func openApp(cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(logging.OptionsFromConfig(
		cfg.LogLevel, cfg.LogFormat, cfg.LogFile, cfg.LogTimestamps, cfg.LogCaller,
	))
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	kv, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}

	shim, err := storage.NewShim(kv, cfg.Key, logger.Logger)
	if err != nil {
		kv.Close()
		logger.Close()
		return nil, err
	}

	st := store.New(shim, store.WithLogger(logger.Logger))
	logger.Debug("Opened task list", "backend", cfg.Backend, "dir", cfg.DataDir, "key", shim.Key(), "tasks", st.Len())

	return &app{
		cfg:    cfg,
		logger: logger,
		kv:     kv,
		shim:   shim,
		store:  st,
		ctrl:   session.New(st, logger.Logger),
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.kv.Close(), a.logger.Close())
}

func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.RunTUI(ctx, a.ctrl, a.logger.Logger)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "tasklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - A single-user to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Interactive list (default on a terminal)")
	fmt.Fprintln(w, "  ls [flags]          List tasks: --all, --open, --done, --ids (default otherwise)")
	fmt.Fprintln(w, "  add <name...>       Add a task")
	fmt.Fprintln(w, "  edit <ref> <name..> Rename an open task")
	fmt.Fprintln(w, "  done <ref>          Toggle completion of a task")
	fmt.Fprintln(w, "  rm <ref>            Delete a task")
	fmt.Fprintln(w, "  doctor [-v]         Check config, storage and the saved list")
	fmt.Fprintln(w, "  init                Write an example tasklist.toml")
	fmt.Fprintln(w, "  config              Show effective config values and their sources")
	fmt.Fprintln(w, "  log [-f] [-n N]     Show the log file")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <ref> is a 1-based position from ls or a unique id prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
