package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
)

// logCommand prints the log file.
func logCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist log", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LogFile == logging.StderrFile {
		return errors.New("logging goes to stderr; there is no log file")
	}
	if _, err := os.Stat(cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "No log file found.")
		return nil
	}

	if *follow {
		fmt.Fprintf(stdout, "Tailing: %s\n(Ctrl+C to stop)\n\n", cfg.LogFile)
	}
	return logging.TailLog(ctx, stdout, cfg.LogFile, *n, *follow)
}
