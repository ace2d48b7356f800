package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/todo"
)

func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(stdout, "Tasklist Doctor")
	fmt.Fprintln(stdout, "===============")
	fmt.Fprintln(stdout)

	allOK := true

	// Config
	fmt.Fprintln(stdout, "Config:")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "⚠️  Some checks failed. Tasklist may not function correctly.")
		return fmt.Errorf("doctor checks failed")
	}
	fmt.Fprintf(stdout, "  ✅ Backend: %s\n", cfg.Backend)
	fmt.Fprintf(stdout, "  ✅ Key: %s\n", cfg.Key)
	if *verbose {
		fmt.Fprintf(stdout, "     Log file: %s\n", cfg.LogFile)
		fmt.Fprintf(stdout, "     Log level: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	}
	fmt.Fprintln(stdout)

	// Data directory
	fmt.Fprintf(stdout, "Data directory: %s\n", cfg.DataDir)
	if cfg.Backend == storage.BackendMemory {
		fmt.Fprintln(stdout, "  ⚠️  Memory backend: tasks are not kept between runs")
	} else if info, err := os.Stat(cfg.DataDir); err == nil && !info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Not a directory")
		allOK = false
	} else if err == nil {
		fmt.Fprintln(stdout, "  ✅ OK")
	} else if os.IsNotExist(err) {
		fmt.Fprintln(stdout, "  ⚠️  Missing (created on first save)")
	} else {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	}
	fmt.Fprintln(stdout)

	// Storage and saved value
	fmt.Fprintln(stdout, "Storage:")
	if ok := checkStorage(cfg, *verbose); !ok {
		allOK = false
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. Tasklist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func checkStorage(cfg *config.Config, verbose bool) bool {
	kv, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Open %s backend: %v\n", cfg.Backend, err)
		return false
	}
	defer kv.Close()
	fmt.Fprintf(stdout, "  ✅ Open %s backend\n", cfg.Backend)
	if verbose {
		switch b := kv.(type) {
		case *storage.FileKV:
			fmt.Fprintf(stdout, "     File: %s\n", b.Path(cfg.Key))
		case *storage.SQLiteKV:
			fmt.Fprintf(stdout, "     Database: %s\n", storage.SQLitePath(cfg.DataDir))
		}
	}

	shim, err := storage.NewShim(kv, cfg.Key, nil)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}
	list, err := shim.LoadStrict()
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Saved list under %q is invalid and will load as empty:\n", cfg.Key)
		fmt.Fprintf(stdout, "     %v\n", err)
		return false
	}
	fmt.Fprintf(stdout, "  ✅ Saved list under %q: %d tasks, %d completed\n", cfg.Key, len(list), list.CountCompleted())

	problems := todo.Check(list)
	if len(problems) == 0 {
		return true
	}
	fmt.Fprintf(stdout, "  ⚠️  %d stored tasks break the input rules (kept; edit or remove them):\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(stdout, "     - %v\n", p)
	}
	return false
}
