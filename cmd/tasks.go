package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/session"
	"github.com/nibzard/tasklist/internal/ui"
)

// lsCommand lists tasks in insertion order, numbered by position.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	all := fs.Bool("all", false, "Show all tasks (default)")
	open := fs.Bool("open", false, "Show only open tasks")
	done := fs.Bool("done", false, "Show only completed tasks")
	ids := fs.Bool("ids", false, "Show task ids")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	filters := 0
	for _, set := range []bool{*all, *open, *done} {
		if set {
			filters++
		}
	}
	if filters > 1 {
		return errors.New("--all, --open and --done are mutually exclusive")
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.store.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "No Items To Do")
		return nil
	}

	// Positions always refer to the unfiltered list so they stay valid refs.
	shown := 0
	for i, t := range tasks {
		if (*open && t.IsCompleted) || (*done && !t.IsCompleted) {
			continue
		}
		line := fmt.Sprintf("%4d  %s", i+1, ui.Summary(t))
		if *ids {
			line += "  (" + t.ID + ")"
		}
		fmt.Fprintln(stdout, line)
		shown++
	}
	switch {
	case shown > 0:
	case *open:
		fmt.Fprintln(stdout, "No open tasks")
	case *done:
		fmt.Fprintln(stdout, "No completed tasks")
	}
	return nil
}

// addCommand adds a task named by the joined arguments.
func addCommand(cfg *config.Config, args []string) error {
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.ctrl.Submit(strings.Join(args, " ")); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

// editCommand renames an open task.
func editCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrTaskRefRequired
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := resolveTaskRef(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	if _, err := a.ctrl.Edit(task.ID); err != nil {
		if errors.Is(err, session.ErrCompleted) {
			return fmt.Errorf("task %s is completed; run 'done %s' first to reopen it", args[0], args[0])
		}
		return err
	}
	if _, err := a.ctrl.Submit(strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

// doneCommand toggles completion of a task.
func doneCommand(cfg *config.Config, args []string) error {
	return withTaskRef(cfg, args, func(ctrl *session.Controller, id string) error {
		return ctrl.Toggle(id)
	})
}

// rmCommand deletes a task.
func rmCommand(cfg *config.Config, args []string) error {
	return withTaskRef(cfg, args, func(ctrl *session.Controller, id string) error {
		return ctrl.Delete(id)
	})
}

func withTaskRef(cfg *config.Config, args []string, fn func(*session.Controller, string) error) error {
	if len(args) == 0 {
		return ErrTaskRefRequired
	}
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := resolveTaskRef(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := fn(a.ctrl, task.ID); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}
