package cli

import (
	"context"
	"fmt"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	// Path is a tree document or a directory holding one.
	Path      string
	Policy    string
	Entry     string
	SessionID string
	RedisURL  string
	Headless  bool
	Watch     bool
	JSON      bool
	Debug     bool
	Fresh     bool
}

// Execute handles the 'run' command logic, dispatching to Session or Watch mode.
func Execute(ctx context.Context, opts RunOptions) error {
	doc, err := ResolveDocument(opts.Path)
	if err != nil {
		return err
	}
	opts.Path = doc

	if opts.Watch {
		if opts.Headless || opts.JSON {
			return fmt.Errorf("--watch cannot be combined with --headless or --json")
		}
		return RunWatch(ctx, opts)
	}

	if opts.Fresh && opts.SessionID != "" {
		if err := ResetSession(ctx, opts, opts.SessionID); err != nil {
			return err
		}
	}

	return RunSession(ctx, opts)
}
