package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/sprig/internal/presentation/tui"
	"github.com/aretw0/sprig/pkg/runner"
)

// RunSession runs a single form session in the terminal.
func RunSession(ctx context.Context, opts RunOptions) error {
	logger := CreateLogger(opts.Debug)
	quiet := opts.JSON || opts.Headless
	interactive := !quiet && IsTerminal(os.Stdout)

	if interactive {
		tui.PrintBanner(os.Stdout)
	}

	engine, err := NewEngine(opts, logger)
	if err != nil {
		return err
	}

	backend, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer backend.Close()

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	state, loaded, err := hydrateState(sigCtx, engine, backend.Store, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	persistent := opts.SessionID != ""
	logSessionStatus(logger, state, persistent, loaded, quiet)

	handler := newIOHandler(opts, interactive)
	r := runner.NewRunner(createRunnerOptions(logger, opts, backend.Store, handler)...)

	finalState, runErr := r.Run(sigCtx, engine, state)
	if finalState == nil {
		finalState = state
	}

	logCompletion(finalState, persistent, runErr, quiet, sigCtx.Signal())

	return handleExecutionError(runErr)
}
