package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/aretw0/sprig/internal/logging"
	"github.com/aretw0/sprig/internal/presentation/tui"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/ports"
	"github.com/aretw0/sprig/pkg/runner"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout form UI).
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// NewSessionID returns a random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func logSessionStatus(logger *slog.Logger, state *domain.State, persistent, loaded, quiet bool) {
	switch {
	case loaded:
		logger.Info("Session Resumed", "session_id", state.SessionID, "answers", len(state.Answers))
		if !quiet {
			printSystemMessage("Resuming session '%s' with %d answer(s).", state.SessionID, len(state.Answers))
		}
	case persistent:
		logger.Info("Session Created", "session_id", state.SessionID)
		if !quiet {
			printSystemMessage("Session '%s' active.", state.SessionID)
		}
	}
}

// newIOHandler picks JSON lines, a rich terminal, or plain text.
func newIOHandler(opts RunOptions, interactive bool) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(os.Stdin, os.Stdout)
	}
	if interactive {
		return runner.NewTextHandler(os.Stdin, os.Stdout, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	return runner.NewTextHandler(os.Stdin, os.Stdout)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(logger *slog.Logger, opts RunOptions, store ports.StateStore, handler runner.IOHandler) []runner.Option {
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithHeadless(opts.Headless || opts.JSON),
		runner.WithInputHandler(handler),
	}
	if opts.SessionID != "" && store != nil {
		runnerOpts = append(runnerOpts,
			runner.WithSessionID(opts.SessionID),
			runner.WithStore(store),
		)
	}
	return runnerOpts
}

func handleExecutionError(err error) error {
	if err == nil || errors.Is(err, runner.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return nil // Exit 0 for interruptions
	}
	return err
}

func logCompletion(state *domain.State, persistent bool, err error, quiet bool, sig os.Signal) {
	if quiet || state == nil {
		return
	}

	if err != nil && (errors.Is(err, runner.ErrInterrupted) || errors.Is(err, context.Canceled)) {
		switch sig {
		case os.Interrupt:
			fmt.Printf("[CTRL+C]\n")
			printSystemMessage("Interrupted with %d answer(s).", len(state.Answers))
		case nil:
			fmt.Printf("\n")
			printSystemMessage("Interrupted with %d answer(s).", len(state.Answers))
		default:
			fmt.Printf("\n")
			printSystemMessage("Terminated with %d answer(s).", len(state.Answers))
		}
	} else if err == nil {
		printSystemMessage("Finished with %d answer(s) at revision %d.", len(state.Answers), state.Revision)
	}

	if persistent {
		printSystemMessage("Progress saved in session '%s'.", state.SessionID)
	}
}
