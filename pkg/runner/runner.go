package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/ports"
)

// ErrInterrupted is returned by Run when a signal or the caller's context stops the loop.
// The last accepted state is returned alongside it.
var ErrInterrupted = errors.New("interrupted")

// Runner drives a form session from an IOHandler until the user finishes or quits.
// It owns no form state: every step goes through the engine and the state is
// handed back to the caller.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Interceptor is consulted before answers that clear other answers.
	// If nil, Headless runs auto-approve and interactive runs ask for confirmation.
	Interceptor ChangeInterceptor

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store, when set together with SessionID, receives every accepted state.
	Store     ports.StateStore
	SessionID string

	Headless bool
}

// NewRunner creates a new Runner with default settings and applies options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run executes the form loop. If state is nil, engine.Start is called with the
// runner's SessionID. The returned state is the last one the engine accepted.
func (r *Runner) Run(ctx context.Context, engine ports.StatelessEngine, state *domain.State) (*domain.State, error) {
	handler := r.resolveHandler()
	interceptor := r.resolveInterceptor(handler)

	if state == nil {
		var err error
		state, err = engine.Start(ctx, r.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to create initial state: %w", err)
		}
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	skipped := make(map[string]bool)

	for {
		loopCtx := signals.Context()

		rich, err := Render(loopCtx, engine, state)
		if err != nil {
			if loopCtx.Err() != nil {
				return state, ErrInterrupted
			}
			return state, fmt.Errorf("render error: %w", err)
		}

		form := buildForm(state.SessionID, rich, skipped)
		if err := handler.Output(loopCtx, form); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}

		if form.Prompt == nil && form.Complete() {
			r.Logger.Debug("form complete", "session_id", state.SessionID, "revision", state.Revision)
			return state, nil
		}

		cmd, err := readCommand(loopCtx, handler)
		if err != nil {
			signals.CheckRace()
			if signals.Interrupted() {
				r.Logger.Debug("runner input: context cancelled", "err", loopCtx.Err())
				return state, ErrInterrupted
			}
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			if IsInputRejected(err) {
				if err := handler.SystemOutput(loopCtx, err.Error()); err != nil {
					return state, err
				}
				continue
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		switch cmd.Kind {
		case CmdEmpty:
			continue
		case CmdQuit:
			return state, nil
		case CmdDone:
			if form.Complete() {
				return state, nil
			}
			if err := handler.SystemOutput(loopCtx, "Still missing: "+strings.Join(form.Missing, ", ")); err != nil {
				return state, err
			}
			continue
		case CmdSkip:
			if form.Prompt == nil {
				continue
			}
			if form.Prompt.Node.Required {
				if err := handler.SystemOutput(loopCtx, fmt.Sprintf("%q is required and cannot be skipped", form.Prompt.ID)); err != nil {
					return state, err
				}
				continue
			}
			skipped[form.Prompt.ID] = true
			continue
		}

		nodeID, option, err := resolveTarget(form, cmd)
		if err != nil {
			if err := handler.SystemOutput(loopCtx, err.Error()); err != nil {
				return state, err
			}
			continue
		}

		next, err := r.apply(loopCtx, engine, interceptor, state, nodeID, option)
		if err != nil {
			if loopCtx.Err() != nil {
				return state, ErrInterrupted
			}
			if err := handler.SystemOutput(loopCtx, err.Error()); err != nil {
				return state, err
			}
			continue
		}
		if next == nil {
			// Refused by the interceptor.
			continue
		}

		if err := r.saveState(context.WithoutCancel(loopCtx), next); err != nil {
			return state, fmt.Errorf("critical persistence error: %w", err)
		}
		delete(skipped, nodeID)
		state = next
	}
}

// apply answers on a scratch copy, asks the interceptor when the change clears
// anything, and returns nil without error if the change was refused.
func (r *Runner) apply(ctx context.Context, engine ports.StatelessEngine, interceptor ChangeInterceptor, state *domain.State, nodeID, option string) (*domain.State, error) {
	next, err := engine.Answer(ctx, state, nodeID, option)
	if err != nil {
		return nil, err
	}
	// Stale answers the tree no longer reaches are not the user's to confirm.
	base, err := engine.Reconcile(ctx, state)
	if err != nil {
		return nil, err
	}

	diff := domain.Diff(base, next)
	if diff == nil || len(diff.Cleared) == 0 {
		return next, nil
	}

	allowed, err := interceptor(ctx, Change{
		NodeID:   nodeID,
		Option:   option,
		Previous: base.Answers[nodeID],
		Cleared:  diff.Cleared,
	})
	if err != nil {
		return nil, fmt.Errorf("change interceptor error: %w", err)
	}
	if !allowed {
		r.Logger.Debug("change refused", "node_id", nodeID, "option", option)
		return nil, nil
	}
	return next, nil
}

// readCommand prefers a handler's structured commands over parsing its text.
func readCommand(ctx context.Context, h IOHandler) (Command, error) {
	if cr, ok := h.(CommandReader); ok {
		return cr.ReadCommand(ctx)
	}
	input, err := h.Input(ctx)
	if err != nil {
		return Command{}, err
	}
	return ParseCommand(input), nil
}

// resolveTarget turns a parsed command into a (node, option) pair.
// Option names win over numbers so an option literally called "2" stays reachable.
func resolveTarget(form Form, cmd Command) (string, string, error) {
	if cmd.Kind == CmdAnswer {
		return cmd.NodeID, cmd.Option, nil
	}
	if form.Prompt == nil {
		return "", "", fmt.Errorf("nothing to answer; use node=option to change an answer")
	}

	node := form.Prompt.Node
	if node.HasOption(cmd.Option) {
		return node.ID, cmd.Option, nil
	}
	if cmd.Index > 0 {
		if cmd.Index > len(node.Options) {
			return "", "", fmt.Errorf("choose a number between 1 and %d", len(node.Options))
		}
		return node.ID, node.Options[cmd.Index-1], nil
	}
	for _, opt := range node.Options {
		if strings.EqualFold(opt, cmd.Option) {
			return node.ID, opt, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q is not an option of %q", domain.ErrInvalidOption, cmd.Option, node.ID)
}

func (r *Runner) saveState(ctx context.Context, state *domain.State) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "revision", state.Revision)
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	return r.Handler
}

// resolveInterceptor returns the configured or default interceptor.
func (r *Runner) resolveInterceptor(h IOHandler) ChangeInterceptor {
	if r.Interceptor != nil {
		return r.Interceptor
	}
	if r.Headless {
		return AutoApproveMiddleware()
	}
	return ConfirmCascadeMiddleware(h)
}
