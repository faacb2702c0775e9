package sprig

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/sprig/internal/runtime"
	"github.com/aretw0/sprig/pkg/adapters/file"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/ports"
	"github.com/aretw0/sprig/pkg/schema"
)

// Engine is the high-level entry point for the Sprig library.
// It holds the validated Question Tree and applies actions to externally owned
// session states, so a single Engine can serve any number of sessions.
type Engine struct {
	loader  ports.TreeLoader
	policy  domain.Policy
	entryID string
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string

	mu   sync.RWMutex
	tree *domain.Tree
}

var _ ports.StatelessEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom TreeLoader, bypassing the default file loader.
func WithLoader(l ports.TreeLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPolicy selects how options map to children (default: positional).
func WithPolicy(p domain.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithEntryNode renders only the subtree rooted at nodeID.
func WithEntryNode(nodeID string) Option {
	return func(e *Engine) {
		e.entryID = nodeID
	}
}

// New initializes a new Sprig Engine.
// By default, it reads the tree document (JSON or YAML) at path.
// If WithLoader is provided, path is only used as a descriptive name.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{policy: domain.PolicyPositional}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.loader = file.NewLoader(absPath)
	}
	if path != "" {
		base := filepath.Base(path)
		eng.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	policy, err := domain.ParsePolicy(string(eng.policy))
	if err != nil {
		return nil, err
	}
	eng.policy = policy

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("tree", eng.Name)
	}

	if err := eng.Reload(context.Background()); err != nil {
		return nil, err
	}
	return eng, nil
}

// Reload re-reads the tree through the loader and swaps it in atomically.
// On failure the previous tree stays active. Sessions answered against the
// old tree are reconciled on their next action: stale answers are dropped.
func (e *Engine) Reload(ctx context.Context) error {
	roots, err := e.loader.LoadNodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tree: %w", err)
	}
	tree, err := schema.Build(e.policy, roots...)
	if err != nil {
		return err
	}
	if e.entryID != "" {
		if _, ok := tree.Node(e.entryID); !ok {
			return fmt.Errorf("%w: entry node %q", domain.ErrUnknownNode, e.entryID)
		}
	}

	e.mu.Lock()
	e.tree = tree
	e.mu.Unlock()

	e.logger.Debug("Tree loaded", "nodes", tree.Len(), "roots", len(tree.Roots()))
	return nil
}

// Start creates an empty state for a new session.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}
	e.logger.Debug("Session started", "session_id", sessionID)
	return domain.NewState(sessionID), nil
}

// Answer records option at nodeID and returns the resulting state, with every
// answer beneath nodeID cleared. The input state is never modified; on error
// the returned state is nil.
func (e *Engine) Answer(ctx context.Context, state *domain.State, nodeID, option string) (*domain.State, error) {
	if state == nil {
		return nil, errors.New("state cannot be nil")
	}
	rt, dropped := e.restore(state)
	if err := rt.Answer(ctx, nodeID, option); err != nil {
		return nil, err
	}
	// Only a state that callers go on to persist reports the stale answers it lost.
	rt.AnnounceSeed(ctx, len(state.Answers)-len(dropped), dropped)
	return &domain.State{
		SessionID: state.SessionID,
		Answers:   rt.Answers(),
		Revision:  state.Revision + 1,
	}, nil
}

// Render returns the visible nodes for state in depth-first order.
func (e *Engine) Render(ctx context.Context, state *domain.State) ([]domain.VisibleNode, error) {
	if state == nil {
		return nil, errors.New("state cannot be nil")
	}
	rt, _ := e.restore(state)
	return rt.VisibleNodes(), nil
}

// Missing lists visible required nodes that are still unanswered.
func (e *Engine) Missing(ctx context.Context, state *domain.State) ([]string, error) {
	if state == nil {
		return nil, errors.New("state cannot be nil")
	}
	rt, _ := e.restore(state)
	return rt.Missing(), nil
}

// Reconcile returns state with the answers the current tree no longer reaches
// removed. Revision is unchanged and no hooks fire.
func (e *Engine) Reconcile(ctx context.Context, state *domain.State) (*domain.State, error) {
	if state == nil {
		return nil, errors.New("state cannot be nil")
	}
	rt, _ := e.restore(state)
	return &domain.State{
		SessionID: state.SessionID,
		Answers:   rt.Answers(),
		Revision:  state.Revision,
	}, nil
}

// Inspect returns the current tree for visualization or introspection tools.
func (e *Engine) Inspect() *domain.Tree {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Loader returns the underlying TreeLoader used by the engine.
func (e *Engine) Loader() ports.TreeLoader {
	return e.loader
}

// Policy returns the active correspondence policy.
func (e *Engine) Policy() domain.Policy {
	return e.policy
}

// restore builds a per-request runtime over the current tree and quietly
// replays the session's answers into it, returning the ids it dropped.
func (e *Engine) restore(state *domain.State) (*runtime.Engine, []string) {
	rt := runtime.NewEngine(e.Inspect(),
		runtime.WithPolicy(e.policy),
		runtime.WithEntryNode(e.entryID),
		runtime.WithLogger(e.logger.With("session_id", state.SessionID)),
		runtime.WithLifecycleHooks(e.hooks),
	)
	dropped := rt.Restore(state.Answers)
	return rt, dropped
}
