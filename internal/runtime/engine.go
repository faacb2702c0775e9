package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/sprig/pkg/domain"
)

// Engine is the per-session questionnaire engine.
// It owns the Selection Store exclusively; the tree is shared and read-only.
// An Engine is not safe for concurrent use: hosts serialize actions per session.
type Engine struct {
	tree      *domain.Tree
	store     *Store
	activator activator
	policy    domain.Policy
	entryID   string
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// Option configures the Engine.
type Option func(*Engine)

// WithPolicy sets the child correspondence policy (default: positional).
func WithPolicy(p domain.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithEntryNode restricts rendering to the subtree rooted at nodeID.
func WithEntryNode(nodeID string) Option {
	return func(e *Engine) {
		e.entryID = nodeID
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine with an empty Selection Store over tree.
func NewEngine(tree *domain.Tree, opts ...Option) *Engine {
	e := &Engine{
		tree:   tree,
		store:  NewStore(tree),
		policy: domain.PolicyPositional,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.activator = activatorFor(e.policy)
	return e
}

// Tree returns the tree the engine was built over.
func (e *Engine) Tree() *domain.Tree {
	return e.tree
}

// Policy returns the active correspondence policy.
func (e *Engine) Policy() domain.Policy {
	return e.policy
}

// Get returns the answer recorded for nodeID.
func (e *Engine) Get(nodeID string) (string, bool) {
	return e.store.Get(nodeID)
}

// Answers returns a copy of the Selection Store contents.
func (e *Engine) Answers() domain.Answers {
	return e.store.Snapshot()
}

// Reset empties the Selection Store.
func (e *Engine) Reset() {
	e.store.reset()
}

func (e *Engine) emitAnswer(ctx context.Context, nodeID, option, previous string, cleared []string) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAnswer},
		NodeID:    nodeID,
		Option:    option,
		Previous:  previous,
		Cleared:   cleared,
	})
}

func (e *Engine) emitReject(ctx context.Context, nodeID, option string, err error) {
	if e.hooks.OnReject == nil {
		return
	}
	e.hooks.OnReject(ctx, &domain.RejectEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventReject},
		NodeID:    nodeID,
		Option:    option,
		Err:       err,
	})
}
