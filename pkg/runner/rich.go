package runner

import (
	"context"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/ports"
)

// RichResponse combines state and rendering for rich clients (terminal, MCP, etc).
// This encapsulates the common pattern of: Answer -> Render -> Return view.
type RichResponse struct {
	State   *domain.State        `json:"state"`
	Nodes   []domain.VisibleNode `json:"nodes"`
	Missing []string             `json:"missing"`
	Diff    *domain.StateDiff    `json:"diff,omitempty"`
}

// Render builds the view of state without changing it. The returned State
// is reconciled with the current tree, so its answers match Nodes.
func Render(ctx context.Context, engine ports.StatelessEngine, state *domain.State) (*RichResponse, error) {
	current, err := engine.Reconcile(ctx, state)
	if err != nil {
		return nil, err
	}
	nodes, err := engine.Render(ctx, current)
	if err != nil {
		return nil, err
	}
	missing, err := engine.Missing(ctx, current)
	if err != nil {
		return nil, err
	}
	return &RichResponse{State: current, Nodes: nodes, Missing: missing}, nil
}

// AnswerAndRender applies an answer and immediately renders the resulting state.
// The diff against the reconciled input state is included so callers can tell
// what the answer cleared.
func AnswerAndRender(ctx context.Context, engine ports.StatelessEngine, current *domain.State, nodeID, option string) (*RichResponse, error) {
	next, err := engine.Answer(ctx, current, nodeID, option)
	if err != nil {
		return nil, err
	}
	current, err = engine.Reconcile(ctx, current)
	if err != nil {
		return nil, err
	}
	rich, err := Render(ctx, engine, next)
	if err != nil {
		// The answer stands; let the caller decide how to recover from the render failure.
		return &RichResponse{State: next, Diff: domain.Diff(current, next)}, err
	}
	rich.Diff = domain.Diff(current, next)
	return rich, nil
}
