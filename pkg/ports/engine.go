package ports

import (
	"context"

	"github.com/aretw0/sprig/pkg/domain"
)

// StatelessEngine defines the interface for questionnaire cores that do not maintain internal state.
// This is the primary interface used by adapters (e.g., HTTP, MCP) that manage state externally or per-request.
type StatelessEngine interface {
	// Start creates an empty state for a new form session.
	Start(ctx context.Context, sessionID string) (*domain.State, error)

	// Answer applies "node chose option" to state and returns the resulting state.
	// The input state is never modified.
	Answer(ctx context.Context, state *domain.State, nodeID, option string) (*domain.State, error)

	// Render computes the visible nodes for a given state without changing it.
	Render(ctx context.Context, state *domain.State) ([]domain.VisibleNode, error)

	// Missing lists visible required nodes that are still unanswered.
	Missing(ctx context.Context, state *domain.State) ([]string, error)

	// Reconcile drops the answers the current tree no longer reaches.
	// Hosts echo its answers so they agree with Render and Missing.
	Reconcile(ctx context.Context, state *domain.State) (*domain.State, error)

	// Inspect returns the current tree for introspection.
	Inspect() *domain.Tree
}
