package ports

import (
	"context"

	"github.com/aretw0/sprig/pkg/domain"
)

// TreeLoader defines how the engine retrieves the question tree.
// This allows the storage layer (File, Memory) to be decoupled.
// Loaders return raw root nodes; validation happens in the engine against its policy.
type TreeLoader interface {
	// LoadNodes returns the root nodes of the tree.
	LoadNodes(ctx context.Context) ([]*domain.Node, error)
}
