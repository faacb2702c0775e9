package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/schema"
)

// Loader implements ports.TreeLoader over nodes held in memory.
type Loader struct {
	roots []*domain.Node
}

// NewLoader creates a loader serving the given root nodes.
func NewLoader(roots ...*domain.Node) *Loader {
	return &Loader{roots: roots}
}

// NewFromDocument creates a loader from raw document bytes (JSON or YAML).
// This handles decoding automatically, improving DX for tests and embedding.
func NewFromDocument(data []byte, format schema.Format) (*Loader, error) {
	raw, err := schema.Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	roots, err := schema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &Loader{roots: roots}, nil
}

// LoadNodes returns the configured roots.
func (l *Loader) LoadNodes(ctx context.Context) ([]*domain.Node, error) {
	return l.roots, nil
}
