package file

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/schema"
)

// Loader implements ports.TreeLoader by reading a JSON or YAML document from disk.
// The file is read on every call, so edits are picked up by Engine.Reload.
type Loader struct {
	Path   string
	Format schema.Format
}

// NewLoader creates a loader for path. The format is inferred from the extension.
func NewLoader(path string) *Loader {
	return &Loader{Path: path, Format: schema.FormatFromPath(path)}
}

// LoadNodes reads and decodes the document's root nodes.
func (l *Loader) LoadNodes(ctx context.Context) ([]*domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree document %s: %w", l.Path, err)
	}

	raw, err := schema.Unmarshal(data, l.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	roots, err := schema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	return roots, nil
}
