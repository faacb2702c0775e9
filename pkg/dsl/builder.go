package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/sprig/pkg/adapters/memory"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/schema"
)

// Builder manages the tree construction.
type Builder struct {
	roots []*NodeBuilder
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{}
}

// Question adds a root question to the tree.
func (b *Builder) Question(id string) *NodeBuilder {
	nb := Q(id)
	b.roots = append(b.roots, nb)
	return nb
}

// Add appends already built nodes as roots.
func (b *Builder) Add(nodes ...*NodeBuilder) *Builder {
	b.roots = append(b.roots, nodes...)
	return b
}

// Nodes compiles the builders into domain nodes.
func (b *Builder) Nodes() ([]*domain.Node, error) {
	var errs []error
	nodes := make([]*domain.Node, 0, len(b.roots))
	for _, nb := range b.roots {
		nodes = append(nodes, nb.build(&errs))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nodes, nil
}

// Build compiles and validates the tree under policy, returning a memory Loader.
func (b *Builder) Build(policy domain.Policy) (*memory.Loader, error) {
	nodes, err := b.Nodes()
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	if _, err := schema.Build(policy, nodes...); err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return memory.NewLoader(nodes...), nil
}
