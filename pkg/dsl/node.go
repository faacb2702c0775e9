package dsl

import (
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node domain.Node

	// byOption holds the child revealed by each option, keyed by option.
	byOption map[string]*NodeBuilder
	extra    []*NodeBuilder
}

// Q starts a standalone node, typically passed to On or Child.
func Q(id string) *NodeBuilder {
	return &NodeBuilder{
		node:     domain.Node{ID: id},
		byOption: make(map[string]*NodeBuilder),
	}
}

// Label sets the text shown for the node.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// Options appends choices that reveal nothing of their own.
func (n *NodeBuilder) Options(options ...string) *NodeBuilder {
	for _, opt := range options {
		if !n.node.HasOption(opt) {
			n.node.Options = append(n.node.Options, opt)
		}
	}
	return n
}

// On appends option (if new) and attaches the child it reveals.
func (n *NodeBuilder) On(option string, child *NodeBuilder) *NodeBuilder {
	n.Options(option)
	n.byOption[option] = child
	return n
}

// Child appends a child that no option owns. Combine with Linked for
// flag-gated trees.
func (n *NodeBuilder) Child(children ...*NodeBuilder) *NodeBuilder {
	n.extra = append(n.extra, children...)
	return n
}

// Required marks the node as needing an answer whenever it is visible.
func (n *NodeBuilder) Required() *NodeBuilder {
	n.node.Required = true
	return n
}

// Linked sets ParentLink, revealing the node under PolicyFlagGated once its
// parent has any answer.
func (n *NodeBuilder) Linked() *NodeBuilder {
	n.node.ParentLink = true
	return n
}

// Vertical sets the vertical layout hint.
func (n *NodeBuilder) Vertical() *NodeBuilder {
	n.node.Layout = domain.LayoutVertical
	return n
}

// Horizontal sets the horizontal layout hint.
func (n *NodeBuilder) Horizontal() *NodeBuilder {
	n.node.Layout = domain.LayoutHorizontal
	return n
}

// Build returns the underlying domain.Node with its subtree.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() (*domain.Node, error) {
	var errs []error
	node := n.build(&errs)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return node, nil
}

// build lays out option-owned children at their option's index, then the
// unowned ones. An option without a child followed by one with a child
// cannot be expressed positionally and is reported.
func (n *NodeBuilder) build(errs *[]error) *domain.Node {
	out := n.node
	out.Options = append([]string(nil), n.node.Options...)
	out.Children = nil

	last := -1
	for i, opt := range out.Options {
		if _, ok := n.byOption[opt]; ok {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		child, ok := n.byOption[out.Options[i]]
		if !ok {
			*errs = append(*errs, fmt.Errorf("node %q: option %q needs a child because a later option has one", n.node.ID, out.Options[i]))
			continue
		}
		out.Children = append(out.Children, child.build(errs))
	}
	for _, child := range n.extra {
		out.Children = append(out.Children, child.build(errs))
	}
	return &out
}
