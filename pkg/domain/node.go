package domain

import "slices"

// Layout is an opaque presentation hint passed through to the host.
type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

// Node represents a single-choice question in the tree.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Options is the ordered, exclusive choice set. Empty for leaves.
	Options []string `json:"options" yaml:"options"`

	// Children are revealed according to the engine's correspondence policy.
	// Under PolicyPositional, Children[k] belongs to Options[k].
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`

	Layout Layout `json:"layout,omitempty" yaml:"layout,omitempty"`

	// Required marks the node as needing an answer whenever it is visible.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// ParentLink gates the child under PolicyFlagGated.
	ParentLink bool `json:"parentLink,omitempty" yaml:"parentLink,omitempty"`
}

// HasOption reports whether option is one of the node's declared options.
func (n *Node) HasOption(option string) bool {
	return slices.Contains(n.Options, option)
}

// OptionIndex returns the position of option, or -1.
func (n *Node) OptionIndex(option string) int {
	return slices.Index(n.Options, option)
}

// IsLeaf reports whether the node offers no further choices.
func (n *Node) IsLeaf() bool {
	return len(n.Options) == 0
}
