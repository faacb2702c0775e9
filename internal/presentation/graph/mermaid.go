package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sprig/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	Answers domain.Answers

	// Visible lists the nodes shown for Answers. Visible nodes without an
	// answer are styled as open.
	Visible []string
}

// GenerateMermaid produces a Mermaid flowchart of the tree.
// It applies semantic styling:
// - Question: [/Parallelogram/]
// - Leaf: [Rectangle]
// - Required nodes get a trailing "*" in the label.
//
// Edges carry the option that reveals the child. Under PolicyPositional a child
// with no corresponding option is drawn dotted, as it can never be shown; under
// PolicyFlagGated the same holds for children without ParentLink.
func GenerateMermaid(tree *domain.Tree, policy domain.Policy, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var walk func(n *domain.Node)
	walk = func(n *domain.Node) {
		writeNode(&sb, n)
		for k, child := range n.Children {
			writeEdge(&sb, policy, n, k, child, overlay)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range tree.Roots() {
		walk(root)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef answered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef open fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, id := range tree.IDs() {
			if _, ok := overlay.Answers[id]; ok {
				fmt.Fprintf(&sb, "    class %s answered;\n", sanitizeMermaidID(id))
			}
		}
		for _, id := range overlay.Visible {
			if _, ok := overlay.Answers[id]; ok {
				continue
			}
			if n, ok := tree.Node(id); ok && !n.IsLeaf() {
				fmt.Fprintf(&sb, "    class %s open;\n", sanitizeMermaidID(id))
			}
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, n *domain.Node) {
	opener, closer := "[/", "/]"
	if n.IsLeaf() {
		opener, closer = "[", "]"
	}
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if n.Required {
		label += " *"
	}
	fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(n.ID), opener, escapeLabel(label), closer)
}

func writeEdge(sb *strings.Builder, policy domain.Policy, parent *domain.Node, k int, child *domain.Node, overlay *GraphOverlay) {
	from, to := sanitizeMermaidID(parent.ID), sanitizeMermaidID(child.ID)

	var label string
	switch policy {
	case domain.PolicyFlagGated:
		if child.ParentLink {
			label = "any"
		}
	default:
		if k < len(parent.Options) {
			label = parent.Options[k]
		}
	}

	if label == "" {
		fmt.Fprintf(sb, "    %s -.-> %s\n", from, to)
		return
	}

	arrow := "-->"
	if overlay != nil && chosen(policy, parent, k, overlay.Answers) {
		arrow = "==>"
	}
	fmt.Fprintf(sb, "    %s -- \"%s\" %s %s\n", from, escapeLabel(label), arrow, to)
}

// chosen reports whether the edge to child k is the one the answers took.
func chosen(policy domain.Policy, parent *domain.Node, k int, answers domain.Answers) bool {
	answer, ok := answers[parent.ID]
	if !ok {
		return false
	}
	if policy == domain.PolicyFlagGated {
		return true
	}
	return parent.OptionIndex(answer) == k
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
