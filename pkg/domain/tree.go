package domain

import (
	"fmt"
	"strings"
)

// Tree is an immutable, indexed forest of question nodes.
// Node ids are unique across the whole tree, so lookups are flat.
type Tree struct {
	roots  []*Node
	byID   map[string]*Node
	parent map[string]*Node
	depth  map[string]int
	order  []string
}

// NewTree validates the structure reachable from roots and returns an indexed copy.
// It fails with ErrMalformedTree on nil nodes, empty or duplicate ids, and cycles.
// The returned tree owns its nodes: later mutation of roots does not affect it.
func NewTree(roots ...*Node) (*Tree, error) {
	if problems := checkStructure(roots); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformedTree, strings.Join(problems, "; "))
	}

	t := &Tree{
		roots:  make([]*Node, 0, len(roots)),
		byID:   make(map[string]*Node),
		parent: make(map[string]*Node),
		depth:  make(map[string]int),
	}
	for _, r := range roots {
		c := cloneNode(r)
		t.roots = append(t.roots, c)
		t.index(c, nil, 0)
	}
	return t, nil
}

func (t *Tree) index(n, parent *Node, depth int) {
	t.byID[n.ID] = n
	t.depth[n.ID] = depth
	t.order = append(t.order, n.ID)
	if parent != nil {
		t.parent[n.ID] = parent
	}
	for _, c := range n.Children {
		t.index(c, n, depth+1)
	}
}

// checkStructure walks the graph without assuming it is a tree.
// Pointers already seen are never descended into again, so cycles terminate.
func checkStructure(roots []*Node) []string {
	var problems []string
	seenNodes := make(map[*Node]bool)
	seenIDs := make(map[string]bool)
	onPath := make(map[*Node]bool)

	var visit func(n *Node, path string)
	visit = func(n *Node, path string) {
		if n == nil {
			problems = append(problems, fmt.Sprintf("nil node under %s", path))
			return
		}
		if onPath[n] {
			problems = append(problems, fmt.Sprintf("cycle at %q (via %s)", n.ID, path))
			return
		}
		if seenNodes[n] {
			problems = append(problems, fmt.Sprintf("node %q has more than one parent", n.ID))
			return
		}
		seenNodes[n] = true

		switch {
		case n.ID == "":
			problems = append(problems, fmt.Sprintf("node without id under %s", path))
		case seenIDs[n.ID]:
			problems = append(problems, fmt.Sprintf("duplicate id %q", n.ID))
		default:
			seenIDs[n.ID] = true
		}

		onPath[n] = true
		for _, c := range n.Children {
			visit(c, path+"/"+n.ID)
		}
		delete(onPath, n)
	}

	for _, r := range roots {
		visit(r, "root")
	}
	return problems
}

func cloneNode(n *Node) *Node {
	c := *n
	c.Options = append([]string(nil), n.Options...)
	c.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		c.Children[i] = cloneNode(child)
	}
	return &c
}

// Roots returns the top-level nodes in document order.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Parent returns the parent of id. Roots have no parent.
func (t *Tree) Parent(id string) (*Node, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Depth returns the absolute depth of id (roots are 0).
func (t *Tree) Depth(id string) int {
	return t.depth[id]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.order)
}

// IDs returns every node id in depth-first document order.
func (t *Tree) IDs() []string {
	return append([]string(nil), t.order...)
}

// Ancestors returns the chain from the root down to (excluding) id.
func (t *Tree) Ancestors(id string) []*Node {
	var chain []*Node
	for p, ok := t.parent[id]; ok; p, ok = t.parent[p.ID] {
		chain = append([]*Node{p}, chain...)
	}
	return chain
}

// Descendants returns every strict descendant of n in depth-first order.
func (t *Tree) Descendants(n *Node) []*Node {
	var out []*Node
	stack := make([]*Node, 0, len(n.Children))
	for i := len(n.Children) - 1; i >= 0; i-- {
		stack = append(stack, n.Children[i])
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}
