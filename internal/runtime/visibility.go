package runtime

import (
	"slices"

	"github.com/aretw0/sprig/pkg/domain"
)

type frame struct {
	node  *domain.Node
	depth int
}

// starts returns the nodes traversal begins at: the entry node when one is
// configured, otherwise every root.
func (e *Engine) starts() []*domain.Node {
	if e.entryID == "" {
		return e.tree.Roots()
	}
	n, ok := e.tree.Node(e.entryID)
	if !ok {
		return nil
	}
	return []*domain.Node{n}
}

// VisibleNodes computes the render-ready sequence of visible nodes in
// depth-first order. Descent stops at unanswered nodes and leaves.
// It is a pure function of the tree and the Selection Store.
func (e *Engine) VisibleNodes() []domain.VisibleNode {
	var out []domain.VisibleNode

	starts := e.starts()
	stack := make([]frame, 0, len(starts))
	for i := len(starts) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: starts[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		opt, answered := e.store.Get(f.node.ID)
		out = append(out, domain.VisibleNode{
			Node:     f.node,
			ID:       f.node.ID,
			Depth:    f.depth,
			Visible:  true,
			Answer:   opt,
			Answered: answered,
		})

		if !answered || f.node.IsLeaf() {
			continue
		}
		active := e.activator.Active(f.node, opt)
		for i := len(active) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: active[i], depth: f.depth + 1})
		}
	}
	return out
}

// isVisible reports whether n is reachable from a traversal start through
// answered ancestors whose options activate the next node on the path.
func (e *Engine) isVisible(n *domain.Node) bool {
	chain := e.tree.Ancestors(n.ID)

	if e.entryID != "" {
		if n.ID == e.entryID {
			return true
		}
		idx := slices.IndexFunc(chain, func(a *domain.Node) bool { return a.ID == e.entryID })
		if idx < 0 {
			return false
		}
		chain = chain[idx:]
	}

	for i, anc := range chain {
		next := n
		if i+1 < len(chain) {
			next = chain[i+1]
		}
		opt, ok := e.store.Get(anc.ID)
		if !ok || !e.activator.Activates(anc, opt, next) {
			return false
		}
	}
	return true
}

// Missing returns the ids of visible required nodes that are still unanswered.
// Leaves are never reported since they offer nothing to choose.
func (e *Engine) Missing() []string {
	var missing []string
	for _, v := range e.VisibleNodes() {
		if v.Node.Required && !v.Answered && !v.Node.IsLeaf() {
			missing = append(missing, v.ID)
		}
	}
	return missing
}
