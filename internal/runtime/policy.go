package runtime

import "github.com/aretw0/sprig/pkg/domain"

// activator decides which children of an answered node become visible.
type activator interface {
	// Active returns the visible children of n given its recorded option.
	Active(n *domain.Node, option string) []*domain.Node
	// Activates reports whether child is visible under n's recorded option.
	Activates(n *domain.Node, option string, child *domain.Node) bool
}

func activatorFor(p domain.Policy) activator {
	if p == domain.PolicyFlagGated {
		return flagGated{}
	}
	return positional{}
}

// positional maps Options[k] to Children[k]. Options without a matching
// child reveal nothing.
type positional struct{}

func (positional) Active(n *domain.Node, option string) []*domain.Node {
	k := n.OptionIndex(option)
	if k < 0 || k >= len(n.Children) {
		return nil
	}
	return n.Children[k : k+1]
}

func (p positional) Activates(n *domain.Node, option string, child *domain.Node) bool {
	for _, c := range p.Active(n, option) {
		if c == child {
			return true
		}
	}
	return false
}

// flagGated reveals every linked child once any option is chosen.
type flagGated struct{}

func (flagGated) Active(n *domain.Node, option string) []*domain.Node {
	if !n.HasOption(option) {
		return nil
	}
	var out []*domain.Node
	for _, c := range n.Children {
		if c.ParentLink {
			out = append(out, c)
		}
	}
	return out
}

func (flagGated) Activates(n *domain.Node, option string, child *domain.Node) bool {
	return n.HasOption(option) && child.ParentLink
}
