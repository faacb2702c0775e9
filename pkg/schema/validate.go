package schema

import (
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
)

// Validate checks the content rules that depend on the correspondence policy.
// Structural rules (ids, cycles) are enforced earlier by domain.NewTree.
// Returns an AggregateError with all failures found.
func Validate(tree *domain.Tree, policy domain.Policy) error {
	var errs []error

	for _, id := range tree.IDs() {
		n, _ := tree.Node(id)

		seen := make(map[string]bool, len(n.Options))
		for i, opt := range n.Options {
			if opt == "" {
				errs = append(errs, &ValidationError{
					NodeID: id,
					Field:  "options",
					Reason: fmt.Sprintf("option %d is empty", i),
				})
				continue
			}
			if seen[opt] {
				errs = append(errs, &ValidationError{
					NodeID: id,
					Field:  "options",
					Reason: fmt.Sprintf("duplicate option %q", opt),
				})
			}
			seen[opt] = true
		}

		switch n.Layout {
		case "", domain.LayoutHorizontal, domain.LayoutVertical:
		default:
			errs = append(errs, &ValidationError{
				NodeID: id,
				Field:  "layout",
				Reason: fmt.Sprintf("unknown layout %q", n.Layout),
			})
		}

		if policy == domain.PolicyPositional && len(n.Children) > len(n.Options) {
			errs = append(errs, &ValidationError{
				NodeID: id,
				Field:  "children",
				Reason: fmt.Sprintf("%d children but only %d options; positional children must map to an option", len(n.Children), len(n.Options)),
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
