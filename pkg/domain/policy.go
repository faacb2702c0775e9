package domain

import "fmt"

// Policy selects how a chosen option maps to the child subtree it reveals.
type Policy string

const (
	// PolicyPositional activates Children[k] when Options[k] is chosen.
	PolicyPositional Policy = "positional"

	// PolicyFlagGated reveals every child with ParentLink set as soon as the
	// node has any answer, regardless of which option was chosen.
	PolicyFlagGated Policy = "flag-gated"
)

// ParsePolicy converts a configuration string into a Policy.
// An empty string yields PolicyPositional.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyPositional:
		return PolicyPositional, nil
	case PolicyFlagGated:
		return PolicyFlagGated, nil
	default:
		return "", fmt.Errorf("unsupported policy: %q (expected %q or %q)", s, PolicyPositional, PolicyFlagGated)
	}
}
