package schema

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/sprig/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a tree document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension. Defaults to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes, builds and validates a tree from raw document bytes.
// The result is either a valid tree or an error matching domain.ErrMalformedTree.
func Parse(data []byte, format Format, policy domain.Policy) (*domain.Tree, error) {
	raw, err := Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	nodes, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Build(policy, nodes...)
}

// Unmarshal decodes document bytes into generic maps and slices, ready for Decode.
func Unmarshal(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", domain.ErrMalformedTree, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json: %v", domain.ErrMalformedTree, err)
		}
	}
	return raw, nil
}

// Build runs the structural and policy checks on already-decoded nodes.
func Build(policy domain.Policy, roots ...*domain.Node) (*domain.Tree, error) {
	if len(roots) == 0 {
		return nil, &AggregateError{Errors: []error{&ValidationError{Field: "data", Reason: "at least one root node is required"}}}
	}
	tree, err := domain.NewTree(roots...)
	if err != nil {
		return nil, err
	}
	if err := Validate(tree, policy); err != nil {
		return nil, err
	}
	return tree, nil
}
