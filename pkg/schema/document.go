package schema

import (
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// nodeDocument mirrors a node as it appears in a document.
// It uses "mapstructure" tags to accept both the canonical keys and the
// legacy keys emitted by older form exports (label_val, displayVertical, ...).
type nodeDocument struct {
	ID       string         `mapstructure:"id"`
	Label    string         `mapstructure:"label"`
	LabelVal string         `mapstructure:"label_val"`
	Options  []string       `mapstructure:"options"`
	Children []nodeDocument `mapstructure:"children"`

	Layout          string `mapstructure:"layout"`
	DisplayVertical *bool  `mapstructure:"displayVertical"`

	Required   bool `mapstructure:"required"`
	IsRequired bool `mapstructure:"isRequired"`

	ParentLink bool   `mapstructure:"parentLink"`
	ParentID   string `mapstructure:"parentId"`
}

type document struct {
	Data []nodeDocument `mapstructure:"data"`
}

// Decode converts a loosely typed document (as produced by json.Unmarshal or
// yaml.Unmarshal into an `any`) into domain nodes.
// A bare top-level list is accepted as the "data" array.
func Decode(raw any) ([]*domain.Node, error) {
	if list, ok := raw.([]any); ok {
		raw = map[string]any{"data": list}
	}

	top, ok := raw.(map[string]any)
	if !ok {
		return nil, &AggregateError{Errors: []error{&ValidationError{
			Field:  "data",
			Reason: fmt.Sprintf("expected an object with a data array, got %T", raw),
		}}}
	}
	if _, ok := top["data"]; !ok {
		return nil, &AggregateError{Errors: []error{&ValidationError{Field: "data", Reason: "required"}}}
	}

	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &doc,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(top); err != nil {
		return nil, decodeError(err)
	}

	nodes := make([]*domain.Node, 0, len(doc.Data))
	for _, nd := range doc.Data {
		nodes = append(nodes, nd.toDomain())
	}
	return nodes, nil
}

func decodeError(err error) error {
	var errs []error
	if me, ok := err.(*mapstructure.Error); ok {
		for _, msg := range me.Errors {
			errs = append(errs, &ValidationError{Field: "data", Reason: msg})
		}
	} else {
		errs = append(errs, &ValidationError{Field: "data", Reason: err.Error()})
	}
	return &AggregateError{Errors: errs}
}

func (nd nodeDocument) toDomain() *domain.Node {
	n := &domain.Node{
		ID:         nd.ID,
		Label:      nd.Label,
		Options:    nd.Options,
		Required:   nd.Required || nd.IsRequired,
		ParentLink: nd.ParentLink || nd.ParentID != "",
		Layout:     domain.Layout(nd.Layout),
	}
	if n.Label == "" {
		n.Label = nd.LabelVal
	}
	if n.Layout == "" && nd.DisplayVertical != nil {
		n.Layout = domain.LayoutHorizontal
		if *nd.DisplayVertical {
			n.Layout = domain.LayoutVertical
		}
	}
	for _, c := range nd.Children {
		n.Children = append(n.Children, c.toDomain())
	}
	return n
}
