package schema_test

import (
	"errors"
	"testing"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSON(t *testing.T) {
	data := []byte(`{
		"data": [
			{
				"id": "r",
				"label_val": "Do you agree?",
				"displayVertical": true,
				"isRequired": true,
				"options": ["yes", "no"],
				"children": [
					{"id": "c1", "parentId": "r", "options": []}
				]
			}
		]
	}`)

	tree, err := schema.Parse(data, schema.FormatJSON, domain.PolicyPositional)
	require.NoError(t, err)

	r, ok := tree.Node("r")
	require.True(t, ok)
	assert.Equal(t, "Do you agree?", r.Label)
	assert.Equal(t, domain.LayoutVertical, r.Layout)
	assert.True(t, r.Required)
	assert.Equal(t, []string{"yes", "no"}, r.Options)

	c1, ok := tree.Node("c1")
	require.True(t, ok)
	assert.True(t, c1.ParentLink)
	assert.True(t, c1.IsLeaf())
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
data:
  - id: smoker
    label: Do you smoke?
    layout: horizontal
    options: ["yes", "no"]
    children:
      - id: per-day
        options: ["1-5", "6+"]
  - id: contact
    options: [email, phone]
`)

	tree, err := schema.Parse(data, schema.FormatYAML, domain.PolicyPositional)
	require.NoError(t, err)
	assert.Equal(t, []string{"smoker", "per-day", "contact"}, tree.IDs())

	s, _ := tree.Node("smoker")
	assert.Equal(t, domain.LayoutHorizontal, s.Layout)
}

func TestParse_BareList(t *testing.T) {
	tree, err := schema.Parse([]byte(`[{"id":"only","options":["a"]}]`), schema.FormatJSON, domain.PolicyPositional)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Len())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		policy  domain.Policy
		wantMsg string
	}{
		{"Invalid JSON", `{"data": [`, domain.PolicyPositional, "failed to parse json"},
		{"Missing Data", `{"items": []}`, domain.PolicyPositional, `field "data": required`},
		{"Scalar Document", `"hello"`, domain.PolicyPositional, "expected an object"},
		{"Empty Data", `{"data": []}`, domain.PolicyPositional, "at least one root"},
		{"Wrong Option Type", `{"data": [{"id": "a", "options": [1]}]}`, domain.PolicyPositional, "options"},
		{"Duplicate ID", `{"data": [{"id": "a"}, {"id": "a"}]}`, domain.PolicyPositional, `duplicate id "a"`},
		{"Missing ID", `{"data": [{"options": ["x"]}]}`, domain.PolicyPositional, "node without id"},
		{"Duplicate Option", `{"data": [{"id": "a", "options": ["x", "x"]}]}`, domain.PolicyPositional, `duplicate option "x"`},
		{"Empty Option", `{"data": [{"id": "a", "options": [""]}]}`, domain.PolicyPositional, "option 0 is empty"},
		{"Unknown Layout", `{"data": [{"id": "a", "layout": "diagonal"}]}`, domain.PolicyPositional, `unknown layout "diagonal"`},
		{"Positional Overflow", `{"data": [{"id": "a", "options": ["x"], "children": [{"id": "b"}, {"id": "c"}]}]}`, domain.PolicyPositional, "2 children but only 1 options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.data), schema.FormatJSON, tt.policy)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedTree), "expected ErrMalformedTree, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_FlagGatedAllowsExtraChildren(t *testing.T) {
	data := `{"data": [{"id": "a", "options": ["x"], "children": [{"id": "b", "parentLink": true}, {"id": "c", "parentLink": true}]}]}`
	_, err := schema.Parse([]byte(data), schema.FormatJSON, domain.PolicyFlagGated)
	assert.NoError(t, err)
}

func TestValidate_AggregatesAllFailures(t *testing.T) {
	tree, err := domain.NewTree(
		&domain.Node{ID: "a", Options: []string{"x", "x"}},
		&domain.Node{ID: "b", Options: []string{""}, Children: []*domain.Node{{ID: "c"}, {ID: "d"}}},
	)
	require.NoError(t, err)

	err = schema.Validate(tree, domain.PolicyPositional)
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	assert.Len(t, errs, 3)
	assert.Contains(t, err.Error(), "3 validation errors")

	var ve *schema.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "a", ve.NodeID)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("form.yaml"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("FORM.YML"))
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("form.json"))
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("form"))
}
