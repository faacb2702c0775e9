package graph_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sprig/internal/presentation/graph"
	"github.com/aretw0/sprig/pkg/domain"
)

func sampleTree(t *testing.T) *domain.Tree {
	t.Helper()
	tree, err := domain.NewTree(&domain.Node{
		ID:       "pet",
		Label:    "Pet?",
		Options:  []string{"yes", "no"},
		Required: true,
		Children: []*domain.Node{
			{ID: "kind", Options: []string{"cat", "dog"}, ParentLink: true},
			{ID: "want", Label: `Want "one"?`, Options: []string{"yes", "no"}},
			{ID: "note"},
		},
	})
	require.NoError(t, err)
	return tree
}

func TestGenerateMermaid_Golden(t *testing.T) {
	tree := sampleTree(t)
	overlay := &graph.GraphOverlay{
		Answers: domain.Answers{"pet": "yes"},
		Visible: []string{"pet", "kind"},
	}

	out := graph.GenerateMermaid(tree, domain.PolicyPositional, overlay)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "positional_overlay", []byte(out))
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		policy      domain.Policy
		overlay     *graph.GraphOverlay
		contains    []string
		notContains []string
	}{
		{
			name:   "Positional Edges",
			policy: domain.PolicyPositional,
			contains: []string{
				"pet -- \"yes\" --> kind",
				"pet -- \"no\" --> want",
				"pet -.-> note",
				"note[\"note\"]",
			},
			notContains: []string{"Overlay Styles", "==>"},
		},
		{
			name:   "Flag Gated Edges",
			policy: domain.PolicyFlagGated,
			contains: []string{
				"pet -- \"any\" --> kind",
				"pet -.-> want",
			},
		},
		{
			name:    "Flag Gated Overlay",
			policy:  domain.PolicyFlagGated,
			overlay: &graph.GraphOverlay{Answers: domain.Answers{"pet": "no", "kind": "cat"}},
			contains: []string{
				"pet -- \"any\" ==> kind",
				"class pet answered;",
				"class kind answered;",
			},
			notContains: []string{"open;"},
		},
		{
			name:        "Leaves Are Never Open",
			policy:      domain.PolicyPositional,
			overlay:     &graph.GraphOverlay{Visible: []string{"note", "ghost"}},
			notContains: []string{"class note", "class ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(sampleTree(t), tt.policy, tt.overlay)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSanitizeIDs(t *testing.T) {
	tree, err := domain.NewTree(&domain.Node{
		ID:       "billing.address",
		Options:  []string{"same"},
		Children: []*domain.Node{{ID: "ship-to/home"}},
	})
	require.NoError(t, err)

	out := graph.GenerateMermaid(tree, domain.PolicyPositional, nil)
	assert.Contains(t, out, "billing_address -- \"same\" --> ship_to_home")
	assert.Contains(t, out, "billing_address[/\"billing.address\"/]")
}
