package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sprig"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/dsl"
)

func TestBuilder_PositionalTree(t *testing.T) {
	b := dsl.New()

	b.Question("pet").
		Label("Do you have a pet?").
		Required().
		Horizontal().
		On("yes", dsl.Q("kind").Options("cat", "dog")).
		On("no", dsl.Q("want").Options("yes", "no"))

	b.Question("notes").Label("Anything else?")

	nodes, err := b.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	pet := nodes[0]
	assert.Equal(t, []string{"yes", "no"}, pet.Options)
	assert.True(t, pet.Required)
	assert.Equal(t, domain.LayoutHorizontal, pet.Layout)
	require.Len(t, pet.Children, 2)
	assert.Equal(t, "kind", pet.Children[0].ID)
	assert.Equal(t, "want", pet.Children[1].ID)
	assert.True(t, nodes[1].IsLeaf())

	loader, err := b.Build(domain.PolicyPositional)
	require.NoError(t, err)

	engine, err := sprig.New("", sprig.WithLoader(loader))
	require.NoError(t, err)

	ctx := context.Background()
	state, err := engine.Start(ctx, "dsl")
	require.NoError(t, err)
	state, err = engine.Answer(ctx, state, "pet", "no")
	require.NoError(t, err)

	rendered, err := engine.Render(ctx, state)
	require.NoError(t, err)
	var ids []string
	for _, n := range rendered {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"pet", "want", "notes"}, ids)
}

func TestBuilder_OptionOrderFollowsOn(t *testing.T) {
	// Options declared first keep their order; On attaches children to them.
	node, err := dsl.Q("size").
		Options("s", "m").
		On("m", dsl.Q("fit")).
		On("s", dsl.Q("sleeve")).
		Options("l").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"s", "m", "l"}, node.Options)
	require.Len(t, node.Children, 2)
	assert.Equal(t, "sleeve", node.Children[0].ID)
	assert.Equal(t, "fit", node.Children[1].ID)
}

func TestBuilder_GapIsAnError(t *testing.T) {
	b := dsl.New()
	b.Question("q").Options("a").On("b", dsl.Q("child"))

	_, err := b.Build(domain.PolicyPositional)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `option "a" needs a child`)
}

func TestBuilder_FlagGated(t *testing.T) {
	b := dsl.New()
	b.Question("consent").
		Options("yes", "no").
		Child(
			dsl.Q("email").Options("html", "text").Linked(),
			dsl.Q("internal").Options("x"),
		)

	loader, err := b.Build(domain.PolicyFlagGated)
	require.NoError(t, err)

	engine, err := sprig.New("", sprig.WithLoader(loader), sprig.WithPolicy(domain.PolicyFlagGated))
	require.NoError(t, err)

	ctx := context.Background()
	state, _ := engine.Start(ctx, "fg")
	state, err = engine.Answer(ctx, state, "consent", "no")
	require.NoError(t, err)

	rendered, err := engine.Render(ctx, state)
	require.NoError(t, err)
	require.Len(t, rendered, 2)
	assert.Equal(t, "email", rendered[1].ID)
}

func TestBuilder_ValidationErrors(t *testing.T) {
	b := dsl.New()
	b.Question("dup").Options("a")
	b.Question("dup").Options("b")

	_, err := b.Build(domain.PolicyPositional)
	assert.ErrorIs(t, err, domain.ErrMalformedTree)
}
