package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/runner"
)

func TestAnswerAndRender(t *testing.T) {
	ctx := context.Background()
	engine := petEngine(t)

	state, err := engine.Start(ctx, "rich")
	require.NoError(t, err)

	rich, err := runner.AnswerAndRender(ctx, engine, state, "pet", "yes")
	require.NoError(t, err)
	require.Len(t, rich.Nodes, 2)
	assert.Equal(t, "kind", rich.Nodes[1].ID)

	rich, err = runner.AnswerAndRender(ctx, engine, rich.State, "kind", "cat")
	require.NoError(t, err)

	rich, err = runner.AnswerAndRender(ctx, engine, rich.State, "pet", "no")
	require.NoError(t, err)
	require.NotNil(t, rich.Diff)
	assert.Equal(t, []string{"kind"}, rich.Diff.Cleared)
	assert.Equal(t, "want", rich.Nodes[1].ID)

	// The input state is left untouched.
	assert.Empty(t, state.Answers)
}

func TestAnswerAndRender_Rejected(t *testing.T) {
	ctx := context.Background()
	engine := petEngine(t)
	state, _ := engine.Start(ctx, "rich")

	_, err := runner.AnswerAndRender(ctx, engine, state, "kind", "cat")
	assert.ErrorIs(t, err, domain.ErrHiddenNode)

	_, err = runner.AnswerAndRender(ctx, engine, state, "pet", "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestRender_ReconcilesState(t *testing.T) {
	ctx := context.Background()
	engine := petEngine(t)
	stale := &domain.State{SessionID: "old", Answers: domain.Answers{"pet": "yes", "want": "no", "gone": "x"}, Revision: 7}

	rich, err := runner.Render(ctx, engine, stale)
	require.NoError(t, err)
	assert.Equal(t, domain.Answers{"pet": "yes"}, rich.State.Answers)
	assert.Equal(t, 7, rich.State.Revision)
	assert.Len(t, rich.Nodes, 2)

	rich, err = runner.AnswerAndRender(ctx, engine, stale, "kind", "dog")
	require.NoError(t, err)
	require.NotNil(t, rich.Diff)
	assert.Empty(t, rich.Diff.Cleared)
	assert.Equal(t, map[string]string{"kind": "dog"}, rich.Diff.Set)
}
