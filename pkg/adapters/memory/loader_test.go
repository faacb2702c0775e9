package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/sprig/pkg/adapters/memory"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Nodes(t *testing.T) {
	loader := memory.NewLoader(&domain.Node{ID: "r", Options: []string{"yes"}})

	roots, err := loader.LoadNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "r", roots[0].ID)
}

func TestLoader_FromDocument(t *testing.T) {
	loader, err := memory.NewFromDocument([]byte("data:\n  - id: r\n    options: [a, b]\n"), schema.FormatYAML)
	require.NoError(t, err)

	roots, err := loader.LoadNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"a", "b"}, roots[0].Options)

	_, err = memory.NewFromDocument([]byte(`{"nope": 1}`), schema.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrMalformedTree)
}
