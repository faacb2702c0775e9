package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/sprig/pkg/adapters/file"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_YAML(t *testing.T) {
	path := writeFile(t, "tree.yaml", `
data:
  - id: pet
    label: Do you have a pet?
    options: [yes, no]
    children:
      - id: kind
        options: [cat, dog]
`)
	loader := file.NewLoader(path)
	assert.Equal(t, schema.FormatYAML, loader.Format)

	roots, err := loader.LoadNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "pet", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "kind", roots[0].Children[0].ID)
}

func TestLoader_JSON(t *testing.T) {
	path := writeFile(t, "tree.json", `{"data":[{"id":"a","options":["x"]}]}`)

	roots, err := file.NewLoader(path).LoadNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"x"}, roots[0].Options)
}

func TestLoader_Errors(t *testing.T) {
	_, err := file.NewLoader(filepath.Join(t.TempDir(), "nope.json")).LoadNodes(context.Background())
	assert.Error(t, err)

	path := writeFile(t, "broken.json", `{"data": [`)
	_, err = file.NewLoader(path).LoadNodes(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedTree)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = file.NewLoader(path).LoadNodes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
