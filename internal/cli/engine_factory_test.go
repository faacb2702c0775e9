package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sprig/pkg/domain"
)

const petDoc = `
data:
  - id: pet
    options: [yes, no]
    required: true
    children:
      - id: kind
        options: [cat, dog]
        parentLink: true
      - id: want
        options: [yes, no]
`

func TestResolveDocument(t *testing.T) {
	// Helper to create a temp dir with specific files
	createDir := func(t *testing.T, files []string) string {
		dir := t.TempDir()
		for _, f := range files {
			err := os.WriteFile(filepath.Join(dir, f), []byte("data: []"), 0644)
			require.NoError(t, err)
		}
		return dir
	}

	t.Run("Prefers form", func(t *testing.T) {
		dir := createDir(t, []string{"form.json", "tree.yaml"})
		got, err := ResolveDocument(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "form.json"), got)
	})

	t.Run("YAML before JSON", func(t *testing.T) {
		dir := createDir(t, []string{"tree.json", "tree.yaml"})
		got, err := ResolveDocument(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "tree.yaml"), got)
	})

	t.Run("Fallback to index", func(t *testing.T) {
		dir := createDir(t, []string{"index.yml", "other.yaml"})
		got, err := ResolveDocument(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "index.yml"), got)
	})

	t.Run("Fallback to DirectoryName", func(t *testing.T) {
		moduleDir := filepath.Join(t.TempDir(), "checkout")
		require.NoError(t, os.Mkdir(moduleDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "checkout.json"), []byte("{}"), 0644))

		got, err := ResolveDocument(moduleDir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(moduleDir, "checkout.json"), got)
	})

	t.Run("File is used as is", func(t *testing.T) {
		dir := createDir(t, []string{"custom.yaml"})
		got, err := ResolveDocument(filepath.Join(dir, "custom.yaml"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "custom.yaml"), got)
	})

	t.Run("Nothing matches", func(t *testing.T) {
		dir := createDir(t, []string{"other.yaml"})
		_, err := ResolveDocument(dir)
		assert.Error(t, err)
	})

	t.Run("Missing path", func(t *testing.T) {
		_, err := ResolveDocument(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewEngine(t *testing.T) {
	path := writeDoc(t, petDoc)
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		engine, err := NewEngine(RunOptions{Path: filepath.Dir(path)}, CreateLogger(false))
		require.NoError(t, err)
		assert.Equal(t, domain.PolicyPositional, engine.Policy())
		assert.Equal(t, "form", engine.Name)
	})

	t.Run("Flag gated with hooks", func(t *testing.T) {
		var answered []string
		hooks := domain.LifecycleHooks{
			OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
				answered = append(answered, e.NodeID)
			},
		}
		engine, err := NewEngine(RunOptions{Path: path, Policy: "flag-gated", Debug: true}, CreateLogger(false), hooks)
		require.NoError(t, err)

		state, err := engine.Start(ctx, "s")
		require.NoError(t, err)
		state, err = engine.Answer(ctx, state, "pet", "no")
		require.NoError(t, err)

		nodes, err := engine.Render(ctx, state)
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "kind", nodes[1].ID)
		assert.Contains(t, answered, "pet")
	})

	t.Run("Entry node", func(t *testing.T) {
		_, err := NewEngine(RunOptions{Path: path, Entry: "missing"}, CreateLogger(false))
		assert.ErrorIs(t, err, domain.ErrUnknownNode)
	})

	t.Run("Bad policy", func(t *testing.T) {
		_, err := NewEngine(RunOptions{Path: path, Policy: "random"}, CreateLogger(false))
		assert.Error(t, err)
	})
}
