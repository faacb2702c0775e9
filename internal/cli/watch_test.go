package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchDocument(t *testing.T) {
	path := writeDoc(t, petDoc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watchDocument(ctx, path, CreateLogger(false))
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0644))
	select {
	case <-changes:
		t.Fatal("unexpected change for unrelated file")
	case <-time.After(3 * reloadDebounce):
	}

	// A burst of writes is coalesced into one signal.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(petDoc), 0644))
	}
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
	select {
	case <-changes:
		t.Fatal("burst should produce a single signal")
	case <-time.After(3 * reloadDebounce):
	}
}

func TestWatchDocument_MissingDir(t *testing.T) {
	_, err := watchDocument(context.Background(), filepath.Join(t.TempDir(), "nope", "form.yaml"), CreateLogger(false))
	require.Error(t, err)
}
