package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/sprig/pkg/adapters/file"
	"github.com/aretw0/sprig/pkg/adapters/redis"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/persistence/middleware"
	"github.com/aretw0/sprig/pkg/ports"
)

// Backend bundles the state store with what it takes to close it.
// Locker is nil for the file store.
type Backend struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	Close  func() error
}

// EnvEncryptionKey names the variable holding a base64 AES-256 key. When set,
// sessions are encrypted at rest.
const EnvEncryptionKey = "SPRIG_ENCRYPTION_KEY"

// OpenStore picks Redis when a URL is configured, else a file store in
// .sprig/sessions next to the tree document.
func OpenStore(opts RunOptions) (*Backend, error) {
	backend, err := openBackend(opts)
	if err != nil {
		return nil, err
	}
	if raw := os.Getenv(EnvEncryptionKey); raw != "" {
		key, err := middleware.ParseKey(raw)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("%s: %w", EnvEncryptionKey, err)
		}
		backend.Store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(backend.Store)
	}
	return backend, nil
}

func openBackend(opts RunOptions) (*Backend, error) {
	if opts.RedisURL != "" {
		redisOpts, err := goredis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		store := redis.NewFromClient(goredis.NewClient(redisOpts))
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), store.Prefix()),
			Close:  store.Close,
		}, nil
	}

	return &Backend{
		Store: file.NewStore(sessionDir(opts.Path)),
		Close: func() error { return nil },
	}, nil
}

func sessionDir(path string) string {
	if path == "" {
		path = "."
	}
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, ".sprig", "sessions")
}

// ResetSession clears the session data for the given ID.
func ResetSession(ctx context.Context, opts RunOptions, sessionID string) error {
	backend, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	return backend.Store.Delete(ctx, sessionID)
}

// hydrateState loads the session or starts a fresh one.
// An empty sessionID yields an ephemeral state under a generated id.
func hydrateState(ctx context.Context, engine ports.StatelessEngine, store ports.StateStore, sessionID string) (*domain.State, bool, error) {
	if sessionID == "" || store == nil {
		id := sessionID
		if id == "" {
			id = NewSessionID()
		}
		state, err := engine.Start(ctx, id)
		return state, false, err
	}

	state, err := store.Load(ctx, sessionID)
	if err == nil {
		return state, true, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}
	state, err = engine.Start(ctx, sessionID)
	return state, false, err
}
