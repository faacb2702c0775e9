package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets the Session Manager keep one writer per form session across replicas,
// so two answers for the same session are never applied concurrently.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a session ID) is held, the context is
	// canceled, or acquisition fails. The returned UnlockFunc MUST be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
