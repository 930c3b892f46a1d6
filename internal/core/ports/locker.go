package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotAcquired is returned when another process holds the lock.
var ErrLockNotAcquired = errors.New("lock is held by another process")

// Locker provides advisory locks shared by all instances.
type Locker interface {
	// Lock acquires key for at most ttl. The returned func releases it if still owned.
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, err error)
}
