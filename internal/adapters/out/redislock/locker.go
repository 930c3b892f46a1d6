// Package redislock implements ports.Locker on a single Redis node.
//
// A lock is a key holding a random token, created with SET NX and a TTL. Release
// deletes the key only while it still holds the caller's token, so a lock that
// expired and was taken by another process is never released by the old owner.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockLost is returned by unlock when the lock expired before release.
var ErrLockLost = errors.New("lock expired before release")

type Locker struct {
	client redis.UniversalClient
}

func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{client: client}
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Lock returns ports.ErrLockNotAcquired without waiting when key is held.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("lock %s: ttl must be positive", key)
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrLockNotAcquired, key)
	}

	return func(ctx context.Context) error {
		released, err := releaseScript.Run(ctx, l.client, []string{keyPrefix + key}, token).Int()
		if err != nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		if released == 0 {
			return fmt.Errorf("%w: %s", ErrLockLost, key)
		}
		return nil
	}, nil
}
