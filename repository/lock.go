package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	lockKeyPrefix = "labeler:lock:"
	lockTTL       = 30 * time.Second
	lockWait      = 10 * time.Second
	lockPoll      = 100 * time.Millisecond
)

var errLockBusy = errors.New("lock busy")

// Locker is a lease based mutual exclusion keyed by string.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// withLock runs fn while holding the lock for key, polling until lockWait elapses.
func withLock(ctx context.Context, locker Locker, key string, fn func() error) error {
	if locker == nil {
		return fn()
	}

	key = lockKeyPrefix + key
	var token string
	backoff := retry.WithMaxDuration(lockWait, retry.NewConstant(lockPoll))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, ok, err := locker.AcquireLock(ctx, key, lockTTL)
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(errLockBusy)
		}
		token = t
		return nil
	})
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	defer func() {
		_ = locker.ReleaseLock(context.WithoutCancel(ctx), key, token)
	}()
	return fn()
}
