package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"

	"github.com/pwnedgod/kunci/locker"
)

type redislockLocker struct {
	lc       *redislock.Client
	validity time.Duration
}

// NewLocker returns a Locker backed by bsm/redislock.
func NewLocker(client redislock.RedisClient, validity time.Duration) locker.Locker {
	return &redislockLocker{
		lc:       redislock.New(client),
		validity: validity,
	}
}

func (lr redislockLocker) Obtain(ctx context.Context, key string) (locker.Lock, error) {
	lock, err := lr.lc.Obtain(ctx, key, lr.validity, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.ExponentialBackoff(16*time.Millisecond, 4096*time.Millisecond), 32),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", locker.ErrFailedObtain, err)
	}

	return &redislockLock{lock: lock}, nil
}

type redislockLock struct {
	lock *redislock.Lock
}

func (l redislockLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		// A lease that already lapsed counts as released.
		return fmt.Errorf("%w: %v", locker.ErrFailedRelease, err)
	}

	return nil
}
