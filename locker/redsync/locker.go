package redsync

import (
	"context"
	"fmt"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis"

	"github.com/pwnedgod/kunci/locker"
)

type redsyncLocker struct {
	rs *redsync.Redsync
}

// NewLocker returns a Locker backed by go-redsync over the given pools.
func NewLocker(pools ...redis.Pool) locker.Locker {
	return &redsyncLocker{
		rs: redsync.New(pools...),
	}
}

func (lr redsyncLocker) Obtain(ctx context.Context, key string) (locker.Lock, error) {
	mutex := lr.rs.NewMutex(key)

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", locker.ErrFailedObtain, err)
	}

	return &redsyncLock{mutex: mutex}, nil
}

type redsyncLock struct {
	mutex *redsync.Mutex
}

func (l redsyncLock) Release(ctx context.Context) error {
	ok, err := l.mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", locker.ErrFailedRelease, err)
	}
	if !ok {
		// Expired out from under us; ownership had already ended.
		return nil
	}

	return nil
}
