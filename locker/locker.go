// Package locker is a minimal obtain/release surface over interchangeable
// lock engines. The native engine drives the kunci mutex; the redislock and
// redsync bindings let deployments already standardized on those libraries
// share call sites with it.
package locker

import (
	"context"
	"errors"
)

var (
	ErrFailedObtain  = errors.New("kunci: failed to obtain lock")
	ErrFailedRelease = errors.New("kunci: failed to release lock")
)

type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

// Do runs fn while holding key through lr, releasing on every exit path. A
// release failure surfaces only when fn itself succeeded.
func Do(ctx context.Context, lr Locker, key string, fn func(ctx context.Context) error) (err error) {
	lock, err := lr.Obtain(ctx, key)
	if err != nil {
		return err
	}

	defer func() {
		relErr := lock.Release(context.Background())
		if err == nil {
			err = relErr
		}
	}()

	return fn(ctx)
}
