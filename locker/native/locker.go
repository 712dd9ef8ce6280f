package native

import (
	"context"

	"github.com/pwnedgod/kunci"
	"github.com/pwnedgod/kunci/leasestore"
	"github.com/pwnedgod/kunci/locker"
)

type nativeLocker struct {
	store leasestore.Store
	opts  []kunci.Option
}

// NewLocker returns a Locker that builds a kunci.Mutex per obtained key.
func NewLocker(store leasestore.Store, opts ...kunci.Option) locker.Locker {
	return &nativeLocker{
		store: store,
		opts:  opts,
	}
}

func (lr nativeLocker) Obtain(ctx context.Context, key string) (locker.Lock, error) {
	m := kunci.New(lr.store, key, lr.opts...)
	if err := m.Acquire(ctx); err != nil {
		return nil, err
	}

	return &nativeLock{m: m}, nil
}

type nativeLock struct {
	m *kunci.Mutex
}

func (l nativeLock) Release(ctx context.Context) error {
	return l.m.Release(ctx)
}
