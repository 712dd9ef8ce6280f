package kunci

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pwnedgod/kunci/leasestore"
	"github.com/pwnedgod/kunci/logger"
)

// WorkFunc is the critical section run under the lock. It receives a context
// annotated with the held key so nested synchronization on the same key can be
// rejected.
type WorkFunc func(ctx context.Context) (interface{}, error)

// Mutex binds a lock key to a store and a lease validity. One instance guards
// one key; it is not shared between competing parties, each of which builds
// its own handle over the same store.
type Mutex struct {
	store          leasestore.Store
	key            string
	validity       time.Duration
	retryInterval  time.Duration
	acquireTimeout time.Duration
	log            logger.Logger
	s              stats

	mu    sync.Mutex
	token string // owner token of the held lease, empty when unlocked
}

func New(store leasestore.Store, key string, opts ...Option) *Mutex {
	m := &Mutex{
		store:          store,
		key:            key,
		validity:       DefaultValidity,
		retryInterval:  DefaultRetryInterval,
		acquireTimeout: DefaultAcquireTimeout,
		log:            logger.Nop(),
	}

	for _, o := range opts {
		o(m)
	}
	return m
}

// Key returns the lock key this mutex guards.
func (m *Mutex) Key() string {
	return m.key
}

// Stats returns a snapshot of the mutex counters. The copy is safe to read
// without synchronization.
func (m *Mutex) Stats() Stats {
	return m.s.snapshot()
}

// Acquire blocks until the lease is obtained, the acquire timeout elapses
// (ErrLockTimeout), ctx is cancelled, or the store fails. Store failures
// surface on the first failing round trip; they are never retried away.
// After any error the caller does not hold the lock.
func (m *Mutex) Acquire(ctx context.Context) error {
	if holdsKey(ctx, m.key) {
		m.s.onDeadlockRejected()
		return fmt.Errorf("acquire %q: %w", m.key, ErrDeadlockDetected)
	}

	m.mu.Lock()
	if m.token != "" {
		m.mu.Unlock()
		m.s.onDeadlockRejected()
		return fmt.Errorf("acquire %q: %w", m.key, ErrDeadlockDetected)
	}
	m.mu.Unlock()

	// One fresh owner token per acquisition; it is never reused.
	token := uuid.NewString()
	deadline := time.Now().Add(m.acquireTimeout)

	for {
		won, err := m.store.TryCreate(ctx, m.key, token, m.validity)
		if err != nil {
			m.s.onFailed()
			m.log.Error("acquire aborted", m.key, err)
			return fmt.Errorf("acquire %q: %w", m.key, err)
		}
		if won {
			if err := ctx.Err(); err != nil {
				// The caller abandoned the wait while the winning write was in
				// flight. Undo it so an abandoned acquisition can never be
				// observed as held.
				_, _ = m.store.TryDeleteOwned(context.Background(), m.key, token)
				m.s.onFailed()
				return fmt.Errorf("acquire %q: %w", m.key, err)
			}

			m.mu.Lock()
			m.token = token
			m.mu.Unlock()
			m.s.onAcquired()
			m.log.Debug("lock acquired", m.key)
			return nil
		}

		if time.Now().After(deadline) {
			m.s.onTimedOut()
			m.log.Debug("lock acquisition timed out", m.key)
			return fmt.Errorf("acquire %q: %w", m.key, ErrLockTimeout)
		}

		m.s.onContended()
		select {
		case <-ctx.Done():
			m.s.onFailed()
			return fmt.Errorf("acquire %q: %w", m.key, ctx.Err())
		case <-time.After(m.retryInterval):
		}
	}
}

// Release removes the held lease. Finding it already gone or owned by a later
// acquirer is not an error: the holder's validity window had closed before
// release was attempted, so ownership had already ended safely.
func (m *Mutex) Release(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.token = ""
	m.mu.Unlock()

	if token == "" {
		return fmt.Errorf("release %q: %w", m.key, ErrNotHeld)
	}

	deleted, err := m.store.TryDeleteOwned(ctx, m.key, token)
	if err != nil {
		return fmt.Errorf("release %q: %w", m.key, err)
	}

	if !deleted {
		m.log.Debug("lease already superseded", m.key)
	}
	m.s.onReleased(!deleted)
	return nil
}

// Synchronize acquires the mutex, runs work, and releases on every exit path,
// including a panicking work function. It returns work's value and error;
// acquisition errors surface as-is, and a release failure surfaces only when
// work itself succeeded.
func (m *Mutex) Synchronize(ctx context.Context, work WorkFunc) (value interface{}, err error) {
	if holdsKey(ctx, m.key) {
		m.s.onDeadlockRejected()
		return nil, fmt.Errorf("synchronize %q: %w", m.key, ErrDeadlockDetected)
	}

	if err := m.Acquire(ctx); err != nil {
		return nil, err
	}

	defer func() {
		// Release must happen even when ctx is already done.
		relErr := m.Release(context.Background())
		if err == nil {
			err = relErr
		}
	}()

	return work(withHeldKey(ctx, m.key))
}

// Synchronize is the one-shot form: it builds an ephemeral mutex for key over
// store, runs work under it, and releases before returning.
func Synchronize(ctx context.Context, store leasestore.Store, key string, work WorkFunc, opts ...Option) (interface{}, error) {
	return New(store, key, opts...).Synchronize(ctx, work)
}
