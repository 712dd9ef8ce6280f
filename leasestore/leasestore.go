package leasestore

import (
	"context"
	"time"
)

// Record is the lease stored under a lock key: the owner token of the
// acquisition attempt that created it and the instant the lease lapses.
type Record struct {
	Token     string    `json:"token" msgpack:"token"`
	ExpiresAt time.Time `json:"expires_at" msgpack:"expires_at"`
}

// Expired reports whether the record's validity window has passed at t.
func (r Record) Expired(t time.Time) bool {
	return !r.ExpiresAt.After(t)
}

// Store is the contract a backing key-value store must fulfill. All three
// operations are single atomic round trips; implementations never retry
// internally and classify backend failures onto ErrReadOnly or ErrUnavailable.
type Store interface {
	// TryCreate stores (token, now+validity) under key iff no record exists or
	// the existing record has expired. It reports whether this caller's write
	// won.
	TryCreate(ctx context.Context, key, token string, validity time.Duration) (bool, error)

	// Read returns the record stored under key, or ErrNotFound when no live
	// record exists.
	Read(ctx context.Context, key string) (*Record, error)

	// TryDeleteOwned removes the record under key iff its stored token matches.
	// It reports whether a record was deleted. The compare and the delete are
	// one atomic operation, never a read followed by a delete.
	TryDeleteOwned(ctx context.Context, key, token string) (bool, error)
}
