package kunci

import (
	"time"

	"github.com/pwnedgod/kunci/logger"
)

const (
	// DefaultValidity bounds how long a crashed holder can block others. It
	// trades false contention (too short) against blocking-on-crash time (too
	// long); tune it to the expected critical-section runtime.
	DefaultValidity = 10 * time.Second

	// DefaultRetryInterval is the sleep between contended create attempts.
	DefaultRetryInterval = 5 * time.Millisecond

	// DefaultAcquireTimeout bounds a whole acquisition, retries included.
	DefaultAcquireTimeout = 15 * time.Second
)

type Option func(*Mutex)

// WithValidity sets the lease duration stored with each acquisition.
func WithValidity(d time.Duration) Option {
	return func(m *Mutex) {
		if d > 0 {
			m.validity = d
		}
	}
}

// WithRetryInterval sets the backoff between contended create attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(m *Mutex) {
		if d > 0 {
			m.retryInterval = d
		}
	}
}

// WithAcquireTimeout sets the total time budget for one acquisition.
func WithAcquireTimeout(d time.Duration) Option {
	return func(m *Mutex) {
		if d > 0 {
			m.acquireTimeout = d
		}
	}
}

// WithLogger routes mutex events to l instead of discarding them.
func WithLogger(l logger.Logger) Option {
	return func(m *Mutex) {
		if l != nil {
			m.log = l
		}
	}
}
