package kunci

import "errors"

var (
	// ErrLockTimeout is returned when the acquisition retry budget is
	// exhausted while another party still holds the lease.
	ErrLockTimeout = errors.New("kunci: lock acquisition timed out")

	// ErrDeadlockDetected is returned when a caller attempts to acquire a key
	// it already holds. Waiting would block on a lock only this caller could
	// release.
	ErrDeadlockDetected = errors.New("kunci: reentrant lock acquisition")

	// ErrNotHeld is returned by Release on a mutex that holds no lease.
	ErrNotHeld = errors.New("kunci: lock not held")
)
