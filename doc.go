// Package kunci provides a lease-based distributed mutex that coordinates
// exclusive access to a named critical section through a shared key-value
// store. There is no lock manager and no process-to-process channel; the
// store's atomic operations are the only rendezvous point.
//
// A holder that crashes without releasing is recovered automatically: its
// lease carries a validity window, and once that window passes the next
// acquirer's create wins. Reentrant acquisition by the same logical caller is
// rejected outright instead of deadlocking, and a store that loses
// connectivity or turns read-only fails the acquisition within a single round
// trip.
//
// Basic usage:
//
//	store := goredis.NewStore(client)
//	value, err := kunci.Synchronize(ctx, store, "billing:run",
//		func(ctx context.Context) (interface{}, error) {
//			// critical section
//			return nil, nil
//		})
//
// Threads inside one process compete for a key exactly as separate processes
// would; there is deliberately no intra-process fast path.
package kunci
