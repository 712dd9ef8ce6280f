package kunci

import (
	"sync/atomic"
	"time"
)

// Stats is a read-only snapshot of mutex counters. Export it to whatever
// monitoring system the caller already runs.
type Stats struct {
	Acquired          int64         // successful acquisitions
	Contended         int64         // retry sleeps spent behind another holder
	TimedOut          int64         // acquisitions abandoned at the timeout
	Failed            int64         // acquisitions aborted by store failure
	DeadlocksRejected int64         // reentrant attempts refused
	Released          int64         // voluntary releases that removed the lease
	Superseded        int64         // releases that found the lease already gone
	TotalHoldDuration time.Duration // cumulative time spent holding the lease
	HeldSince         time.Time     // zero when not holding
}

type stats struct {
	acquired          atomic.Int64
	acquiredAt        atomic.Int64 // unix nanoseconds, zero when not holding
	contended         atomic.Int64
	timedOut          atomic.Int64
	failed            atomic.Int64
	deadlocksRejected atomic.Int64
	released          atomic.Int64
	superseded        atomic.Int64
	totalHold         atomic.Int64 // nanoseconds
}

func (c *stats) snapshot() Stats {
	s := Stats{
		Acquired:          c.acquired.Load(),
		Contended:         c.contended.Load(),
		TimedOut:          c.timedOut.Load(),
		Failed:            c.failed.Load(),
		DeadlocksRejected: c.deadlocksRejected.Load(),
		Released:          c.released.Load(),
		Superseded:        c.superseded.Load(),
		TotalHoldDuration: time.Duration(c.totalHold.Load()),
		HeldSince:         nanoTime(c.acquiredAt.Load()),
	}
	if at := c.acquiredAt.Load(); at != 0 {
		s.TotalHoldDuration += time.Since(nanoTime(at))
	}

	return s
}

func (c *stats) onAcquired() {
	c.acquired.Add(1)
	c.acquiredAt.Store(time.Now().UnixNano())
}

func (c *stats) onReleased(superseded bool) {
	if superseded {
		c.superseded.Add(1)
	} else {
		c.released.Add(1)
	}
	if at := c.acquiredAt.Swap(0); at != 0 {
		c.totalHold.Add(int64(time.Since(nanoTime(at))))
	}
}

func (c *stats) onContended()        { c.contended.Add(1) }
func (c *stats) onTimedOut()         { c.timedOut.Add(1) }
func (c *stats) onFailed()           { c.failed.Add(1) }
func (c *stats) onDeadlockRejected() { c.deadlocksRejected.Add(1) }

func nanoTime(at int64) time.Time {
	if at == 0 {
		return time.Time{}
	}

	return time.Unix(at/1e9, at%1e9)
}
