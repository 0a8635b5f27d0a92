package history

import "sync/atomic"

// Clock is a monotonic logical clock for entry ordering within a session.
//
// All entries are stamped with a strictly increasing seq number from this
// clock. Wall-clock time is never stored.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose first Next returns start+1.
// Sessions pass their last recorded seq, or 0 for a new session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
