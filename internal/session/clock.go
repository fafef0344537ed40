package session

import "sync/atomic"

// Sequencer stamps commands and outcomes with strictly increasing seq
// values. Clock is the production implementation; tests may substitute a
// resettable one.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock. Safe for concurrent use, although
// only the Run goroutine calls Next in practice.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
