package testutil

import "time"

// Clock is a manually advanced time source.
type Clock struct {
	t time.Time
}

// NewClock creates a Clock starting at t.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	return c.t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// Set moves the clock to t, which may be in the past.
func (c *Clock) Set(t time.Time) {
	c.t = t
}
