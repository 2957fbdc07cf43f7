package shared

import "time"

// Clock abstracts time acquisition so that timestamp assignment and
// time-ordered logic are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock that returns a preset instant, advanceable by tests
type FixedClock struct {
	Instant time.Time
}

// NewFixedClock creates a FixedClock pinned to the given instant
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{Instant: t}
}

// Now returns the pinned instant
func (c *FixedClock) Now() time.Time {
	return c.Instant
}

// Advance moves the pinned instant forward by d and returns the new instant
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.Instant = c.Instant.Add(d)
	return c.Instant
}
