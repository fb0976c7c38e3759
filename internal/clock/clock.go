// Package clock provides the injectable time source and the whole-second
// arithmetic used for work-time accounting.
package clock

import (
	"sync"
	"time"
)

// Clock is a source of "now". Operations read it once and thread the value
// through every derived calculation.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC, truncated to whole seconds so that
// stored timestamps round-trip through RFC3339 unchanged.
type System struct{}

// Now returns the current UTC time truncated to the second.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Fixed always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Manual is a settable clock for tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a Manual clock positioned at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current position of the clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// ElapsedSeconds returns max(0, b-a) in whole seconds.
func ElapsedSeconds(a, b time.Time) int64 {
	if !b.After(a) {
		return 0
	}
	return int64(b.Sub(a) / time.Second)
}

// ClipInterval returns the length in whole seconds of [start, min(end, upperBound)].
// It returns 0 when start is at or past upperBound.
func ClipInterval(start, end, upperBound time.Time) int64 {
	if !start.Before(upperBound) {
		return 0
	}
	if end.After(upperBound) {
		end = upperBound
	}
	return ElapsedSeconds(start, end)
}

// Earliest returns the earlier of a and b.
func Earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
