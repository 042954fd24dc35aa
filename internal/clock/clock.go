// Package clock abstracts wall-clock time so that animation and simulation
// code can be driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Source reports the current wall-clock time.
type Source interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Manual is a Source that only moves when told to. It is safe for
// concurrent use.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual returns a Manual clock reading start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Since returns the time elapsed on src since t.
func Since(src Source, t time.Time) time.Duration {
	return src.Now().Sub(t)
}

// OrSystem returns src, or System when src is nil.
func OrSystem(src Source) Source {
	if src == nil {
		return System{}
	}
	return src
}
