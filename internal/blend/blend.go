// Package blend tracks boolean display properties that fade between on and
// off over a fixed delay, such as overlay grids and constellation art.
package blend

import (
	"time"

	"github.com/litescript/ls-planetarium/internal/clock"
)

// State is a boolean that transitions toward a target value over Delay.
// It is meant to be queried every frame by a single goroutine.
type State struct {
	clk clock.Source

	state       bool
	targetState bool
	switchedAt  time.Time
	delay       time.Duration
}

// New returns a settled State. A nil clock uses the system clock.
func New(initial bool, delay time.Duration, clk clock.Source) *State {
	return &State{
		clk:         clock.OrSystem(clk),
		state:       initial,
		targetState: initial,
		delay:       delay,
	}
}

// State reports the current value. While a transition is in flight it
// reports true, whichever way the transition is heading; use Opacity to
// tell a fade-in from a fade-out.
func (b *State) State() bool {
	if b.targetState != b.state {
		if b.elapsed() > b.delay {
			b.state = b.targetState
		}
		return true
	}
	return b.state
}

// TargetState returns the value the state is heading toward.
func (b *State) TargetState() bool {
	return b.targetState
}

// SetTargetState starts a transition toward v. Setting the current target
// again does nothing.
func (b *State) SetTargetState(v bool) {
	if v == b.targetState {
		return
	}
	b.switchedAt = b.clk.Now()
	b.targetState = v
}

// SetState commits v immediately and drops any transition.
func (b *State) SetState(v bool) {
	b.state = v
	b.targetState = v
	b.switchedAt = time.Time{}
}

// Opacity returns the fade level in [0, 1]: a linear ramp while
// transitioning, then 0 or 1 once settled.
func (b *State) Opacity() float64 {
	if b.targetState != b.state {
		elapsed := b.elapsed()
		if elapsed > b.delay || b.delay <= 0 {
			b.state = b.targetState
		} else {
			op := float64(elapsed) / float64(b.delay)
			if op < 0 {
				op = 0
			}
			if b.targetState {
				return op
			}
			return 1 - op
		}
	}
	if b.state {
		return 1
	}
	return 0
}

// Delay returns the transition duration.
func (b *State) Delay() time.Duration {
	return b.delay
}

// SetDelay changes the transition duration for future queries.
func (b *State) SetDelay(d time.Duration) {
	b.delay = d
}

func (b *State) elapsed() time.Duration {
	return b.clk.Now().Sub(b.switchedAt)
}
