package viewmover

import (
	"time"

	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/clock"
)

// Eased interpolates directly from one camera to another over a fixed
// time with a single easing curve, animating the simulated date with it.
type Eased struct {
	clk  clock.Source
	opts Options

	from, to     camera.Parameters
	fromDate     time.Time
	toDate       time.Time
	ease         camera.EaseType
	start        time.Time
	seconds      float64
	alpha        float64
	complete     bool
	midpoint     func()
	midpointDone bool
}

// NewEased starts an eased move lasting the given number of seconds. A nil
// clock uses the system clock.
func NewEased(from, to camera.Parameters, seconds float64, fromDate, toDate time.Time, ease camera.EaseType, clk clock.Source, opts Options) *Eased {
	from = sanitizeZoom(from)
	to = sanitizeZoom(to)
	clk = clock.OrSystem(clk)
	return &Eased{
		clk:      clk,
		opts:     opts,
		from:     unwrap(from, to),
		to:       to,
		fromDate: fromDate,
		toDate:   toDate,
		ease:     ease,
		start:    clk.Now(),
		seconds:  seconds,
	}
}

// CurrentPosition implements Mover.
func (m *Eased) CurrentPosition() camera.Parameters {
	if m.complete {
		return m.to
	}

	alpha := 1.0
	if m.seconds > 0 {
		alpha = m.clk.Now().Sub(m.start).Seconds() / m.seconds
	}
	if alpha < 0 {
		alpha = 0
	}

	if !m.midpointDone && alpha >= 0.5 {
		m.midpointDone = true
		if m.midpoint != nil {
			m.midpoint()
		}
	}

	if alpha >= 1 {
		m.alpha = 1
		m.complete = true
		return m.to
	}
	m.alpha = alpha
	return m.opts.interpolate(m.from, m.to, alpha, m.ease, m.opts.FastDirectionMove)
}

// CurrentDateTime implements Mover. It follows the progress of the most
// recent CurrentPosition call.
func (m *Eased) CurrentDateTime() time.Time {
	if m.alpha >= 1 {
		return m.toDate
	}
	span := m.toDate.Sub(m.fromDate)
	return m.fromDate.Add(time.Duration(float64(span) * m.alpha))
}

// Complete implements Mover.
func (m *Eased) Complete() bool { return m.complete }

// MoveTime implements Mover.
func (m *Eased) MoveTime() float64 { return m.seconds }

// SetMidpoint implements Mover.
func (m *Eased) SetMidpoint(fn func()) { m.midpoint = fn }
