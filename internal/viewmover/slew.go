package viewmover

import (
	"math"
	"time"

	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/clock"
)

// Slew flies between two cameras in three phases: zoom out to a common
// "top" view, travel across at that zoom, then zoom in. Phase boundaries
// are fixed at construction as absolute elapsed seconds.
type Slew struct {
	clk  clock.Source
	sim  SimClock
	opts Options

	from, to       camera.Parameters
	fromTop, toTop camera.Parameters
	start          time.Time

	upTargetTime   float64
	downTargetTime float64
	toTargetTime   float64

	complete     bool
	midpoint     func()
	midpointDone bool
}

// NewSlew plans a slew using opts.Tuning (or DefaultTuning). sim may be nil,
// in which case CurrentDateTime reports wall-clock time.
func NewSlew(from, to camera.Parameters, clk clock.Source, sim SimClock, opts Options) *Slew {
	return newSlew(from, to, clk, sim, opts, opts.tuning())
}

// NewSlewUpDown plans a slew whose zoom-out and zoom-in phases use
// upDownFactor instead of the tuned up and down factors.
func NewSlewUpDown(from, to camera.Parameters, upDownFactor float64, clk clock.Source, sim SimClock, opts Options) *Slew {
	tn := opts.tuning()
	tn.UpTimeFactor = upDownFactor
	tn.DownTimeFactor = upDownFactor
	return newSlew(from, to, clk, sim, opts, tn)
}

func newSlew(from, to camera.Parameters, clk clock.Source, sim SimClock, opts Options, tn Tuning) *Slew {
	from = unwrap(sanitizeZoom(from), to)
	to = sanitizeZoom(to)
	clk = clock.OrSystem(clk)

	latDist := math.Abs(from.Lat - to.Lat)
	lngDist := math.Abs(from.Lng - to.Lng)
	distance := math.Sqrt(latDist*latDist + lngDist*lngDist)

	zoomUp := math.Min(camera.FullSky, distance/3*20)
	zoomUp = math.Max(zoomUp, from.Zoom)

	travelTime := distance / 180 * (camera.FullSky / zoomUp) * tn.TravelTimeFactor
	rotateTime := math.Max(math.Abs(from.Angle-to.Angle), math.Abs(from.Rotation-to.Rotation))

	logDistUp := math.Max(math.Abs(math.Log2(zoomUp)-math.Log2(from.Zoom)), rotateTime)
	up := tn.UpTimeFactor * logDistUp
	down := up + travelTime
	logDistDown := math.Abs(math.Log2(zoomUp) - math.Log2(to.Zoom))
	total := down + math.Max(tn.DownTimeFactor*logDistDown, rotateTime)

	fromTop := from
	fromTop.Zoom = zoomUp
	fromTop.Angle = (from.Angle + to.Angle) / 2
	fromTop.Rotation = (from.Rotation + to.Rotation) / 2

	toTop := to
	toTop.Zoom = fromTop.Zoom
	toTop.Angle = fromTop.Angle
	toTop.Rotation = fromTop.Rotation

	return &Slew{
		clk:            clk,
		sim:            sim,
		opts:           opts,
		from:           from,
		to:             to,
		fromTop:        fromTop,
		toTop:          toTop,
		start:          clk.Now(),
		upTargetTime:   up,
		downTargetTime: down,
		toTargetTime:   total,
	}
}

// CurrentPosition implements Mover.
func (m *Slew) CurrentPosition() camera.Parameters {
	if m.complete {
		return m.to
	}

	elapsed := m.clk.Now().Sub(m.start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < m.upTargetTime:
		return camera.Interpolate(m.from, m.fromTop, elapsed/m.upTargetTime, camera.EaseInOut, false)
	case elapsed < m.downTargetTime:
		alpha := (elapsed - m.upTargetTime) / (m.downTargetTime - m.upTargetTime)
		return m.opts.interpolate(m.fromTop, m.toTop, alpha, camera.EaseInOut, false)
	}

	if !m.midpointDone {
		m.midpointDone = true
		if m.midpoint != nil {
			m.midpoint()
		}
	}

	alpha := 1.0
	if span := m.toTargetTime - m.downTargetTime; span > 0 {
		alpha = (elapsed - m.downTargetTime) / span
	}
	if alpha >= 1 {
		m.complete = true
		return m.to
	}
	return camera.Interpolate(m.toTop, m.to, alpha, camera.EaseInOut, false)
}

// CurrentDateTime implements Mover. A slew does not animate time; it lets
// the simulated clock keep running.
func (m *Slew) CurrentDateTime() time.Time {
	if m.sim == nil {
		return m.clk.Now()
	}
	m.sim.UpdateClock()
	return m.sim.Now()
}

// Complete implements Mover.
func (m *Slew) Complete() bool { return m.complete }

// MoveTime implements Mover.
func (m *Slew) MoveTime() float64 { return m.toTargetTime }

// SetMidpoint implements Mover.
func (m *Slew) SetMidpoint(fn func()) { m.midpoint = fn }

// Phases returns the phase boundaries in elapsed seconds.
func (m *Slew) Phases() (up, down, total float64) {
	return m.upTargetTime, m.downTargetTime, m.toTargetTime
}

// Top returns the zoomed-out cameras at the start and end of the travel
// phase.
func (m *Slew) Top() (fromTop, toTop camera.Parameters) {
	return m.fromTop, m.toTop
}
