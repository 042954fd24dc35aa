package render

import (
	"math"
	"time"

	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/state"
	"github.com/litescript/ls-planetarium/internal/viewmover"
	"github.com/soniakeys/unit"
)

// Mover kinds reported to metrics and the event log.
const (
	KindSlew   = "slew"
	KindEased  = "eased"
	KindCustom = "custom"
)

// OnMoveComplete installs a callback fired synchronously when a move or
// snap lands. nil removes it.
func (c *Context) OnMoveComplete(fn func(camera.Parameters)) {
	c.onMoveComplete = fn
}

// OnMidpoint installs a callback fired synchronously when an animated
// move passes its midpoint. nil removes it.
func (c *Context) OnMidpoint(fn func()) {
	c.onMidpoint = fn
}

// Mover returns the active mover, or nil.
func (c *Context) Mover() viewmover.Mover { return c.mover }

// GotoTarget flies to p. With noZoom the current zoom, tilt and rotation
// are kept. A zoom of zero or less means the mode's default zoom. When
// instant is set, or the view is already there, the camera snaps and the
// completion callback fires immediately.
func (c *Context) GotoTarget(p camera.Parameters, noZoom, instant bool) {
	p = c.prepareTarget(p, noZoom)

	if instant || c.alreadyAt(p) {
		c.CancelMover()
		c.viewCamera = p
		c.targetCamera = p
		c.damping = false
		c.metrics.IncSnaps()
		c.record(state.EventSnap, p, "")
		c.log.Debug("snap to lat=%.4f lng=%.4f zoom=%.6g", p.Lat, p.Lng, p.Zoom)
		if c.onMoveComplete != nil {
			c.onMoveComplete(p)
		}
		return
	}

	c.SetMover(viewmover.NewSlew(c.viewCamera, p, c.clk, c.st, c.moverOptions()), KindSlew)
}

// TimeToTarget returns the seconds a GotoTarget to p would take, without
// starting it.
func (c *Context) TimeToTarget(p camera.Parameters, noZoom bool) float64 {
	p = c.prepareTarget(p, noZoom)
	if c.alreadyAt(p) {
		return 0
	}
	return viewmover.NewSlew(c.viewCamera, p, c.clk, c.st, c.moverOptions()).MoveTime()
}

// StartEased animates to p over the given seconds along an ease curve.
// A non-zero toDate moves simulated time there along with the camera;
// otherwise the clock keeps running.
func (c *Context) StartEased(p camera.Parameters, seconds float64, ease camera.EaseType, toDate time.Time) {
	p = c.prepareTarget(p, false)
	from := c.st.Now()
	m := viewmover.NewEased(c.viewCamera, p, seconds, from, toDate, ease, c.clk, c.moverOptions())
	c.SetMover(m, KindEased)
	c.moverDates = !toDate.IsZero()
}

// SetMover installs an arbitrary mover, replacing any active one. kind
// labels it in metrics; an empty kind means KindCustom.
func (c *Context) SetMover(m viewmover.Mover, kind string) {
	c.CancelMover()
	if m == nil {
		return
	}
	if kind == "" {
		kind = KindCustom
	}
	c.mover = m
	c.moverKind = kind
	c.moverDates = kind == KindSlew
	c.damping = false
	m.SetMidpoint(func() {
		c.record(state.EventMidpoint, c.viewCamera, kind)
		if c.onMidpoint != nil {
			c.onMidpoint()
		}
	})
	c.metrics.MoveStarted(kind, m.MoveTime())
	c.log.Debug("%s started, %.2fs", kind, m.MoveTime())
}

// CancelMover stops the active mover, leaving the view where it is.
func (c *Context) CancelMover() {
	if c.mover == nil {
		return
	}
	c.record(state.EventMoveCancelled, c.viewCamera, c.moverKind)
	c.log.Debug("%s cancelled", c.moverKind)
	c.mover = nil
	c.moverKind = ""
	c.moverDates = false
	c.targetCamera = c.viewCamera
}

// Pan moves the target camera by the given degrees. Longitude steps
// shrink toward the poles so screen motion stays even.
func (c *Context) Pan(dLat, dLng float64) {
	c.CancelMover()
	t := c.targetCamera
	t.Lat = math.Min(math.Max(t.Lat+dLat, -90), 90)
	t.Lng += dLng / math.Max(math.Cos(t.Lat*math.Pi/180), 0.1)
	c.targetCamera = t
	c.normalize()
}

// Zoom multiplies the target zoom by factor. Factors below one zoom in.
func (c *Context) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.CancelMover()
	c.targetCamera.Zoom *= factor
	c.normalize()
}

// Rotate turns the target camera about the view axis by radians.
func (c *Context) Rotate(radians float64) {
	c.CancelMover()
	c.targetCamera.Rotation += radians
}

// Tilt changes the target camera tilt by radians, keeping it between
// straight down and MaxTilt.
func (c *Context) Tilt(radians float64) {
	c.CancelMover()
	c.targetCamera.Angle = math.Min(math.Max(c.targetCamera.Angle+radians, -c.cfg.MaxTilt), 0)
}

func (c *Context) prepareTarget(p camera.Parameters, noZoom bool) camera.Parameters {
	if noZoom {
		p.Zoom = c.viewCamera.Zoom
		p.Angle = c.viewCamera.Angle
		p.Rotation = c.viewCamera.Rotation
	}
	if p.Zoom <= 0 {
		p.Zoom = c.cfg.defaultZoom(c.mode)
	}
	p.Zoom = c.cfg.bounds(c.mode).Clamp(p.Zoom)
	p.Lat = math.Min(math.Max(p.Lat, -90), 90)
	p.Lng = unit.PMod(p.Lng, 360)
	return p
}

func (c *Context) alreadyAt(p camera.Parameters) bool {
	const eps = 1e-12
	v := c.viewCamera
	dLng := math.Mod(math.Abs(v.Lng-p.Lng), 360)
	dLng = math.Min(dLng, 360-dLng)
	return math.Abs(v.Lat-p.Lat) < eps &&
		dLng < eps &&
		math.Abs(v.Zoom-p.Zoom) < eps &&
		math.Abs(v.Rotation-p.Rotation) < eps &&
		math.Abs(v.Angle-p.Angle) < eps
}

func (c *Context) moverOptions() viewmover.Options {
	return viewmover.Options{
		GreatCircle: c.cfg.GalacticMode && c.Space(),
		Tuning:      c.cfg.Slew,
	}
}

func (c *Context) record(t state.EventType, p camera.Parameters, detail string) {
	if c.events == nil {
		return
	}
	c.events.Record(state.Event{
		Type:      t,
		Timestamp: c.clk.Now(),
		SimTime:   c.st.Now(),
		Lat:       p.Lat,
		Lng:       p.Lng,
		Zoom:      p.Zoom,
		Mode:      c.mode.String(),
		Detail:    detail,
	})
}
