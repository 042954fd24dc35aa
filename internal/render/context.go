// Package render owns the camera pair and the per-frame matrices of the
// planetarium. Each Tick advances simulated time, moves the view camera
// (by an active mover or by damping toward the target camera), rebuilds
// the world, view and projection matrices for the current mode and hands
// the result out as a Frame.
package render

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/clock"
	"github.com/litescript/ls-planetarium/internal/logging"
	"github.com/litescript/ls-planetarium/internal/metrics"
	"github.com/litescript/ls-planetarium/internal/spacetime"
	"github.com/litescript/ls-planetarium/internal/state"
	"github.com/litescript/ls-planetarium/internal/viewmover"
	"github.com/soniakeys/unit"
)

// Context is the render state. It is not safe for concurrent use; one
// frame loop owns it.
type Context struct {
	cfg     Config
	clk     clock.Source
	st      *spacetime.Controller
	log     *logging.Logger
	metrics *metrics.Collector
	events  *state.Manager

	viewCamera   camera.Parameters
	targetCamera camera.Parameters

	mover          viewmover.Mover
	moverKind      string
	moverDates     bool
	damping        bool
	onMoveComplete func(camera.Parameters)
	onMidpoint     func()

	background BackgroundType
	mode       Mode

	world, view, projection mgl64.Mat4
	frustum                 Frustum
	frustumDirty            bool

	width, height int
	fovAngle      float64
	fovScale      float64
	nominalRadius float64

	frame Frame
}

// New creates a context looking at the whole sky. A nil controller gets a
// default one on clk; a nil clock uses the system clock.
func New(cfg Config, st *spacetime.Controller, clk clock.Source, log *logging.Logger) *Context {
	clk = clock.OrSystem(clk)
	if st == nil {
		st = spacetime.New(clk, spacetime.DefaultConfig(), log)
	}
	cam := camera.New()
	c := &Context{
		cfg:          cfg,
		clk:          clk,
		st:           st,
		log:          log,
		viewCamera:   cam,
		targetCamera: cam,
		background:   BackgroundSky,
		mode:         SkyProjected,
		width:        cfg.Width,
		height:       cfg.Height,
	}
	c.normalize()
	c.rebuild()
	c.frame = c.buildFrame()
	return c
}

// SetMetrics attaches a metrics collector. nil disables metrics.
func (c *Context) SetMetrics(m *metrics.Collector) {
	c.metrics = m
	c.st.OnClamp(func(time.Time) { c.metrics.IncClockClamps() })
}

// SetEventLog attaches the navigation event log. nil disables it.
func (c *Context) SetEventLog(m *state.Manager) {
	c.events = m
}

// Config returns the context's tunables.
func (c *Context) Config() Config { return c.cfg }

// SpaceTime returns the simulated clock the context drives.
func (c *Context) SpaceTime() *spacetime.Controller { return c.st }

// ViewCamera returns the camera currently being rendered.
func (c *Context) ViewCamera() camera.Parameters { return c.viewCamera }

// SetViewCamera replaces the rendered camera. Damping then carries it
// back toward the target camera.
func (c *Context) SetViewCamera(p camera.Parameters) {
	c.viewCamera = p
}

// TargetCamera returns the camera the view is heading for.
func (c *Context) TargetCamera() camera.Parameters { return c.targetCamera }

// SetTargetCamera sets where damping moves the view. It cancels any
// active mover.
func (c *Context) SetTargetCamera(p camera.Parameters) {
	c.CancelMover()
	c.targetCamera = p
}

// Mode returns the current render mode.
func (c *Context) Mode() Mode { return c.mode }

// Background returns the current background type.
func (c *Context) Background() BackgroundType { return c.background }

// Space reports whether the context is looking out at the sky.
func (c *Context) Space() bool { return c.mode == SkyProjected }

// SetBackground switches the background and with it the render mode.
// Cameras are re-clamped to the new mode's zoom bounds.
func (c *Context) SetBackground(b BackgroundType) {
	old := c.mode
	c.background = b
	c.mode = b.Mode()
	if old == c.mode {
		return
	}
	c.CancelMover()
	c.log.Info("render mode %s -> %s", old, c.mode)
	c.normalize()
	c.rebuild()
}

// GalacticMode reports whether sky slews follow great circles.
func (c *Context) GalacticMode() bool { return c.cfg.GalacticMode }

// SetGalacticMode toggles great-circle sky slews.
func (c *Context) SetGalacticMode(on bool) { c.cfg.GalacticMode = on }

// SetViewport sets the drawing surface size in pixels.
func (c *Context) SetViewport(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.rebuild()
}

// Viewport returns the drawing surface size in pixels.
func (c *Context) Viewport() (width, height int) { return c.width, c.height }

// FovAngle returns the vertical field of view in degrees.
func (c *Context) FovAngle() float64 { return c.fovAngle }

// FovScale returns the arcseconds covered by one pixel.
func (c *Context) FovScale() float64 { return c.fovScale }

// NominalRadius returns the radius of the sphere being viewed in world
// units.
func (c *Context) NominalRadius() float64 { return c.nominalRadius }

// World returns the world matrix.
func (c *Context) World() mgl64.Mat4 { return c.world }

// SetWorld replaces the world matrix and invalidates the frustum.
func (c *Context) SetWorld(m mgl64.Mat4) {
	c.world = m
	c.frustumDirty = true
}

// View returns the view matrix.
func (c *Context) View() mgl64.Mat4 { return c.view }

// SetView replaces the view matrix and invalidates the frustum.
func (c *Context) SetView(m mgl64.Mat4) {
	c.view = m
	c.frustumDirty = true
}

// Projection returns the projection matrix.
func (c *Context) Projection() mgl64.Mat4 { return c.projection }

// SetProjection replaces the projection matrix and invalidates the
// frustum.
func (c *Context) SetProjection(m mgl64.Mat4) {
	c.projection = m
	c.frustumDirty = true
}

// WorldViewProjection returns Projection * View * World.
func (c *Context) WorldViewProjection() mgl64.Mat4 {
	return c.projection.Mul4(c.view).Mul4(c.world)
}

// Frustum returns the normalized clipping planes of the current matrices,
// recomputing them if a matrix changed.
func (c *Context) Frustum() Frustum {
	if c.frustumDirty {
		c.frustum = FrustumFromMatrix(c.WorldViewProjection())
		c.frustumDirty = false
	}
	return c.frustum
}

// PointInView reports whether a world-space point is inside the frustum.
func (c *Context) PointInView(v astro.Vec3) bool {
	return c.Frustum().ContainsPoint(v)
}

// SphereInView reports whether any part of a world-space sphere is inside
// the frustum.
func (c *Context) SphereInView(center astro.Vec3, radius float64) bool {
	return c.Frustum().IntersectsSphere(center, radius)
}

// Moving reports whether the view camera is animating or settling.
func (c *Context) Moving() bool {
	return c.mover != nil || c.damping
}

// Frame returns the most recent frame.
func (c *Context) Frame() Frame { return c.frame }

// Tick advances one frame and returns it.
func (c *Context) Tick() Frame {
	start := c.clk.Now()
	c.st.BeginFrame()

	if c.mover != nil {
		c.stepMover()
	} else {
		c.st.UpdateClock()
		c.damp()
	}

	c.normalize()
	c.rebuild()
	c.frame = c.buildFrame()

	elapsed := c.clk.Now().Sub(start)
	c.metrics.ObserveFrame(elapsed, c.viewCamera.Zoom, c.st.TimeRate())
	c.events.Update(state.Frame{
		Timestamp: start,
		SimTime:   c.frame.Now,
		JulianDay: c.frame.JulianDay,
		Mode:      c.mode.String(),
		View:      c.viewCamera,
		Moving:    c.frame.Moving,
		Duration:  elapsed,
	})
	return c.frame
}

// Render ticks and hands the frame to r.
func (c *Context) Render(r Renderer) error {
	return r.Draw(c.Tick())
}

func (c *Context) stepMover() {
	m := c.mover
	pos := m.CurrentPosition()
	if c.mover != m {
		// The midpoint hook replaced or cancelled the move.
		c.st.UpdateClock()
		return
	}
	if c.moverDates {
		c.st.SetNow(m.CurrentDateTime())
	} else {
		c.st.UpdateClock()
	}
	c.viewCamera = pos
	c.targetCamera = pos

	if m.Complete() {
		kind := c.moverKind
		c.mover = nil
		c.moverKind = ""
		c.metrics.MoveCompleted(kind)
		c.log.Debug("%s complete at lat=%.4f lng=%.4f zoom=%.6g", kind, pos.Lat, pos.Lng, pos.Zoom)
		if c.onMoveComplete != nil {
			c.onMoveComplete(pos)
		}
	}
}

// damp moves the view camera a fixed share of the way toward the target
// camera, snapping once every component is within a zoom-relative
// threshold.
func (c *Context) damp() {
	v, t := &c.viewCamera, c.targetCamera
	switch {
	case t.Lng-v.Lng > 180:
		v.Lng += 360
	case v.Lng-t.Lng > 180:
		v.Lng -= 360
	}

	minDelta := v.Zoom / 4000
	if v.Zoom > 360 {
		minDelta = 360.0 / 40000
	}

	dc := c.cfg.Damping
	if dc <= 0 || dc >= 1 || !farFrom(*v, t, minDelta) {
		c.viewCamera = t
		c.damping = false
		return
	}

	keep := func(a, b float64) float64 { return a*dc + b*(1-dc) }
	v.Lat = keep(v.Lat, t.Lat)
	v.Lng = keep(v.Lng, t.Lng)
	v.Zoom = keep(v.Zoom, t.Zoom)
	v.Rotation = keep(v.Rotation, t.Rotation)
	v.Angle = keep(v.Angle, t.Angle)
	v.ViewTarget = t.ViewTarget.Lerp(v.ViewTarget, dc)
	v.Opacity = t.Opacity
	v.RADecMode = t.RADecMode
	v.Target = t.Target
	v.TargetReferenceFrame = t.TargetReferenceFrame
	c.damping = true
}

func farFrom(v, t camera.Parameters, minDelta float64) bool {
	const angleDelta = 1e-4
	return math.Abs(t.Lat-v.Lat) >= minDelta ||
		math.Abs(t.Lng-v.Lng) >= minDelta ||
		math.Abs(t.Zoom-v.Zoom) >= math.Max(minDelta, t.Zoom*1e-4) ||
		math.Abs(t.Rotation-v.Rotation) >= angleDelta ||
		math.Abs(t.Angle-v.Angle) >= angleDelta ||
		t.ViewTarget.Sub(v.ViewTarget).Norm() >= 1e-9*math.Max(1, t.ViewTarget.Norm())
}

// normalize keeps both cameras inside the mode's ranges.
func (c *Context) normalize() {
	b := c.cfg.bounds(c.mode)
	for _, p := range []*camera.Parameters{&c.viewCamera, &c.targetCamera} {
		p.Lat = math.Min(math.Max(p.Lat, -90), 90)
		p.Lng = unit.PMod(p.Lng, 360)
		p.Zoom = b.Clamp(p.Zoom)
	}
}

func (c *Context) rebuild() {
	aspect := aspectRatio(c.width, c.height)

	var m matrices
	switch c.mode {
	case PlanetSurface3D:
		m = planetMatrices(c.viewCamera, aspect, c.cfg)
	case SolarSystem3D:
		m = solarSystemMatrices(c.viewCamera, aspect, c.cfg)
	default:
		m = skyMatrices(c.viewCamera, aspect)
	}
	c.SetWorld(m.world)
	c.SetView(m.view)
	c.SetProjection(m.projection)
	c.nominalRadius = m.nominalRadius

	c.fovAngle = fovRadians(c.viewCamera.Zoom) * 180 / math.Pi
	c.fovScale = 0
	if c.height > 0 {
		c.fovScale = c.fovAngle / float64(c.height) * 3600
	}
}

func (c *Context) buildFrame() Frame {
	jd := c.st.JNow()
	return Frame{
		Now:                 c.st.Now(),
		JulianDay:           jd,
		Obliquity:           astro.MeanObliquityOfEcliptic(jd),
		Mode:                c.mode,
		Space:               c.Space(),
		Galactic:            c.cfg.GalacticMode,
		Moving:              c.Moving(),
		Camera:              c.viewCamera,
		World:               c.world,
		View:                c.view,
		Projection:          c.projection,
		WorldViewProjection: c.WorldViewProjection(),
		Frustum:             c.Frustum(),
		FovAngle:            c.fovAngle,
		FovScale:            c.fovScale,
		NominalRadius:       c.nominalRadius,
		Width:               c.width,
		Height:              c.height,
	}
}
