package render

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/clock"
	"github.com/litescript/ls-planetarium/internal/logging"
	"github.com/litescript/ls-planetarium/internal/spacetime"
)

var epoch = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

func newContext(t *testing.T) (*Context, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(epoch)
	st := spacetime.New(clk, spacetime.DefaultConfig(), logging.Discard())
	return New(DefaultConfig(), st, clk, logging.Discard()), clk
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNew_Defaults(t *testing.T) {
	c, _ := newContext(t)
	if c.Mode() != SkyProjected || !c.Space() {
		t.Errorf("Mode() = %v, Space() = %v; want sky", c.Mode(), c.Space())
	}
	if c.ViewCamera() != c.TargetCamera() {
		t.Error("view and target cameras differ at start")
	}
	if c.ViewCamera().Zoom != camera.FullSky {
		t.Errorf("initial zoom = %v, want %v", c.ViewCamera().Zoom, camera.FullSky)
	}
	if c.Moving() {
		t.Error("new context reports motion")
	}
}

func TestTick_FovAndScale(t *testing.T) {
	c, _ := newContext(t)
	f := c.Tick()

	wantFov := 360 / fovMult * 180 / math.Pi
	if !approx(f.FovAngle, wantFov, 1e-9) || !approx(c.FovAngle(), wantFov, 1e-9) {
		t.Errorf("FovAngle = %v, want %v", f.FovAngle, wantFov)
	}
	if want := wantFov / 600 * 3600; !approx(f.FovScale, want, 1e-9) {
		t.Errorf("FovScale = %v, want %v", f.FovScale, want)
	}
	if f.Width != 800 || f.Height != 600 {
		t.Errorf("frame size = %dx%d", f.Width, f.Height)
	}
	if f.NominalRadius != 1 {
		t.Errorf("NominalRadius = %v, want 1", f.NominalRadius)
	}
}

func TestTick_JulianDayAndObliquity(t *testing.T) {
	c, clk := newContext(t)
	clk.Advance(time.Hour)
	f := c.Tick()

	if !f.Now.Equal(epoch.Add(time.Hour)) {
		t.Errorf("Now = %v, want %v", f.Now, epoch.Add(time.Hour))
	}
	if want := astro.JulianDate(f.Now); !approx(f.JulianDay, want, 1e-9) {
		t.Errorf("JulianDay = %v, want %v", f.JulianDay, want)
	}
	if want := astro.MeanObliquityOfEcliptic(f.JulianDay); f.Obliquity != want {
		t.Errorf("Obliquity = %v, want %v", f.Obliquity, want)
	}
}

func TestFrame_ProjectSky(t *testing.T) {
	c, _ := newContext(t)
	c.GotoTarget(camera.Create(0, 0, 360, 0, 0, 100), false, true)
	f := c.Tick()

	x, y, ok := f.Project(astro.GeoTo3D(0, 0, 1))
	if !ok || !approx(x, 400, 1e-6) || !approx(y, 300, 1e-6) {
		t.Fatalf("center projects to (%v, %v, %v), want (400, 300)", x, y, ok)
	}

	if _, y, ok := f.Project(astro.GeoTo3D(5, 0, 1)); !ok || y >= 300 {
		t.Errorf("north projects to y=%v ok=%v, want above center", y, ok)
	}
	// Seen from inside the sphere, RA increases to the left.
	if x, _, ok := f.Project(astro.SkyTo3D(1, 0)); !ok || x >= 400 {
		t.Errorf("RA 1h projects to x=%v ok=%v, want left of center", x, ok)
	}
	if _, _, ok := f.Project(astro.GeoTo3D(0, 180, 1)); ok {
		t.Error("point behind the camera projected")
	}
}

func TestTick_PlanetLooksAtSurfacePoint(t *testing.T) {
	c, _ := newContext(t)
	c.SetBackground(BackgroundEarth)
	if c.Mode() != PlanetSurface3D || c.Space() {
		t.Fatalf("Mode() = %v after earth background", c.Mode())
	}

	for _, angle := range []float64{0, -0.5, -1.2} {
		c.GotoTarget(camera.Create(35, 120, 10, 0.4, angle, 100), false, true)
		f := c.Tick()
		x, y, ok := f.Project(astro.GeoTo3D(35, 120, 1))
		if !ok || !approx(x, 400, 1e-6) || !approx(y, 300, 1e-6) {
			t.Errorf("angle %v: surface point projects to (%v, %v, %v)", angle, x, y, ok)
		}
		if angle == 0 {
			if _, _, ok := f.Project(astro.GeoTo3D(-55, 120, 1)); ok {
				t.Error("point a quarter turn away projected while looking straight down")
			}
		}
	}
}

func TestTick_SolarSystemLooksAtViewTarget(t *testing.T) {
	c, _ := newContext(t)
	c.SetBackground(BackgroundSolarSystem)

	p := camera.Create(20, 30, 50, 0, -0.4, 100)
	p.ViewTarget = astro.Vec3{X: 2, Y: -1, Z: 0.5}
	c.GotoTarget(p, false, true)
	f := c.Tick()

	x, y, ok := f.Project(p.ViewTarget)
	if !ok || !approx(x, 400, 1e-6) || !approx(y, 300, 1e-6) {
		t.Errorf("view target projects to (%v, %v, %v)", x, y, ok)
	}
	if !c.SphereInView(p.ViewTarget, 0.01) {
		t.Error("view target sphere not in view")
	}
}

func TestSolarSystemMatrices_TiltFade(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TiltFadeStart = 100

	tiltOf := func(zoom float64) float64 {
		cam := camera.Create(0, 0, zoom, 0, -1, 100)
		m := solarSystemMatrices(cam, 1, cfg)
		// Angle between the view direction and straight down.
		fwd := mgl64.Vec3{-m.view.At(2, 0), -m.view.At(2, 1), -m.view.At(2, 2)}
		return math.Acos(math.Min(1, -fwd.Dot(mgl64.Vec3{1, 0, 0})))
	}

	if got := tiltOf(50); !approx(got, 1, 1e-9) {
		t.Errorf("tilt below fade start = %v, want 1", got)
	}
	if got := tiltOf(1000); !approx(got, 1-1.0/3, 1e-9) {
		t.Errorf("tilt at one decade = %v, want %v", got, 1-1.0/3)
	}
	if got := tiltOf(1e6); !approx(got, 0, 1e-7) {
		t.Errorf("tilt past fade = %v, want 0", got)
	}
}

func TestSetBackground_ClampsZoom(t *testing.T) {
	c, _ := newContext(t)
	c.SetBackground(BackgroundSolarSystem)
	p := camera.Create(0, 0, 1e12, 0, 0, 100)
	c.GotoTarget(p, false, true)
	c.Tick()

	c.SetBackground(BackgroundSky)
	if got := c.ViewCamera().Zoom; got != 360 {
		t.Errorf("zoom after switching to sky = %v, want 360", got)
	}
	if got := c.TargetCamera().Zoom; got != 360 {
		t.Errorf("target zoom after switching to sky = %v, want 360", got)
	}
}

func TestTick_WrapsLongitude(t *testing.T) {
	c, _ := newContext(t)
	c.GotoTarget(camera.Create(0, -30, 60, 0, 0, 100), false, true)
	c.Tick()
	if got := c.ViewCamera().Lng; !approx(got, 330, 1e-12) {
		t.Errorf("Lng = %v, want 330", got)
	}
	if got := c.TargetCamera().Lng; !approx(got, 330, 1e-12) {
		t.Errorf("target Lng = %v, want 330", got)
	}
}

func TestTick_DampsAcrossZero(t *testing.T) {
	c, _ := newContext(t)
	c.GotoTarget(camera.Create(0, 350, 60, 0, 0, 100), false, true)
	c.Tick()

	target := camera.Create(0, 10, 60, 0, 0, 100)
	c.SetTargetCamera(target)
	c.Tick()
	if got := c.ViewCamera().Lng; !approx(got, 354, 1e-9) {
		t.Fatalf("first damped Lng = %v, want 354", got)
	}
	if !c.Moving() {
		t.Error("Moving() = false while damping")
	}

	for i := 0; i < 200 && c.Moving(); i++ {
		c.Tick()
	}
	if c.Moving() {
		t.Fatal("damping never settled")
	}
	if got := c.ViewCamera(); got != target {
		t.Errorf("settled view = %+v, want %+v", got, target)
	}
}

func TestTick_SnapsWithinThreshold(t *testing.T) {
	c, _ := newContext(t)
	c.GotoTarget(camera.Create(10, 10, 60, 0, 0, 100), false, true)

	// 60/4000 = 0.015 degrees.
	target := camera.Create(10.01, 10, 60, 0, 0, 100)
	c.SetTargetCamera(target)
	c.Tick()
	if got := c.ViewCamera(); got != target {
		t.Errorf("view = %+v, want immediate snap to %+v", got, target)
	}
	if c.Moving() {
		t.Error("Moving() = true after snap")
	}
}

func TestTick_ZeroDampingSnaps(t *testing.T) {
	clk := clock.NewManual(epoch)
	cfg := DefaultConfig()
	cfg.Damping = 0
	c := New(cfg, nil, clk, nil)

	target := camera.Create(-40, 200, 10, 0, 0, 100)
	c.SetTargetCamera(target)
	c.Tick()
	if c.ViewCamera() != target {
		t.Errorf("view = %+v, want %+v", c.ViewCamera(), target)
	}
}

func TestFrustum_DirtyFlag(t *testing.T) {
	c, _ := newContext(t)
	c.Tick()
	before := c.Frustum()
	if before != c.Frustum() {
		t.Fatal("frustum changed without a matrix change")
	}

	c.SetProjection(mgl64.Perspective(0.1, 1, 0.1, 4))
	after := c.Frustum()
	if after == before {
		t.Error("frustum not recomputed after SetProjection")
	}
	if !c.PointInView(astro.GeoTo3D(0, 0, 1)) {
		t.Error("view center outside the narrowed frustum")
	}
	if c.PointInView(astro.GeoTo3D(0, 10, 1)) {
		t.Error("10 degrees off axis inside a 0.1 rad frustum")
	}
}

func TestSetViewport(t *testing.T) {
	c, _ := newContext(t)
	c.SetViewport(100, 50)
	f := c.Tick()
	if f.Width != 100 || f.Height != 50 {
		t.Errorf("frame size = %dx%d, want 100x50", f.Width, f.Height)
	}
	if x, y, ok := f.Project(astro.GeoTo3D(0, 0, 1)); !ok || !approx(x, 50, 1e-6) || !approx(y, 25, 1e-6) {
		t.Errorf("center projects to (%v, %v, %v)", x, y, ok)
	}
}

type recordingRenderer struct {
	frames []Frame
	err    error
}

func (r *recordingRenderer) Draw(f Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

func TestRender(t *testing.T) {
	c, _ := newContext(t)
	r := &recordingRenderer{}
	if err := c.Render(r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(r.frames) != 1 || r.frames[0].Camera != c.ViewCamera() {
		t.Errorf("renderer got %d frames", len(r.frames))
	}

	r.err = errors.New("backend gone")
	if err := c.Render(r); !errors.Is(err, r.err) {
		t.Errorf("Render() error = %v, want %v", err, r.err)
	}
}

func cosDeg(d float64) float64 {
	return math.Cos(d * math.Pi / 180)
}
