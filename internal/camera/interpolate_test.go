package camera

import (
	"math"
	"testing"

	"github.com/litescript/ls-planetarium/internal/astro"
)

type interpolator func(from, to Parameters, alpha float64, ease EaseType, fast bool) Parameters

var interpolators = map[string]interpolator{
	"Interpolate":            Interpolate,
	"InterpolateGreatCircle": InterpolateGreatCircle,
}

func assertSameView(t *testing.T, got, want Parameters) {
	t.Helper()
	fields := []struct {
		name      string
		got, want float64
	}{
		{"Lat", got.Lat, want.Lat},
		{"Lng", got.Lng, want.Lng},
		{"Zoom", got.Zoom, want.Zoom},
		{"Rotation", got.Rotation, want.Rotation},
		{"Angle", got.Angle, want.Angle},
		{"Opacity", got.Opacity, want.Opacity},
	}
	for _, f := range fields {
		if math.Abs(f.got-f.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
		}
	}
	if got.ViewTarget.Sub(want.ViewTarget).Norm() > 1e-9 {
		t.Errorf("ViewTarget = %v, want %v", got.ViewTarget, want.ViewTarget)
	}
}

func TestInterpolate_Endpoints(t *testing.T) {
	a := Create(10, 20, 60, 0.2, -0.3, 100)
	a.ViewTarget = astro.Vec3{X: 1, Y: 2, Z: 3}
	b := Create(-35, 80, 0.5, 1.1, 0.4, 40)
	b.ViewTarget = astro.Vec3{X: -4, Y: 0.5, Z: 7}

	for name, fn := range interpolators {
		for _, e := range allEases {
			for _, fast := range []bool{false, true} {
				t.Run(name+"/"+e.String(), func(t *testing.T) {
					assertSameView(t, fn(a, b, 0, e, fast), a)
					assertSameView(t, fn(a, b, 1, e, fast), b)
				})
			}
		}
	}
}

func TestInterpolate_ZoomIsGeometricMean(t *testing.T) {
	tests := []struct {
		from, to float64
	}{
		{360, 1},
		{0.01, 100},
		{45, 45},
		{1e-4, 1e14},
	}

	for _, tt := range tests {
		a := Create(0, 0, tt.from, 0, 0, 100)
		b := Create(0, 0, tt.to, 0, 0, 100)
		got := Interpolate(a, b, 0.5, Linear, false).Zoom
		want := math.Sqrt(tt.from * tt.to)
		if math.Abs(got-want) > want*1e-9 {
			t.Errorf("zoom %v→%v at 0.5 = %v, want %v", tt.from, tt.to, got, want)
		}
	}
}

func TestInterpolate_FastDirectionMove(t *testing.T) {
	a := Create(0, 0, 360, 0, 0, 100)
	b := Create(40, 80, 1, 0, 0, 100)

	p := Interpolate(a, b, 0.5, Linear, true)
	if p.Lat != 40 || p.Lng != 80 {
		t.Errorf("position at 0.5 = (%v, %v), want arrival at (40, 80)", p.Lat, p.Lng)
	}
	if math.Abs(p.Zoom-math.Sqrt(360)) > 1e-9 {
		t.Errorf("zoom at 0.5 = %v, want still moving (%v)", p.Zoom, math.Sqrt(360))
	}

	slow := Interpolate(a, b, 0.5, Linear, false)
	if slow.Lat != 20 || slow.Lng != 40 {
		t.Errorf("position without fast move = (%v, %v), want (20, 40)", slow.Lat, slow.Lng)
	}
}

func TestInterpolate_ZeroZoom(t *testing.T) {
	a := Parameters{Zoom: 0}
	b := Parameters{Zoom: 10}
	got := Interpolate(a, b, 0.5, Linear, false).Zoom
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("zoom = %v, want finite", got)
	}
}

func TestInterpolate_Target(t *testing.T) {
	tests := []struct {
		name     string
		from, to SolarSystemObject
		want     SolarSystemObject
	}{
		{"same body preserved", Mars, Mars, Mars},
		{"different bodies", Mars, Jupiter, Custom},
		{"undefined to body", Undefined, Moon, Custom},
		{"both undefined", Undefined, Undefined, Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			a.Target = tt.from
			b := New()
			b.Target = tt.to
			b.TargetReferenceFrame = "Sun"
			for name, fn := range interpolators {
				got := fn(a, b, 0.3, EaseInOut, false)
				if got.Target != tt.want {
					t.Errorf("%s: Target = %v, want %v", name, got.Target, tt.want)
				}
				if got.TargetReferenceFrame != "Sun" {
					t.Errorf("%s: TargetReferenceFrame = %q, want %q", name, got.TargetReferenceFrame, "Sun")
				}
			}
		})
	}
}

func TestInterpolateGreatCircle_StaysOnArc(t *testing.T) {
	a := Create(60, 0, 10, 0, 0, 100)
	b := Create(60, 180, 10, 0, 0, 100)

	// The great circle between two points at lat 60 on opposite meridians
	// passes over the pole.
	mid := InterpolateGreatCircle(a, b, 0.5, Linear, false)
	if math.Abs(mid.Lat-90) > 1e-6 {
		t.Errorf("midpoint lat = %v, want 90", mid.Lat)
	}

	// Straight lat/lng interpolation stays on the parallel instead.
	flat := Interpolate(a, b, 0.5, Linear, false)
	if flat.Lat != 60 {
		t.Errorf("flat midpoint lat = %v, want 60", flat.Lat)
	}

	// Every sample is on the arc: equidistant angular steps.
	prev := astro.GeoTo3D(a.Lat, a.Lng, 1)
	for i := 1; i <= 10; i++ {
		p := InterpolateGreatCircle(a, b, float64(i)/10, Linear, false)
		v := astro.GeoTo3D(p.Lat, p.Lng, 1)
		step := math.Acos(math.Min(1, prev.Dot(v)))
		if math.Abs(step-math.Pi/3/10) > 1e-6 {
			t.Errorf("step %d = %v rad, want %v", i, step, math.Pi/30)
		}
		prev = v
	}
}
