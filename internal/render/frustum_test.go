package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
)

func TestPlane_Normalize(t *testing.T) {
	p := Plane{A: 3, B: 0, C: 4, D: 10}.Normalize()
	if p != (Plane{A: 0.6, B: 0, C: 0.8, D: 2}) {
		t.Errorf("Normalize() = %+v", p)
	}
	if z := (Plane{}).Normalize(); z != (Plane{}) {
		t.Errorf("degenerate plane changed: %+v", z)
	}
}

func TestFrustumFromMatrix_Normalized(t *testing.T) {
	m := skyMatrices(camera.Create(20, 40, 60, 0.3, 0, 100), 4.0/3)
	f := FrustumFromMatrix(m.projection.Mul4(m.view).Mul4(m.world))
	for i, p := range f {
		n := math.Sqrt(p.A*p.A + p.B*p.B + p.C*p.C)
		if math.Abs(n-1) > 1e-12 {
			t.Errorf("plane %d normal length = %v, want 1", i, n)
		}
	}
}

func TestFrustum_SkyContainment(t *testing.T) {
	// Full-sky zoom gives a 60° vertical field at 4:3.
	m := skyMatrices(camera.Create(0, 0, 360, 0, 0, 100), 4.0/3)
	f := FrustumFromMatrix(m.projection.Mul4(m.view).Mul4(m.world))

	tests := []struct {
		name string
		v    astro.Vec3
		want bool
	}{
		{"center", astro.GeoTo3D(0, 0, 1), true},
		{"20 deg east", astro.GeoTo3D(0, 20, 1), true},
		{"25 deg north", astro.GeoTo3D(25, 0, 1), true},
		{"35 deg north", astro.GeoTo3D(35, 0, 1), false},
		{"45 deg east", astro.GeoTo3D(0, 45, 1), false},
		{"behind", astro.GeoTo3D(0, 180, 1), false},
		{"beyond far plane", astro.GeoTo3D(0, 0, 10), false},
		{"inside near plane", astro.GeoTo3D(0, 0, 0.01), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.v); got != tt.want {
				t.Errorf("ContainsPoint(%+v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestFrustum_IntersectsSphere(t *testing.T) {
	m := skyMatrices(camera.Create(0, 0, 360, 0, 0, 100), 1)
	f := FrustumFromMatrix(m.projection.Mul4(m.view).Mul4(m.world))

	outside := astro.GeoTo3D(0, 50, 1)
	if f.ContainsPoint(outside) {
		t.Fatal("point should be outside the view")
	}
	if f.IntersectsSphere(outside, 0.01) {
		t.Error("small sphere outside the view reported as visible")
	}
	if !f.IntersectsSphere(outside, 0.5) {
		t.Error("large sphere straddling the edge reported as hidden")
	}
}

func TestFrustum_Identity(t *testing.T) {
	f := FrustumFromMatrix(mgl64.Ident4())
	if !f.ContainsPoint(astro.Vec3{}) {
		t.Error("origin should be inside the unit clip cube")
	}
	if f.ContainsPoint(astro.Vec3{X: 1.5}) {
		t.Error("point outside the unit clip cube reported inside")
	}
}

func TestFrustumFromMatrix_PlaneOrder(t *testing.T) {
	f := FrustumFromMatrix(mgl64.Ident4())
	s := math.Sqrt(0.5)

	tests := []struct {
		name  string
		index int
		want  Plane
	}{
		{"left", PlaneLeft, Plane{A: s, D: s}},
		{"right", PlaneRight, Plane{A: -s, D: s}},
		{"top", PlaneTop, Plane{B: -s, D: s}},
		{"bottom", PlaneBottom, Plane{B: s, D: s}},
		{"near", PlaneNear, Plane{C: s, D: s}},
		{"far", PlaneFar, Plane{C: -s, D: s}},
	}

	for _, tt := range tests {
		got := f[tt.index]
		if math.Abs(got.A-tt.want.A) > 1e-12 || math.Abs(got.B-tt.want.B) > 1e-12 ||
			math.Abs(got.C-tt.want.C) > 1e-12 || math.Abs(got.D-tt.want.D) > 1e-12 {
			t.Errorf("%s plane = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
