package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/litescript/ls-planetarium/internal/astro"
)

// Plane is a*x + b*y + c*z + d = 0, with (a, b, c) pointing inside the
// frustum.
type Plane struct {
	A, B, C, D float64
}

// Normalize scales the plane so its normal has unit length. A degenerate
// plane is returned unchanged.
func (p Plane) Normalize() Plane {
	n := math.Sqrt(p.A*p.A + p.B*p.B + p.C*p.C)
	if n == 0 {
		return p
	}
	return Plane{A: p.A / n, B: p.B / n, C: p.C / n, D: p.D / n}
}

// Distance returns the signed distance of v from a normalized plane.
// Positive is inside.
func (p Plane) Distance(v astro.Vec3) float64 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D
}

// Frustum planes in the order left, right, top, bottom, near, far.
type Frustum [6]Plane

const (
	PlaneLeft = iota
	PlaneRight
	PlaneTop
	PlaneBottom
	PlaneNear
	PlaneFar
)

// FrustumFromMatrix extracts the clipping planes of a combined
// world-view-projection matrix.
func FrustumFromMatrix(m mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	rows := [6]mgl64.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Sub(r1),
		r3.Add(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}

	var f Frustum
	for i, r := range rows {
		f[i] = Plane{A: r[0], B: r[1], C: r[2], D: r[3]}.Normalize()
	}
	return f
}

// ContainsPoint reports whether v is inside every plane.
func (f Frustum) ContainsPoint(v astro.Vec3) bool {
	for _, p := range f {
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere is at least partly inside.
func (f Frustum) IntersectsSphere(center astro.Vec3, radius float64) bool {
	for _, p := range f {
		if p.Distance(center) < -radius {
			return false
		}
	}
	return true
}
