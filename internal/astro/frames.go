package astro

import (
	"math"

	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
)

// Vec3 represents a 3D vector in any reference frame.
//
// Sky and planet positions use a Y-up convention: +Y points at the north
// pole, and longitude zero lies on +X with +Z at longitude 90°.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the cross product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// Lerp linearly interpolates between v and u.
func (v Vec3) Lerp(u Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (u.X-v.X)*t,
		Y: v.Y + (u.Y-v.Y)*t,
		Z: v.Z + (u.Z-v.Z)*t,
	}
}

// Slerp interpolates along the great-circle arc between the directions of a
// and b. The result is a unit vector. Zero vectors yield the zero vector.
func Slerp(a, b Vec3, t float64) Vec3 {
	a = a.Normalized()
	b = b.Normalized()
	if a == (Vec3{}) || b == (Vec3{}) {
		return Vec3{}
	}

	dot := clamp(a.Dot(b), -1, 1)
	switch {
	case dot > 1-5e-13:
		return a.Lerp(b, t).Normalized()
	case dot < -1+5e-13:
		// Antipodal endpoints: any great circle works, pick one through a
		// perpendicular axis.
		axis := a.Cross(Vec3{Y: 1})
		if axis.Norm() < 1e-6 {
			axis = a.Cross(Vec3{X: 1})
		}
		perp := axis.Normalized().Cross(a)
		theta := t * math.Pi
		return a.Scale(math.Cos(theta)).Add(perp.Scale(math.Sin(theta)))
	}

	theta := math.Acos(dot)
	s := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / s
	wb := math.Sin(t*theta) / s
	return a.Scale(wa).Add(b.Scale(wb))
}

// GeoTo3D converts a latitude/longitude in degrees to a point on a sphere
// of the given radius.
func GeoTo3D(latDeg, lngDeg, radius float64) Vec3 {
	lat := degToRad(latDeg)
	lng := degToRad(lngDeg)
	return Vec3{
		X: math.Cos(lng) * math.Cos(lat) * radius,
		Y: math.Sin(lat) * radius,
		Z: math.Sin(lng) * math.Cos(lat) * radius,
	}
}

// CartesianToLatLng is the inverse of GeoTo3D. Longitude is returned in
// (-180, 180]. The zero vector maps to (0, 0).
func CartesianToLatLng(v Vec3) (latDeg, lngDeg float64) {
	rho := v.Norm()
	if rho == 0 {
		return 0, 0
	}
	lng := math.Atan2(v.Z, v.X)
	lat := math.Asin(clamp(v.Y/rho, -1, 1))
	return radToDeg(lat), radToDeg(lng)
}

// RADecTo3D converts right ascension (hours) and declination (degrees) to a
// cartesian point at the given radius.
func RADecTo3D(raHours, decDeg, radius float64) Vec3 {
	return GeoTo3D(decDeg, raHours*15, radius)
}

// CartesianToRADec is the inverse of RADecTo3D. RA is returned in [0, 24).
func CartesianToRADec(v Vec3) (raHours, decDeg float64) {
	dec, lng := CartesianToLatLng(v)
	return unit.PMod(lng/15, 24), dec
}

// RAToLng converts right ascension in hours to the sky-sphere longitude used
// by RA/Dec cameras. The sky is seen from inside, so RA runs against
// longitude.
func RAToLng(raHours float64) float64 {
	return -raHours * 15
}

// LngToRA converts a sky-sphere longitude back to right ascension in [0, 24).
func LngToRA(lngDeg float64) float64 {
	return unit.PMod((360-lngDeg)/15, 24)
}

// SkyTo3D places an equatorial position on the inside of the unit sky
// sphere using the RA/Dec camera convention.
func SkyTo3D(raHours, decDeg float64) Vec3 {
	return GeoTo3D(decDeg, RAToLng(raHours), 1)
}

// MeanObliquityOfEcliptic returns the mean obliquity of the ecliptic in
// degrees for a Julian day, using Laskar's tenth-order polynomial.
func MeanObliquityOfEcliptic(jd float64) float64 {
	return nutation.MeanObliquityLaskar(jd).Deg()
}

// EquatorialToEcliptic rotates an equatorial vector into the ecliptic frame
// for the given obliquity in degrees. The vector uses the classic Z-north
// orientation (X to the equinox).
func EquatorialToEcliptic(eq Vec3, obliquityDeg float64) Vec3 {
	sinE, cosE := math.Sincos(degToRad(obliquityDeg))
	return Vec3{
		X: eq.X,
		Y: eq.Y*cosE + eq.Z*sinE,
		Z: -eq.Y*sinE + eq.Z*cosE,
	}
}

// EclipticToEquatorial converts ecliptic XYZ to equatorial XYZ.
func EclipticToEquatorial(ecl Vec3, obliquityDeg float64) Vec3 {
	sinE, cosE := math.Sincos(degToRad(obliquityDeg))
	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// galacticRotation maps J2000 equatorial unit vectors (X to the equinox,
// Z north) onto galactic ones.
var galacticRotation = mat.NewDense(3, 3, []float64{
	-0.0548755604, -0.8734370902, -0.4838350155,
	0.4941094279, -0.4448296300, 0.7469822445,
	-0.8676661490, -0.1980763734, 0.4559837762,
})

// J2000ToGalactic converts J2000 right ascension and declination (degrees)
// to galactic longitude and latitude (degrees). Longitude is in [0, 360).
func J2000ToGalactic(raDeg, decDeg float64) (lDeg, bDeg float64) {
	return rotateSpherical(galacticRotation, raDeg, decDeg)
}

// GalacticToJ2000 converts galactic longitude and latitude (degrees) back to
// J2000 right ascension and declination (degrees). RA is in [0, 360).
func GalacticToJ2000(lDeg, bDeg float64) (raDeg, decDeg float64) {
	return rotateSpherical(galacticRotation.T(), lDeg, bDeg)
}

func rotateSpherical(m mat.Matrix, lonDeg, latDeg float64) (float64, float64) {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	in := mat.NewVecDense(3, []float64{
		math.Cos(lon) * math.Cos(lat),
		math.Sin(lon) * math.Cos(lat),
		math.Sin(lat),
	})

	var out mat.VecDense
	out.MulVec(m, in)

	x, y, z := out.AtVec(0), out.AtVec(1), out.AtVec(2)
	l := math.Atan2(y, x)
	b := math.Atan2(z, math.Hypot(x, y))
	return unit.PMod(radToDeg(l), 360), radToDeg(b)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
