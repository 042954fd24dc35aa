// Package camera defines the camera parameter value type shared by the view
// movers and the render context, and the interpolation between two cameras.
package camera

import (
	"math"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/soniakeys/unit"
)

// FullSky is the zoom value that shows the whole sky.
const FullSky = 360.0

// Parameters describes a single view. It is a plain value: assigning or
// passing it copies every field, so holders never share mutable state.
type Parameters struct {
	Lat      float64 // Latitude or declination in degrees
	Lng      float64 // Longitude in degrees (RA-mode cameras store -RA*15)
	Zoom     float64 // Field-of-view proxy, meaningful on a log scale
	Rotation float64 // Radians
	Angle    float64 // Tilt in radians
	Opacity  float64 // 0-100

	RADecMode bool

	Target               SolarSystemObject
	TargetReferenceFrame string
	ViewTarget           astro.Vec3
}

// New returns a camera looking at nothing in particular, zoomed to the full
// sky.
func New() Parameters {
	return Parameters{
		Zoom:    FullSky,
		Opacity: 100,
		Target:  Undefined,
	}
}

// Create returns camera parameters for the given position. A zoom of zero
// or less means the full sky.
func Create(lat, lng, zoom, rotation, angle, opacity float64) Parameters {
	if zoom <= 0 {
		zoom = FullSky
	}
	return Parameters{
		Lat:      lat,
		Lng:      lng,
		Zoom:     zoom,
		Rotation: rotation,
		Angle:    angle,
		Opacity:  opacity,
		Target:   Undefined,
	}
}

// CreateRADec returns sky camera parameters centered on an equatorial
// position, with RA in hours and Dec in degrees.
func CreateRADec(raHours, decDeg, zoom float64) Parameters {
	p := Create(decDeg, 0, zoom, 0, 0, 100)
	p.SetRA(raHours)
	return p
}

// Copy returns p. It exists to make handoffs explicit at call sites.
func (p Parameters) Copy() Parameters {
	return p
}

// RA returns the right ascension in hours, in [0, 24).
func (p Parameters) RA() float64 {
	return astro.LngToRA(p.Lng)
}

// SetRA stores a right ascension in hours and marks the camera as RA/Dec.
func (p *Parameters) SetRA(raHours float64) {
	p.Lng = astro.RAToLng(raHours)
	p.RADecMode = true
}

// Dec returns the declination in degrees.
func (p Parameters) Dec() float64 {
	return p.Lat
}

// SetDec stores a declination in degrees and marks the camera as RA/Dec.
func (p *Parameters) SetDec(decDeg float64) {
	p.Lat = decDeg
	p.RADecMode = true
}

// Equals reports whether p and o describe the same view within the
// tolerances that separate camera float drift from real motion. Position
// tolerances tighten as the view zooms in.
func (p Parameters) Equals(o Parameters) bool {
	if math.Abs(o.Angle-p.Angle) > 0.01 || math.Abs(o.Lat-p.Lat) > o.Zoom/10000 {
		return false
	}
	if raDiff(o.RA(), p.RA()) > o.Zoom/1000 {
		return false
	}
	if math.Abs(o.Rotation-p.Rotation) > 0.1 {
		return false
	}
	return math.Abs(o.Zoom-p.Zoom) <= math.Abs(o.Zoom)/1000
}

// raDiff returns the separation of two right ascensions in hours, going the
// short way around.
func raDiff(a, b float64) float64 {
	d := unit.PMod(a-b, 24)
	if d > 12 {
		d = 24 - d
	}
	return d
}
