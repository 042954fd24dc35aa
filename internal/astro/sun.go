package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// SunPosition returns the apparent equatorial coordinates of the Sun in
// degrees, RA in [0, 360).
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	ra, dec := solar.ApparentEquatorial(JulianDate(t))
	return unit.PMod(radToDeg(ra.Rad()), 360), dec.Deg()
}

// AngularSeparation returns the great-circle distance in degrees between two
// points given as (lng, lat) pairs in degrees. It works for RA/Dec as well as
// for planet-surface coordinates.
func AngularSeparation(lng1, lat1, lng2, lat2 float64) float64 {
	dLng := degToRad(lng2 - lng1)
	dLat := degToRad(lat2 - lat1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return radToDeg(2 * math.Asin(math.Sqrt(clamp(a, 0, 1))))
}
