// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (J2000)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)
}

// RAHours returns the right ascension in hours.
func (c SkyCoord) RAHours() float64 {
	return c.RAdeg / 15
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	AltM   float64 // Altitude above sea level in meters
	Name   string  // Optional name for the site
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)

	// Hour Angle = LST - RA
	ha := degToRad(localSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	// Hour-angle frame: x toward the meridian on the equator, y east, z pole.
	x := math.Cos(dec) * math.Cos(ha)
	y := -math.Cos(dec) * math.Sin(ha)
	z := math.Sin(dec)

	// Rotate about the east axis by the colatitude into north/east/up.
	north := -x*math.Sin(lat) + z*math.Cos(lat)
	east := y
	up := x*math.Cos(lat) + z*math.Sin(lat)

	alt := math.Atan2(up, math.Hypot(north, east))
	az := math.Atan2(east, north)

	return SkyCoord{
		RAdeg:  eq.RAdeg,
		DecDeg: eq.DecDeg,
		AzDeg:  unit.PMod(radToDeg(az), 360),
		ElDeg:  radToDeg(alt),
	}
}

// HorizontalToEquatorial is the inverse of EquatorialToHorizontal: it fills in
// RA/Dec from the Az/El of eq and preserves Az/El.
func HorizontalToEquatorial(hz SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	alt := degToRad(hz.ElDeg)
	az := degToRad(hz.AzDeg)

	north := math.Cos(alt) * math.Cos(az)
	east := math.Cos(alt) * math.Sin(az)
	up := math.Sin(alt)

	x := -north*math.Sin(lat) + up*math.Cos(lat)
	y := east
	z := north*math.Cos(lat) + up*math.Sin(lat)

	dec := math.Atan2(z, math.Hypot(x, y))
	ha := math.Atan2(-y, x)

	ra := localSiderealTime(t, obs.LonDeg) - radToDeg(ha)

	return SkyCoord{
		RAdeg:  unit.PMod(ra, 360),
		DecDeg: radToDeg(dec),
		AzDeg:  hz.AzDeg,
		ElDeg:  hz.ElDeg,
	}
}

// localSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return unit.PMod(greenwichMeanSiderealTime(t)+lonDeg, 360)
}

// greenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
func greenwichMeanSiderealTime(t time.Time) float64 {
	gmst := sidereal.Mean(JulianDate(t))
	return unit.PMod(radToDeg(gmst.Rad()), 360)
}

// JulianDate calculates the Julian Date for a given time using the
// Gregorian calendar algorithm from Meeus, chapter 7.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	// Time of day as fraction
	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Adjust for January/February (treat as months 13/14 of previous year)
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
