package camera

import (
	"math"

	"github.com/litescript/ls-planetarium/internal/astro"
)

// minZoom keeps log-space zoom interpolation away from log(0).
const minZoom = 1e-12

// Interpolate blends from toward to. Angle, rotation and opacity follow the
// eased alpha; zoom is interpolated in log2 space so that the change feels
// linear in perceived scale. With fastDirectionMove set, position runs on a
// doubled alpha and arrives by the halfway mark while zoom keeps moving.
func Interpolate(from, to Parameters, alphaIn float64, ease EaseType, fastDirectionMove bool) Parameters {
	alpha := EaseCurve(alphaIn, ease)
	alphaB := EaseCurve(math.Min(1, alphaIn*2), ease)

	posAlpha := alpha
	if fastDirectionMove {
		posAlpha = alphaB
	}

	p := blend(from, to, alpha)
	p.Lat = lerp(from.Lat, to.Lat, posAlpha)
	p.Lng = lerp(from.Lng, to.Lng, posAlpha)
	return p
}

// InterpolateGreatCircle is Interpolate with the position moved along the
// great-circle arc between the two cameras instead of straight through
// lat/lng space.
func InterpolateGreatCircle(from, to Parameters, alphaIn float64, ease EaseType, fastDirectionMove bool) Parameters {
	alpha := EaseCurve(alphaIn, ease)
	alphaB := EaseCurve(math.Min(1, alphaIn*2), ease)

	posAlpha := alpha
	if fastDirectionMove {
		posAlpha = alphaB
	}

	p := blend(from, to, alpha)
	switch posAlpha {
	case 0:
		p.Lat, p.Lng = from.Lat, from.Lng
	case 1:
		p.Lat, p.Lng = to.Lat, to.Lng
	default:
		left := astro.GeoTo3D(from.Lat, from.Lng, 1)
		right := astro.GeoTo3D(to.Lat, to.Lng, 1)
		p.Lat, p.Lng = astro.CartesianToLatLng(astro.Slerp(left, right, posAlpha))
	}
	return p
}

// blend fills in every field except the position.
func blend(from, to Parameters, alpha float64) Parameters {
	p := Parameters{
		Angle:                lerp(from.Angle, to.Angle, alpha),
		Rotation:             lerp(from.Rotation, to.Rotation, alpha),
		Opacity:              lerp(from.Opacity, to.Opacity, alpha),
		Zoom:                 lerpZoom(from.Zoom, to.Zoom, alpha),
		RADecMode:            to.RADecMode,
		TargetReferenceFrame: to.TargetReferenceFrame,
		ViewTarget:           from.ViewTarget.Lerp(to.ViewTarget, alpha),
		Target:               Custom,
	}
	if from.Target == to.Target {
		p.Target = to.Target
	}
	if alpha == 1 {
		p.Zoom = to.Zoom
		p.ViewTarget = to.ViewTarget
	}
	return p
}

func lerpZoom(from, to, alpha float64) float64 {
	switch {
	case alpha == 0 || from == to:
		return from
	case alpha == 1:
		return to
	}
	a := math.Log2(math.Max(from, minZoom))
	b := math.Log2(math.Max(to, minZoom))
	return math.Pow(2, lerp(a, b, alpha))
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
