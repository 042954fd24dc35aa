// Package viewmover animates the camera between two views. A Mover is
// sampled once per frame; once it reports Complete it keeps returning the
// exact destination.
package viewmover

import (
	"math"
	"time"

	"github.com/litescript/ls-planetarium/internal/camera"
)

// Mover is an in-flight camera animation.
type Mover interface {
	// CurrentPosition returns the camera for the current wall-clock time.
	CurrentPosition() camera.Parameters
	// CurrentDateTime returns the simulated time the animation wants shown.
	CurrentDateTime() time.Time
	// Complete reports whether the destination has been reached.
	Complete() bool
	// MoveTime returns the total animation length in seconds.
	MoveTime() float64
	// SetMidpoint installs a callback fired at most once, synchronously,
	// from within CurrentPosition.
	SetMidpoint(fn func())
}

// SimClock is the simulated clock a slew keeps running while it moves.
type SimClock interface {
	UpdateClock()
	Now() time.Time
}

// Tuning holds the slew timing factors.
type Tuning struct {
	TravelTimeFactor float64 `yaml:"travel_time_factor"`
	UpTimeFactor     float64 `yaml:"up_time_factor"`
	DownTimeFactor   float64 `yaml:"down_time_factor"`
}

// DefaultTuning returns the standard slew timing.
func DefaultTuning() Tuning {
	return Tuning{
		TravelTimeFactor: 7,
		UpTimeFactor:     0.6,
		DownTimeFactor:   0.6,
	}
}

// Options controls how a mover interpolates.
type Options struct {
	// GreatCircle moves position along the great-circle arc. Used for
	// galactic-mode navigation in space.
	GreatCircle bool
	// FastDirectionMove lets an eased mover finish its positional motion
	// by the halfway mark.
	FastDirectionMove bool
	// Tuning overrides DefaultTuning for slews when non-zero.
	Tuning Tuning
}

func (o Options) tuning() Tuning {
	if o.Tuning == (Tuning{}) {
		return DefaultTuning()
	}
	return o.Tuning
}

func (o Options) interpolate(from, to camera.Parameters, alpha float64, ease camera.EaseType, fast bool) camera.Parameters {
	if o.GreatCircle {
		return camera.InterpolateGreatCircle(from, to, alpha, ease, fast)
	}
	return camera.Interpolate(from, to, alpha, ease, fast)
}

// unwrap moves from.Lng by whole turns so it lies within 180 degrees of
// to.Lng.
func unwrap(from, to camera.Parameters) camera.Parameters {
	if d := from.Lng - to.Lng; math.Abs(d) > 180 {
		from.Lng = to.Lng + math.Remainder(d, 360)
	}
	return from
}

// sanitizeZoom replaces a zoom of zero or less with the full sky.
func sanitizeZoom(p camera.Parameters) camera.Parameters {
	if p.Zoom <= 0 {
		p.Zoom = camera.FullSky
	}
	return p
}
