package render

import "github.com/litescript/ls-planetarium/internal/viewmover"

// ZoomBounds limits the camera zoom in one mode.
type ZoomBounds struct {
	Min float64
	Max float64
}

// Clamp returns z limited to the bounds.
func (b ZoomBounds) Clamp(z float64) float64 {
	if z < b.Min {
		return b.Min
	}
	if z > b.Max {
		return b.Max
	}
	return z
}

// Config holds render context tunables.
type Config struct {
	Sky         ZoomBounds
	Planet      ZoomBounds
	SolarSystem ZoomBounds

	// Damping is the share of the remaining view-to-target distance kept
	// each frame when no mover is active. 0 snaps immediately.
	Damping float64

	DefaultSkyZoom    float64
	DefaultPlanetZoom float64

	// SolarSystemScale converts solar-system zoom units into world units.
	SolarSystemScale float64
	// TiltFadeStart is the solar-system zoom above which tilt fades out.
	TiltFadeStart float64
	// MaxTilt is the largest camera tilt in radians.
	MaxTilt float64

	// GalacticMode moves sky slews along great circles.
	GalacticMode bool
	Slew         viewmover.Tuning

	Width  int
	Height int
}

// DefaultConfig returns the standard bounds and tuning.
func DefaultConfig() Config {
	return Config{
		Sky:               ZoomBounds{Min: 0.001373291015625, Max: 360},
		Planet:            ZoomBounds{Min: 0.001373291015625, Max: 360},
		SolarSystem:       ZoomBounds{Min: 1.373291015625e-8, Max: 1e17},
		Damping:           0.8,
		DefaultSkyZoom:    60,
		DefaultPlanetZoom: 360,
		SolarSystemScale:  1,
		TiltFadeStart:     1e14,
		MaxTilt:           1.52,
		Slew:              viewmover.DefaultTuning(),
		Width:             800,
		Height:            600,
	}
}

func (c Config) bounds(m Mode) ZoomBounds {
	switch m {
	case PlanetSurface3D:
		return c.Planet
	case SolarSystem3D:
		return c.SolarSystem
	default:
		return c.Sky
	}
}

func (c Config) defaultZoom(m Mode) float64 {
	if m == SkyProjected {
		return c.DefaultSkyZoom
	}
	return c.DefaultPlanetZoom
}
