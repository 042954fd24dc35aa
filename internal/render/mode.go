package render

import (
	"fmt"
	"strings"
)

// Mode selects how the camera is turned into matrices.
type Mode int

const (
	// SkyProjected looks out from the centre of the sky sphere.
	SkyProjected Mode = iota
	// PlanetSurface3D orbits a unit planet sphere.
	PlanetSurface3D
	// SolarSystem3D orbits a point in the solar system at astronomical scale.
	SolarSystem3D
)

func (m Mode) String() string {
	switch m {
	case SkyProjected:
		return "sky"
	case PlanetSurface3D:
		return "planet"
	case SolarSystem3D:
		return "solarsystem"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// BackgroundType is the kind of imagery being viewed. It decides the mode.
type BackgroundType int

const (
	BackgroundEarth BackgroundType = iota
	BackgroundPlanet
	BackgroundSky
	BackgroundPanorama
	BackgroundSolarSystem
	BackgroundSandbox
)

var backgroundNames = map[BackgroundType]string{
	BackgroundEarth:       "earth",
	BackgroundPlanet:      "planet",
	BackgroundSky:         "sky",
	BackgroundPanorama:    "panorama",
	BackgroundSolarSystem: "solarsystem",
	BackgroundSandbox:     "sandbox",
}

func (b BackgroundType) String() string {
	if name, ok := backgroundNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BackgroundType(%d)", int(b))
}

// ParseBackgroundType reads a background name such as "sky" or "earth".
func ParseBackgroundType(s string) (BackgroundType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range backgroundNames {
		if name == s {
			return b, nil
		}
	}
	return BackgroundSky, fmt.Errorf("unknown background type %q", s)
}

// Mode returns the render mode used for this background.
func (b BackgroundType) Mode() Mode {
	switch b {
	case BackgroundEarth, BackgroundPlanet:
		return PlanetSurface3D
	case BackgroundSolarSystem, BackgroundSandbox:
		return SolarSystem3D
	default:
		return SkyProjected
	}
}
