package camera

import "fmt"

// SolarSystemObject identifies the body a camera is centered on.
type SolarSystemObject int

const (
	Sun SolarSystemObject = iota
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Moon
	Io
	Europa
	Ganymede
	Callisto
	IoShadow
	EuropaShadow
	GanymedeShadow
	CallistoShadow
	SunEclipsed
	Earth
	Custom

	// Undefined means the camera is not tied to any body.
	Undefined SolarSystemObject = 65536
)

var objectNames = [...]string{
	"Sun", "Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus",
	"Neptune", "Pluto", "Moon", "Io", "Europa", "Ganymede", "Callisto",
	"IoShadow", "EuropaShadow", "GanymedeShadow", "CallistoShadow",
	"SunEclipsed", "Earth", "Custom",
}

func (o SolarSystemObject) String() string {
	if o >= 0 && int(o) < len(objectNames) {
		return objectNames[o]
	}
	if o == Undefined {
		return "Undefined"
	}
	return fmt.Sprintf("SolarSystemObject(%d)", int(o))
}

// ParseSolarSystemObject returns the object with the given name, or
// Undefined.
func ParseSolarSystemObject(name string) SolarSystemObject {
	for i, n := range objectNames {
		if n == name {
			return SolarSystemObject(i)
		}
	}
	return Undefined
}
