package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
)

// fovMult converts zoom into a vertical field of view in radians.
const fovMult = 343.774

type matrices struct {
	world, view, projection mgl64.Mat4
	nominalRadius           float64
}

func toMgl(v astro.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// fovRadians returns the vertical field of view for a zoom, kept inside
// what a perspective projection can represent.
func fovRadians(zoom float64) float64 {
	return math.Min(math.Max(zoom/fovMult, 1e-12), math.Pi*0.99)
}

// surfaceFrame returns the outward normal at lat/lng together with the
// north and east tangents there.
func surfaceFrame(lat, lng float64) (normal, north, east mgl64.Vec3) {
	normal = toMgl(astro.GeoTo3D(lat, lng, 1))
	north = toMgl(astro.GeoTo3D(lat+90, lng, 1))
	east = normal.Cross(north)
	return normal, north, east
}

func rotateAbout(v, axis mgl64.Vec3, angle float64) mgl64.Vec3 {
	if angle == 0 {
		return v
	}
	return mgl64.HomogRotate3D(angle, axis).Mul4x1(v.Vec4(0)).Vec3()
}

func aspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// skyMatrices looks out from the origin toward the camera's lat/lng on the
// unit sky sphere, north up, turned by Rotation.
func skyMatrices(cam camera.Parameters, aspect float64) matrices {
	dir, north, _ := surfaceFrame(cam.Lat, cam.Lng)
	up := rotateAbout(north, dir, cam.Rotation)
	return matrices{
		world:         mgl64.Ident4(),
		view:          mgl64.LookAtV(mgl64.Vec3{}, dir, up),
		projection:    mgl64.Perspective(fovRadians(cam.Zoom), aspect, 0.1, 4),
		nominalRadius: 1,
	}
}

// orbit places an eye distance away from target above the direction
// lat/lng, tilted toward the horizon by tilt radians.
func orbit(target mgl64.Vec3, cam camera.Parameters, distance, tilt float64) (eye, up mgl64.Vec3) {
	normal, north, _ := surfaceFrame(cam.Lat, cam.Lng)
	heading := rotateAbout(north, normal, cam.Rotation)
	sinT, cosT := math.Sincos(tilt)
	offset := normal.Mul(cosT).Sub(heading.Mul(sinT))
	eye = target.Add(offset.Mul(distance))
	up = heading.Mul(cosT).Add(normal.Mul(sinT))
	return eye, up
}

func clampTilt(angle, maxTilt float64) float64 {
	return math.Min(math.Max(-angle, 0), maxTilt)
}

// planetMatrices orbits the surface point under the camera of a unit
// planet sphere.
func planetMatrices(cam camera.Parameters, aspect float64, cfg Config) matrices {
	distance := 4*cam.Zoom/180 + 1e-6
	target := toMgl(astro.GeoTo3D(cam.Lat, cam.Lng, 1))
	eye, up := orbit(target, cam, distance, clampTilt(cam.Angle, cfg.MaxTilt))
	return matrices{
		world:         mgl64.Ident4(),
		view:          mgl64.LookAtV(eye, target, up),
		projection:    mgl64.Perspective(math.Pi/4, aspect, distance*0.1, distance+2),
		nominalRadius: 1,
	}
}

// solarSystemMatrices orbits the camera's ViewTarget. Tilt fades out once
// the zoom passes TiltFadeStart so distant views look straight down.
func solarSystemMatrices(cam camera.Parameters, aspect float64, cfg Config) matrices {
	scale := cfg.SolarSystemScale
	if scale <= 0 {
		scale = 1
	}
	distance := cam.Zoom / 180 * scale
	tilt := clampTilt(cam.Angle, cfg.MaxTilt)
	if cfg.TiltFadeStart > 0 && cam.Zoom > cfg.TiltFadeStart {
		fade := 1 - math.Log10(cam.Zoom/cfg.TiltFadeStart)/3
		tilt *= math.Min(math.Max(fade, 0), 1)
	}

	target := toMgl(cam.ViewTarget.Scale(scale))
	eye, up := orbit(target, cam, distance, tilt)
	return matrices{
		world:         mgl64.Scale3D(scale, scale, scale),
		view:          mgl64.LookAtV(eye, target, up),
		projection:    mgl64.Perspective(math.Pi/4, aspect, distance*0.01, distance*1000),
		nominalRadius: scale,
	}
}
