package render

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
)

// Frame is everything a drawing backend needs for one frame.
type Frame struct {
	Now       time.Time
	JulianDay float64
	// Obliquity of the ecliptic at JulianDay, in degrees.
	Obliquity float64

	Mode     Mode
	Space    bool
	Galactic bool
	Moving   bool

	Camera camera.Parameters

	World, View, Projection mgl64.Mat4
	// WorldViewProjection is Projection * View * World.
	WorldViewProjection mgl64.Mat4
	Frustum             Frustum

	// FovAngle is the vertical field of view in degrees and FovScale the
	// arcseconds covered by one pixel.
	FovAngle      float64
	FovScale      float64
	NominalRadius float64

	Width, Height int
}

// Renderer draws frames. Implementations own all output.
type Renderer interface {
	Draw(f Frame) error
}

// Project maps a world-space point to pixel coordinates, origin top-left.
// ok is false for points outside the view.
func (f Frame) Project(v astro.Vec3) (x, y float64, ok bool) {
	clip := f.WorldViewProjection.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1})
	w := clip.W()
	if w <= 0 {
		return 0, 0, false
	}
	nx, ny, nz := clip.X()/w, clip.Y()/w, clip.Z()/w
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 || nz < -1 || nz > 1 {
		return 0, 0, false
	}
	x = (nx + 1) / 2 * float64(f.Width)
	y = (1 - ny) / 2 * float64(f.Height)
	return x, y, true
}
