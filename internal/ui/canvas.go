package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/blend"
	"github.com/litescript/ls-planetarium/internal/render"
)

const (
	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '·' // mag 3.0-4.0
	glyphStarVeryDim = '·' // mag > 4.0

	// Star colors
	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorStarVeryDim = "240"

	glyphSun   = '☼'
	glyphEarth = '⊕'
	colorSun   = "220"
	colorEarth = "39"

	colorBackground = "236"
	colorGrid       = "240"
	colorGridFaint  = "237"
	colorHorizon    = "60"
	colorCardinal   = "252"
	colorLabel      = "#d0c8ff"
	colorGlobe      = "66"
	colorOrbit      = "60"

	// labelMaxMag is the faintest star that gets a name label.
	labelMaxMag = 1.5
)

// Canvas draws render frames into a grid of terminal cells. One cell is
// one pixel wide and two pixels tall, so the render viewport should be
// cols x rows*2 for square pixels.
type Canvas struct {
	cols, rows int
	cells      [][]rune
	colors     [][]lipgloss.Color

	stars    []astro.Star
	observer astro.Observer
	grid     *blend.State
	labels   *blend.State
	horizon  bool

	drawn int
}

// NewCanvas creates a canvas for the given stars. grid and labels fade
// the coordinate grid and star names in and out; nil hides them.
func NewCanvas(stars []astro.Star, grid, labels *blend.State) *Canvas {
	return &Canvas{
		stars:   stars,
		grid:    grid,
		labels:  labels,
		horizon: true,
	}
}

// Resize sets the canvas size in cells.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.cells = make([][]rune, c.rows)
	c.colors = make([][]lipgloss.Color, c.rows)
	for y := range c.cells {
		c.cells[y] = make([]rune, c.cols)
		c.colors[y] = make([]lipgloss.Color, c.cols)
	}
	c.clear()
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// SetObserver sets the ground location for the horizon overlay.
func (c *Canvas) SetObserver(obs astro.Observer) { c.observer = obs }

// SetHorizon toggles the horizon overlay.
func (c *Canvas) SetHorizon(on bool) { c.horizon = on }

// Horizon reports whether the horizon overlay is shown.
func (c *Canvas) Horizon() bool { return c.horizon }

// Drawn returns how many catalog objects the last frame plotted.
func (c *Canvas) Drawn() int { return c.drawn }

// Draw implements render.Renderer.
func (c *Canvas) Draw(f render.Frame) error {
	c.clear()
	c.drawn = 0

	switch f.Mode {
	case render.PlanetSurface3D:
		c.drawGlobe(f)
	case render.SolarSystem3D:
		c.drawSolarSystem(f)
	default:
		c.drawGrid(f)
		if c.horizon {
			c.drawHorizon(f)
		}
		c.drawStars(f)
		c.drawSun(f)
	}
	return nil
}

func (c *Canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
			c.colors[y][x] = colorBackground
		}
	}
}

// plot projects a world point and writes a glyph. It reports whether the
// point landed on the canvas.
func (c *Canvas) plot(f render.Frame, v astro.Vec3, r rune, color lipgloss.Color) (x, y int, ok bool) {
	if !f.Frustum.ContainsPoint(v) {
		return 0, 0, false
	}
	px, py, ok := f.Project(v)
	if !ok {
		return 0, 0, false
	}
	x, y = int(px), int(py/2)
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return 0, 0, false
	}
	c.cells[y][x] = r
	c.colors[y][x] = color
	return x, y, true
}

func (c *Canvas) text(x, y int, s string, color lipgloss.Color) {
	if y < 0 || y >= c.rows {
		return
	}
	for i, r := range []rune(s) {
		if xi := x + i; xi >= 0 && xi < c.cols {
			c.cells[y][xi] = r
			c.colors[y][xi] = color
		}
	}
}

func opacity(b *blend.State) float64 {
	if b == nil {
		return 0
	}
	return b.Opacity()
}

// drawGrid draws an equatorial graticule, or a galactic one in galactic
// mode.
func (c *Canvas) drawGrid(f render.Frame) {
	alpha := opacity(c.grid)
	if alpha < 1.0/3 {
		return
	}
	color := lipgloss.Color(colorGrid)
	if alpha < 2.0/3 {
		color = colorGridFaint
	}

	point := func(lon, lat float64) astro.Vec3 {
		if f.Galactic {
			ra, dec := astro.GalacticToJ2000(lon, lat)
			return astro.SkyTo3D(ra/15, dec)
		}
		return astro.SkyTo3D(lon/15, lat)
	}
	for lat := -60.0; lat <= 60; lat += 30 {
		for lon := 0.0; lon < 360; lon += 2 {
			c.plot(f, point(lon, lat), '·', color)
		}
	}
	for lon := 0.0; lon < 360; lon += 30 {
		for lat := -80.0; lat <= 80; lat += 2 {
			c.plot(f, point(lon, lat), '·', color)
		}
	}
}

// drawHorizon traces the observer's horizon with cardinal points.
func (c *Canvas) drawHorizon(f render.Frame) {
	onSky := func(az float64) astro.Vec3 {
		eq := astro.HorizontalToEquatorial(astro.SkyCoord{AzDeg: az}, c.observer, f.Now)
		return astro.SkyTo3D(eq.RAHours(), eq.DecDeg)
	}
	for az := 0.0; az < 360; az++ {
		c.plot(f, onSky(az), '─', colorHorizon)
	}
	for _, cp := range []struct {
		label rune
		az    float64
	}{{'N', 0}, {'E', 90}, {'S', 180}, {'W', 270}} {
		c.plot(f, onSky(cp.az), cp.label, colorCardinal)
	}
}

func (c *Canvas) drawStars(f render.Frame) {
	showLabels := opacity(c.labels) >= 0.5
	for _, star := range c.stars {
		glyph, color := starGlyph(star.Mag)
		x, y, ok := c.plot(f, astro.SkyTo3D(star.RAHours(), star.DecDeg), glyph, color)
		if !ok {
			continue
		}
		c.drawn++
		if showLabels && star.Mag < labelMaxMag {
			c.text(x+2, y, star.Name, colorLabel)
		}
	}
}

func (c *Canvas) drawSun(f render.Frame) {
	ra, dec := astro.SunPosition(f.Now)
	if _, _, ok := c.plot(f, astro.SkyTo3D(ra/15, dec), glyphSun, colorSun); ok {
		c.drawn++
	}
}

// drawGlobe draws a latitude/longitude graticule on the visible side of a
// unit planet.
func (c *Canvas) drawGlobe(f render.Frame) {
	eye := cameraPosition(f)
	visible := func(p astro.Vec3) bool {
		return p.Dot(eye.Sub(p)) > 0
	}
	for lat := -75.0; lat <= 75; lat += 15 {
		for lng := 0.0; lng < 360; lng += 2 {
			if p := astro.GeoTo3D(lat, lng, 1); visible(p) {
				c.plot(f, p, '·', colorGlobe)
			}
		}
	}
	for lng := 0.0; lng < 360; lng += 15 {
		for lat := -88.0; lat <= 88; lat += 2 {
			if p := astro.GeoTo3D(lat, lng, 1); visible(p) {
				c.plot(f, p, '·', colorGlobe)
			}
		}
	}
}

// drawSolarSystem draws the Sun, the Earth's orbit and the Earth. The
// ecliptic is the XZ plane.
func (c *Canvas) drawSolarSystem(f render.Frame) {
	for lng := 0.0; lng < 360; lng += 2 {
		c.plot(f, astro.GeoTo3D(0, lng, 1), '·', colorOrbit)
	}
	if x, y, ok := c.plot(f, astro.Vec3{}, glyphSun, colorSun); ok {
		c.drawn++
		c.text(x+2, y, "Sun", colorLabel)
	}
	earth := astro.GeoTo3D(0, earthLongitude(f), 1)
	if x, y, ok := c.plot(f, earth, glyphEarth, colorEarth); ok {
		c.drawn++
		c.text(x+2, y, "Earth", colorLabel)
	}
}

// earthLongitude returns the Earth's heliocentric ecliptic longitude in
// degrees: the Sun's geocentric longitude turned half a circle.
func earthLongitude(f render.Frame) float64 {
	ra, dec := astro.SunPosition(f.Now)
	v := astro.RADecTo3D(ra/15, dec, 1)
	// RADecTo3D is Y-north; the ecliptic rotation wants Z-north.
	ecl := astro.EquatorialToEcliptic(astro.Vec3{X: v.X, Y: v.Z, Z: v.Y}, f.Obliquity)
	return math.Atan2(ecl.Y, ecl.X)*180/math.Pi + 180
}

func cameraPosition(f render.Frame) astro.Vec3 {
	eye := f.View.Inv().Col(3).Vec3()
	return astro.Vec3{X: eye.X(), Y: eye.Y(), Z: eye.Z()}
}

// starGlyph returns the glyph and color for a star. Brighter stars get
// more prominent symbols.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	case mag < 4.0:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

// String renders the canvas with colors. Runs of one color share a style.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.colors[y][x] == c.colors[y][start] {
				continue
			}
			style := lipgloss.NewStyle().Foreground(c.colors[y][start])
			b.WriteString(style.Render(string(c.cells[y][start:x])))
			start = x
		}
		if y < c.rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Plain renders the canvas without colors.
func (c *Canvas) Plain() string {
	lines := make([]string, c.rows)
	for y := range c.cells {
		lines[y] = strings.TrimRight(string(c.cells[y]), " ")
	}
	return strings.Join(lines, "\n")
}

var _ render.Renderer = (*Canvas)(nil)
