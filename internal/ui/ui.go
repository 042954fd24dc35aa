// Package ui provides the terminal planetarium viewer using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/blend"
	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/clock"
	"github.com/litescript/ls-planetarium/internal/logging"
	"github.com/litescript/ls-planetarium/internal/metrics"
	"github.com/litescript/ls-planetarium/internal/render"
	"github.com/litescript/ls-planetarium/internal/state"
	"github.com/litescript/ls-planetarium/internal/version"
)

// Msg types for Bubble Tea
type (
	// FrameMsg advances the render loop by one frame.
	FrameMsg time.Time

	// AnimTickMsg triggers footer animation updates.
	AnimTickMsg time.Time
)

const (
	headerLines = 2
	footerLines = 2

	panFraction  = 0.1  // of the field of view per key press
	zoomStep     = 1.25 // zoom factor per key press
	rotateStep   = math.Pi / 36
	tiltStep     = 0.05 // radians
	slewMaxMag   = 2.0  // faintest star offered as a slew target
	minTimeRate  = 1e-3
	maxTimeRate  = 1e9
	defaultFPS   = 30
	animInterval = 80 * time.Millisecond
)

// backgrounds is the order the mode key cycles through.
var backgrounds = []render.BackgroundType{
	render.BackgroundSky,
	render.BackgroundEarth,
	render.BackgroundSolarSystem,
}

// Options configures the viewer.
type Options struct {
	Context *render.Context
	Events  *state.Manager
	Metrics *metrics.Collector
	Logger  *logging.Logger
	Clock   clock.Source

	Stars      []astro.Star
	Start      camera.Parameters
	FPS        int
	GridFade   time.Duration
	LabelsFade time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx     *render.Context
	events  *state.Manager
	metrics *metrics.Collector
	log     *logging.Logger

	canvas *Canvas
	grid   *blend.State
	labels *blend.State

	frameInterval time.Duration
	targets       []astro.Star
	targetIdx     int
	start         camera.Parameters

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	err       error
}

// New creates the root UI model.
func New(opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	grid := blend.New(true, opts.GridFade, opts.Clock)
	labels := blend.New(true, opts.LabelsFade, opts.Clock)
	canvas := NewCanvas(opts.Stars, grid, labels)
	canvas.SetObserver(opts.Context.SpaceTime().Location())

	var targets []astro.Star
	for _, s := range opts.Stars {
		if s.Name != "" && s.Mag < slewMaxMag {
			targets = append(targets, s)
		}
	}

	return Model{
		ctx:           opts.Context,
		events:        opts.Events,
		metrics:       opts.Metrics,
		log:           log,
		canvas:        canvas,
		grid:          grid,
		labels:        labels,
		frameInterval: time.Second / time.Duration(fps),
		targets:       targets,
		targetIdx:     -1,
		start:         opts.Start,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.frameInterval),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		rows := max(msg.Height-headerLines-footerLines, 1)
		m.canvas.Resize(msg.Width, rows)
		m.ctx.SetViewport(msg.Width, rows*2)

	case FrameMsg:
		cmds = append(cmds, frameCmd(m.frameInterval))
		m.renderFrame()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
	}

	return m, tea.Batch(cmds...)
}

// renderFrame ticks the render context and draws into the canvas.
func (m *Model) renderFrame() {
	if err := m.ctx.Render(m.canvas); err != nil {
		m.err = err
		m.log.Error("render: %v", err)
		return
	}
	m.err = nil
	m.metrics.SetPointsDrawn(m.canvas.Drawn())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.ctx.SpaceTime()
	step := m.ctx.FovAngle() * panFraction

	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit

	case "up", "k":
		m.ctx.Pan(step, 0)
	case "down", "j":
		m.ctx.Pan(-step, 0)
	case "left", "h":
		m.ctx.Pan(0, -step)
	case "right", "l":
		m.ctx.Pan(0, step)
	case "+", "=":
		m.ctx.Zoom(1 / zoomStep)
	case "-", "_":
		m.ctx.Zoom(zoomStep)
	case "[":
		m.ctx.Rotate(-rotateStep)
	case "]":
		m.ctx.Rotate(rotateStep)
	case "t":
		m.ctx.Tilt(-tiltStep)
	case "T":
		m.ctx.Tilt(tiltStep)

	case "n":
		m.slewToStar(1)
	case "p":
		m.slewToStar(-1)
	case "g":
		m.ctx.GotoTarget(m.home(m.ctx.Mode()), false, false)
		m.statusMsg = "Returning home"
	case "esc":
		m.ctx.CancelMover()
		m.statusMsg = ""

	case "m":
		m.cycleBackground()
	case "G":
		m.ctx.SetGalacticMode(!m.ctx.GalacticMode())
	case "x":
		m.grid.SetTargetState(!m.grid.TargetState())
	case "L":
		m.labels.SetTargetState(!m.labels.TargetState())
	case "H":
		m.canvas.SetHorizon(!m.canvas.Horizon())

	case ">", ".":
		st.SetTimeRate(nextRate(st.TimeRate(), 10))
		m.statusMsg = fmt.Sprintf("Time rate %gx", st.TimeRate())
	case "<", ",":
		st.SetTimeRate(nextRate(st.TimeRate(), 0.1))
		m.statusMsg = fmt.Sprintf("Time rate %gx", st.TimeRate())
	case " ":
		st.SetSyncToClock(!st.SyncToClock())
	case "0":
		st.SyncTime()
		st.SetTimeRate(1)
		m.statusMsg = "Synced to now"
	}
	return nil
}

// slewToStar flies to the next or previous bright star.
func (m *Model) slewToStar(dir int) {
	if len(m.targets) == 0 {
		return
	}
	if !m.ctx.Space() {
		m.statusMsg = "Star targets need sky mode"
		return
	}
	n := len(m.targets)
	m.targetIdx = ((m.targetIdx+dir)%n + n) % n
	star := m.targets[m.targetIdx]
	m.ctx.GotoTarget(camera.CreateRADec(star.RAHours(), star.DecDeg, 0), true, false)
	m.statusMsg = "Slewing to " + star.Name
	m.log.Debug("slew to %s (%s %s)", star.Name,
		astro.FormatHMS(star.RAHours()), astro.FormatDMSSign(star.DecDeg))
}

// cycleBackground switches to the next background and snaps to its home
// view.
func (m *Model) cycleBackground() {
	next := backgrounds[0]
	for i, b := range backgrounds {
		if b == m.ctx.Background() {
			next = backgrounds[(i+1)%len(backgrounds)]
			break
		}
	}
	m.ctx.SetBackground(next)
	m.ctx.GotoTarget(m.home(next.Mode()), false, true)
	m.statusMsg = "Background: " + next.String()
}

// home returns the starting view for a render mode.
func (m *Model) home(mode render.Mode) camera.Parameters {
	switch mode {
	case render.PlanetSurface3D:
		return camera.Create(20, 0, camera.FullSky, 0, 0, 100)
	case render.SolarSystem3D:
		p := camera.Create(30, 0, 2*camera.FullSky, 0, -0.5, 100)
		p.Target = camera.Sun
		return p
	default:
		return m.start
	}
}

// nextRate scales a time rate, keeping its sign within sane bounds.
func nextRate(rate, factor float64) float64 {
	if rate == 0 {
		return 1
	}
	r := math.Abs(rate) * factor
	r = math.Min(math.Max(r, minTimeRate), maxTimeRate)
	return math.Copysign(r, rate)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.canvas.String() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := "ls-planetarium"
	var b strings.Builder
	b.WriteString(" ")
	runes := []rune(title)
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	b.WriteString(muted.Render(fmt.Sprintf(" v%s  ", version.Version)))
	b.WriteString(m.renderTabs())
	b.WriteString("\n ")

	cam := m.ctx.ViewCamera()
	var pos string
	if m.ctx.Space() {
		pos = fmt.Sprintf("RA %s  Dec %s", astro.FormatHMS(cam.RA()), astro.FormatDMSSign(cam.Dec()))
	} else {
		pos = fmt.Sprintf("Lat %s  Lng %s", astro.FormatDMSSign(cam.Lat), astro.FormatDMS(cam.Lng))
	}
	b.WriteString(value.Render(pos))
	b.WriteString(muted.Render(fmt.Sprintf("  |  zoom %.4g  FOV %.2f°", cam.Zoom, m.ctx.FovAngle())))
	if m.ctx.GalacticMode() {
		b.WriteString(muted.Render("  |  galactic"))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for _, bg := range backgrounds {
		if bg == m.ctx.Background() {
			parts = append(parts, activeStyle.Render("▶ "+bg.String()))
		} else {
			parts = append(parts, dimStyle.Render("  "+bg.String()))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	st := m.ctx.SpaceTime()
	clockState := fmt.Sprintf("%gx", st.TimeRate())
	if !st.SyncToClock() {
		clockState = "paused"
	}
	timeLine := dimStyle.Render(fmt.Sprintf("%s UTC (%s)", st.Now().UTC().Format("2006-01-02 15:04:05"), clockState))

	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render("ERROR: " + m.err.Error())
	case m.ctx.Mover() != nil:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("slewing...")
	case m.ctx.Moving():
		status = accentStyle.Render(spinner) + dimStyle.Render(" settling")
	default:
		status = dimStyle.Render("idle")
	}
	if last := m.lastEvent(); last != "" {
		status += dimStyle.Render("  last: " + last)
	}

	footer := "  " + timeLine + "  " + dimStyle.Render("|") + "  " + status
	if m.statusMsg != "" {
		footer += "  " + dimStyle.Render(m.statusMsg)
	}

	help := dimStyle.Render("arrows: pan | +/-: zoom | [/]: rotate | t/T: tilt | n/p: stars | g: home | m: mode | G: galactic | x: grid | L: labels | </>: rate | space: pause | 0: now | q: quit")
	return footer + "\n  " + help
}

// lastEvent names the most recent navigation event, if any.
func (m Model) lastEvent() string {
	if m.events == nil {
		return ""
	}
	events := m.events.RecentEvents(1)
	if len(events) == 0 {
		return ""
	}
	return strings.ToLower(string(events[0].Type))
}

// gradientColor returns a hex color for a position in the title gradient.
// Creates a vibrant nebula effect: blue -> purple -> magenta -> pink
func gradientColor(col, row, width, height int) string {
	// Normalize positions to 0-1
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#3B82F6) -> Purple (#8B5CF6) -> Magenta (#D946EF) -> Pink (#EC4899)
	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top, darker toward bottom
	brightness := 1.0 - (yRatio * 0.5)
	channel := func(v float64) int {
		return int(math.Min(math.Max(v*brightness, 0), 255))
	}
	return fmt.Sprintf("#%02X%02X%02X", channel(r), channel(g), channel(b))
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
