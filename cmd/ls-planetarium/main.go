// Command ls-planetarium is a terminal planetarium: a navigable sky, planet
// and solar system view driven by a simulated clock.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/clock"
	"github.com/litescript/ls-planetarium/internal/config"
	"github.com/litescript/ls-planetarium/internal/logging"
	"github.com/litescript/ls-planetarium/internal/metrics"
	"github.com/litescript/ls-planetarium/internal/render"
	"github.com/litescript/ls-planetarium/internal/report"
	"github.com/litescript/ls-planetarium/internal/spacetime"
	"github.com/litescript/ls-planetarium/internal/state"
	"github.com/litescript/ls-planetarium/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	snapshotPath string
	miniSkyMode  bool
	eventsMode   bool
	timeToTarget bool
	dumpFrames   int
	tracePath    string
)

const (
	miniSkyCols = 72
	miniSkyRows = 20
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML config file (defaults are embedded)")
	writeConfig := flag.String("write-config", "", "Write the effective config to a YAML file and exit")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to a rotated file")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090)")
	background := flag.String("background", "", "Starting background (sky, earth, planet, solarsystem)")
	galactic := flag.Bool("galactic", false, "Draw the galactic grid")
	rate := flag.Float64("rate", 0, "Simulated seconds per wall-clock second")
	fps := flag.Int("fps", 0, "Frames per second")
	gotoTarget := flag.String("goto", "", `Slew to "RA Dec" (e.g., "6h45m -16:43")`)
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.BoolVar(&miniSkyMode, "mini-sky", false, "Show ASCII mini sky view")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.BoolVar(&timeToTarget, "time-to-target", false, "Print how long the -goto slew takes and exit")
	flag.IntVar(&dumpFrames, "dump-frames", 0, "Run N fixed-step frames and write a CSV trace")
	flag.StringVar(&tracePath, "trace-path", "-", "CSV trace destination for -dump-frames (use - for stdout)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *logLevel, *logFile, *metricsAddr, *background, *galactic, *rate, *fps)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *writeConfig != "" {
		if err := cfg.WriteYAML(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var target *camera.Parameters
	if *gotoTarget != "" {
		p, err := parseTarget(*gotoTarget, cfg.View.Start.Zoom)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		target = &p
	}

	// Set up logging
	logger, err := logging.Open(cfg.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Headless mode: no TUI
	headless := summaryMode || snapshotPath != "" || miniSkyMode || eventsMode || timeToTarget || dumpFrames > 0
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Info("stdout is not a terminal, printing a summary")
		summaryMode, headless = true, true
	}

	// The alternate screen owns the terminal; keep stderr logs out of it.
	if !headless && cfg.Log.File == "" {
		logger.SetOutput(io.Discard)
	}

	// Fixed-step runs own their clock so slews play out frame by frame.
	var clk clock.Source = clock.System{}
	var manual *clock.Manual
	if dumpFrames > 0 {
		manual = clock.NewManual(time.Now())
		clk = manual
	}

	a, err := newApp(cfg, clk, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, a.metrics, logger)
	}

	if headless {
		if err := runHeadless(ctx, a, cfg, target, manual); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if target != nil {
		a.render.GotoTarget(*target, false, false)
	}

	model := ui.New(ui.Options{
		Context:    a.render,
		Events:     a.events,
		Metrics:    a.metrics,
		Logger:     logger,
		Clock:      clk,
		Stars:      astro.DefaultStarCatalog().Brighter(cfg.View.MaxStarMag),
		Start:      cfg.StartCamera(),
		FPS:        cfg.View.FPS,
		GridFade:   cfg.Blend.GridFade,
		LabelsFade: cfg.Blend.LabelsFade,
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components shared by the TUI and headless modes.
type app struct {
	spaceTime *spacetime.Controller
	render    *render.Context
	events    *state.Manager
	metrics   *metrics.Collector
}

func newApp(cfg *config.Config, clk clock.Source, logger *logging.Logger) (*app, error) {
	collector, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	st := spacetime.New(clk, cfg.SpaceTime(), logger.With("component", "spacetime"))
	events := state.NewManager(state.DefaultConfig())

	rc := render.New(cfg.Render(), st, clk, logger.With("component", "render"))
	rc.SetMetrics(collector)
	rc.SetEventLog(events)
	rc.SetBackground(cfg.Background())
	if rc.Space() {
		rc.GotoTarget(cfg.StartCamera(), false, true)
	}

	return &app{spaceTime: st, render: rc, events: events, metrics: collector}, nil
}

// applyFlags lets command-line flags override the loaded config.
func applyFlags(cfg *config.Config, logLevel, logFile, metricsAddr, background string, galactic bool, rate float64, fps int) {
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if background != "" {
		cfg.Space.Background = background
	}
	if galactic {
		cfg.Space.GalacticMode = true
	}
	if rate != 0 {
		cfg.Clock.TimeRate = rate
	}
	if fps > 0 {
		cfg.View.FPS = fps
		cfg.Clock.FrameRate = float64(fps)
	}
}

// parseTarget reads "RA Dec" into a sky camera.
func parseTarget(s string, zoom float64) (camera.Parameters, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return camera.Parameters{}, fmt.Errorf("goto target %q: want \"RA Dec\"", s)
	}
	return camera.CreateRADec(astro.ParseRA(fields[0], false), astro.ParseDec(fields[1]), zoom), nil
}

func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server: %v", err)
	}
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, a *app, cfg *config.Config, target *camera.Parameters, manual *clock.Manual) error {
	if timeToTarget {
		if target == nil {
			return errors.New("-time-to-target needs -goto")
		}
		fmt.Printf("%.3f\n", a.render.TimeToTarget(*target, false))
		return nil
	}

	if target != nil {
		// Without fixed-step frames nothing would animate; jump instead.
		a.render.GotoTarget(*target, false, dumpFrames == 0)
	}

	var frame render.Frame
	if dumpFrames > 0 {
		rows, err := dump(ctx, a, manual)
		if err != nil {
			return err
		}
		if err := writeTrace(rows); err != nil {
			return err
		}
		frame = a.render.Frame()
	} else {
		frame = a.render.Tick()
	}

	if snapshotPath != "" {
		export := report.ExportSnapshot(frame, a.events.RecentEvents(10))
		if err := writeTo(snapshotPath, export.WriteJSON); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if summaryMode {
		report.WriteSummary(os.Stdout, frame)
	}

	if miniSkyMode {
		fmt.Println()
		canvas := ui.NewCanvas(astro.DefaultStarCatalog().Brighter(cfg.View.MaxStarMag), nil, nil)
		canvas.SetObserver(a.spaceTime.Location())
		canvas.Resize(miniSkyCols, miniSkyRows)
		a.render.SetViewport(miniSkyCols, miniSkyRows*2)
		if err := a.render.Render(canvas); err != nil {
			return fmt.Errorf("render mini sky: %w", err)
		}
		fmt.Println(canvas.Plain())
	}

	if eventsMode {
		fmt.Println()
		report.WriteEvents(os.Stdout, a.events.RecentEvents(10))
	}
	return nil
}

// dump runs fixed-step frames until the requested count is reached or ctx
// is cancelled.
func dump(ctx context.Context, a *app, manual *clock.Manual) ([]report.FrameRow, error) {
	st := a.spaceTime
	st.SetFrameDumping(st.FrameRate(), dumpFrames)
	defer st.CancelFrameDump()

	step := time.Duration(float64(time.Second) / st.FrameRate())
	rows := make([]report.FrameRow, 0, dumpFrames)
	for !st.DumpComplete() {
		select {
		case <-ctx.Done():
			return rows, ctx.Err()
		default:
		}
		rows = append(rows, report.NewFrameRow(st.CurrentFrame(), a.render.Tick()))
		st.NextFrame()
		manual.Advance(step)
	}
	return rows, nil
}

func writeTrace(rows []report.FrameRow) error {
	return writeTo(tracePath, func(w io.Writer) error {
		return report.WriteFramesCSV(w, rows)
	})
}

// writeTo sends output to stdout for "-" or to a new file.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
