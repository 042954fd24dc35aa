// Package metrics exposes Prometheus metrics for the frame loop and camera
// navigation. A nil *Collector is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the planetarium's metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	FrameDuration  prometheus.Histogram
	Frames         prometheus.Counter
	MovesStarted   *prometheus.CounterVec
	MovesCompleted *prometheus.CounterVec
	MoveSeconds    prometheus.Histogram
	Snaps          prometheus.Counter
	ClockClamps    prometheus.Counter
	Zoom           prometheus.Gauge
	TimeRate       prometheus.Gauge
	PointsDrawn    prometheus.Gauge
}

// New registers the planetarium metrics against reg, or the default
// registerer when reg is nil. Registering twice against the same registry
// returns collectors backed by the existing metrics.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.FrameDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planetarium_frame_duration_seconds",
		Help:    "Time spent computing and drawing one frame.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})); err != nil {
		return nil, err
	}
	if c.Frames, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planetarium_frames_total",
		Help: "Frames computed.",
	})); err != nil {
		return nil, err
	}
	if c.MovesStarted, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planetarium_moves_started_total",
		Help: "Animated camera moves started, by mover kind.",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if c.MovesCompleted, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planetarium_moves_completed_total",
		Help: "Animated camera moves that reached their destination, by mover kind.",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if c.MoveSeconds, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planetarium_move_planned_seconds",
		Help:    "Planned length of animated camera moves.",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32},
	})); err != nil {
		return nil, err
	}
	if c.Snaps, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planetarium_snaps_total",
		Help: "Navigation requests satisfied instantly without animation.",
	})); err != nil {
		return nil, err
	}
	if c.ClockClamps, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planetarium_clock_clamps_total",
		Help: "Times the simulated clock was clamped to the supported date range.",
	})); err != nil {
		return nil, err
	}
	if c.Zoom, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planetarium_view_zoom",
		Help: "Current view zoom.",
	})); err != nil {
		return nil, err
	}
	if c.TimeRate, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planetarium_time_rate",
		Help: "Simulated seconds per wall-clock second.",
	})); err != nil {
		return nil, err
	}
	if c.PointsDrawn, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planetarium_points_drawn",
		Help: "Catalog points inside the view frustum on the last frame.",
	})); err != nil {
		return nil, err
	}

	return c, nil
}

// register adds col to reg, reusing an already registered collector of the
// same type.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, fmt.Errorf("register collector: %w", err)
	}
	return col, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveFrame records one computed frame.
func (c *Collector) ObserveFrame(d time.Duration, zoom, timeRate float64) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())
	c.Zoom.Set(zoom)
	c.TimeRate.Set(timeRate)
}

// MoveStarted records the start of an animated move of the given kind.
func (c *Collector) MoveStarted(kind string, plannedSeconds float64) {
	if c == nil {
		return
	}
	c.MovesStarted.WithLabelValues(kind).Inc()
	c.MoveSeconds.Observe(plannedSeconds)
}

// MoveCompleted records a move reaching its destination.
func (c *Collector) MoveCompleted(kind string) {
	if c == nil {
		return
	}
	c.MovesCompleted.WithLabelValues(kind).Inc()
}

// IncSnaps counts an instant navigation.
func (c *Collector) IncSnaps() {
	if c == nil {
		return
	}
	c.Snaps.Inc()
}

// IncClockClamps counts a clamp of the simulated clock.
func (c *Collector) IncClockClamps() {
	if c == nil {
		return
	}
	c.ClockClamps.Inc()
}

// SetPointsDrawn records how many catalog points were drawn.
func (c *Collector) SetPointsDrawn(n int) {
	if c == nil {
		return
	}
	c.PointsDrawn.Set(float64(n))
}
