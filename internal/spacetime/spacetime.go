// Package spacetime holds the simulated clock that drives what the sky
// shows: wall-clock synchronization, time-rate scaling, fixed-step frame
// dumping and Julian-date conversion.
package spacetime

import (
	"math"
	"time"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/clock"
	"github.com/litescript/ls-planetarium/internal/logging"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// Supported simulated date range.
var (
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(4000, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Config holds the controller's starting settings.
type Config struct {
	TimeRate    float64
	FrameRate   float64
	SyncToClock bool
	Location    astro.Observer
}

// DefaultConfig returns real-time playback at 30 frames per second.
func DefaultConfig() Config {
	return Config{
		TimeRate:    1,
		FrameRate:   30,
		SyncToClock: true,
	}
}

// Controller is the simulated clock. Now is the wall-clock frame time
// (MetaNow) plus an offset that absorbs user time jumps and rate changes.
// It is not safe for concurrent use; the frame loop owns it.
type Controller struct {
	clk clock.Source
	log *logging.Logger

	now      time.Time
	metaNow  time.Time
	last     time.Time
	offsetMs float64

	timeRate    float64
	syncToClock bool

	frameDumping bool
	frameRate    float64
	totalFrames  int
	currentFrame int

	location astro.Observer
	onClamp  func(bound time.Time)
}

// New creates a controller synchronized to clk. A nil clock uses the
// system clock and a nil logger discards.
func New(clk clock.Source, cfg Config, log *logging.Logger) *Controller {
	clk = clock.OrSystem(clk)
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultConfig().FrameRate
	}
	wall := clk.Now().UTC()
	c := &Controller{
		clk:         clk,
		log:         log,
		now:         wall,
		metaNow:     wall,
		last:        wall,
		timeRate:    cfg.TimeRate,
		syncToClock: cfg.SyncToClock,
		frameRate:   cfg.FrameRate,
		location:    cfg.Location,
	}
	return c
}

// BeginFrame latches the wall clock for the coming frame. While dumping
// frames the meta clock only moves through NextFrame.
func (c *Controller) BeginFrame() {
	if !c.frameDumping {
		c.metaNow = c.clk.Now().UTC()
	}
}

// MetaNow returns the wall-clock time of the current frame.
func (c *Controller) MetaNow() time.Time {
	return c.metaNow
}

// Now returns the simulated time.
func (c *Controller) Now() time.Time {
	return c.now
}

// UpdateClock advances the simulated time to match the current frame.
// Call once per frame after BeginFrame.
func (c *Controller) UpdateClock() {
	if !c.syncToClock {
		return
	}

	if c.timeRate != 1 {
		ts := msBetween(c.last, c.metaNow)
		c.offsetMs += ts*c.timeRate - ts
	}
	c.last = c.metaNow
	c.now = c.clamped(addMs(c.metaNow, c.offsetMs))
}

// SyncTime drops any offset and re-anchors simulated time to the wall
// clock.
func (c *Controller) SyncTime() {
	c.metaNow = c.clk.Now().UTC()
	c.offsetMs = 0
	c.now = c.metaNow
	c.last = c.metaNow
	c.syncToClock = true
}

// SetNow jumps the simulated time to t; later frames continue from there.
func (c *Controller) SetNow(t time.Time) {
	c.now = c.clamped(t.UTC())
	c.offsetMs = msBetween(c.metaNow, c.now)
	c.last = c.metaNow
}

// TimeRate returns the simulated seconds per wall-clock second.
func (c *Controller) TimeRate() float64 {
	return c.timeRate
}

// SetTimeRate changes the rate. Time accrued so far is settled at the old
// rate first, so the simulated time does not jump.
func (c *Controller) SetTimeRate(rate float64) {
	c.UpdateClock()
	c.timeRate = rate
}

// SyncToClock reports whether simulated time is running.
func (c *Controller) SyncToClock() bool {
	return c.syncToClock
}

// SetSyncToClock starts or pauses simulated time. Resuming keeps the
// current simulated time.
func (c *Controller) SetSyncToClock(sync bool) {
	if c.syncToClock == sync {
		return
	}
	if sync {
		c.offsetMs = msBetween(c.metaNow, c.now)
		c.last = c.metaNow
	} else {
		c.UpdateClock()
	}
	c.syncToClock = sync
}

// JNow returns the Julian date of the simulated time.
func (c *Controller) JNow() float64 {
	return UTCToJulian(c.now)
}

// JNowForFutureTime returns the Julian date the simulated clock will show
// after the given number of wall-clock seconds at the current rate.
func (c *Controller) JNowForFutureTime(seconds float64) float64 {
	return c.JNow() + seconds*c.timeRate/86400
}

// Location returns the observer used for horizon coordinates.
func (c *Controller) Location() astro.Observer {
	return c.location
}

// SetLocation sets the observer.
func (c *Controller) SetLocation(obs astro.Observer) {
	c.location = obs
}

// SetFrameDumping switches to fixed-step time: every NextFrame advances the
// meta clock by exactly one frame at frameRate, for totalFrames frames.
func (c *Controller) SetFrameDumping(frameRate float64, totalFrames int) {
	if frameRate <= 0 {
		frameRate = DefaultConfig().FrameRate
	}
	c.frameDumping = true
	c.frameRate = frameRate
	c.totalFrames = totalFrames
	c.currentFrame = 0
}

// FrameDumping reports whether fixed-step time is active.
func (c *Controller) FrameDumping() bool {
	return c.frameDumping
}

// NextFrame advances the meta clock by one frame.
func (c *Controller) NextFrame() {
	c.metaNow = addMs(c.metaNow, 1000/c.frameRate)
	c.currentFrame++
}

// CancelFrameDump returns to wall-clock time without jumping the
// simulated time.
func (c *Controller) CancelFrameDump() {
	if !c.frameDumping {
		return
	}
	c.frameDumping = false
	c.metaNow = c.clk.Now().UTC()
	c.offsetMs = msBetween(c.metaNow, c.now)
	c.last = c.metaNow
}

// OnClamp installs a callback fired whenever simulated time hits the edge
// of the supported range.
func (c *Controller) OnClamp(fn func(bound time.Time)) {
	c.onClamp = fn
}

// FrameRate returns the frame-dump rate.
func (c *Controller) FrameRate() float64 { return c.frameRate }

// TotalFrames returns the number of frames requested for the dump.
func (c *Controller) TotalFrames() int { return c.totalFrames }

// CurrentFrame returns the number of frames dumped so far.
func (c *Controller) CurrentFrame() int { return c.currentFrame }

// DumpComplete reports whether all requested frames have been produced.
func (c *Controller) DumpComplete() bool {
	return c.frameDumping && c.currentFrame >= c.totalFrames
}

// clamped keeps t inside [MinTime, MaxTime]. When it has to move t it also
// re-derives the offset so later frames stay at the boundary.
func (c *Controller) clamped(t time.Time) time.Time {
	var bound time.Time
	switch {
	case t.Before(MinTime):
		bound = MinTime
	case t.After(MaxTime):
		bound = MaxTime
	default:
		return t
	}
	c.log.Warn("simulated time %s out of range, clamping to %s", t.Format(time.RFC3339), bound.Format(time.RFC3339))
	c.offsetMs = msBetween(c.metaNow, bound)
	if c.onClamp != nil {
		c.onClamp(bound)
	}
	return bound
}

// UTCToJulian returns the Julian date of t.
func UTCToJulian(t time.Time) float64 {
	return astro.JulianDate(t)
}

// maxCalendarDays bounds the Julian dates handed to the calendar
// conversion; beyond it JulianToUTC only reports which side it overflowed.
const maxCalendarDays = 1e7

// JulianToUTC converts a Julian date to a UTC time on the proleptic
// Gregorian calendar, rounded to the microsecond.
func JulianToUTC(jd float64) time.Time {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return time.Time{}
	}
	if jd < 0 || math.Abs(jd-base.J2000) > maxCalendarDays {
		return addMs(j2000, (jd-base.J2000)*86400e3)
	}
	return julian.JDToTime(jd).Round(time.Microsecond)
}

func msBetween(from, to time.Time) float64 {
	return float64(to.Unix()-from.Unix())*1000 + float64(to.Nanosecond()-from.Nanosecond())/1e6
}

// addMs adds a possibly huge millisecond offset to t. time.Duration only
// spans about 292 years, so whole seconds are added separately.
func addMs(t time.Time, ms float64) time.Time {
	if math.IsNaN(ms) {
		return t
	}
	if math.IsInf(ms, 0) || math.Abs(ms) > 1e15 {
		if ms > 0 {
			return MaxTime.Add(time.Second)
		}
		return MinTime.Add(-time.Second)
	}
	secs := math.Trunc(ms / 1000)
	rem := ms - secs*1000
	return time.Unix(t.Unix()+int64(secs), int64(t.Nanosecond())).
		Add(time.Duration(rem * float64(time.Millisecond))).UTC()
}
