// Package config loads planetarium settings from YAML. Embedded defaults
// are read first and a user file only overrides the keys it sets.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/logging"
	"github.com/litescript/ls-planetarium/internal/render"
	"github.com/litescript/ls-planetarium/internal/spacetime"
	"github.com/litescript/ls-planetarium/internal/viewmover"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all planetarium settings.
type Config struct {
	Camera   CameraConfig     `yaml:"camera"`
	Slew     viewmover.Tuning `yaml:"slew"`
	Space    SpaceConfig      `yaml:"space"`
	Clock    ClockConfig      `yaml:"clock"`
	Observer ObserverConfig   `yaml:"observer"`
	View     ViewConfig       `yaml:"view"`
	Blend    BlendConfig      `yaml:"blend"`
	Log      LogConfig        `yaml:"log"`
	Metrics  MetricsConfig    `yaml:"metrics"`
}

// ZoomRange is a min/max zoom pair.
type ZoomRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// CameraConfig holds zoom limits and damping.
type CameraConfig struct {
	SkyZoom           ZoomRange `yaml:"sky_zoom"`
	PlanetZoom        ZoomRange `yaml:"planet_zoom"`
	SolarSystemZoom   ZoomRange `yaml:"solar_system_zoom"`
	Damping           float64   `yaml:"damping"`
	DefaultSkyZoom    float64   `yaml:"default_sky_zoom"`
	DefaultPlanetZoom float64   `yaml:"default_planet_zoom"`
	MaxTilt           float64   `yaml:"max_tilt"`
}

// SpaceConfig selects what is being viewed.
type SpaceConfig struct {
	Background       string  `yaml:"background"`
	GalacticMode     bool    `yaml:"galactic_mode"`
	SolarSystemScale float64 `yaml:"solar_system_scale"`
	TiltFadeStart    float64 `yaml:"tilt_fade_start"`
}

// ClockConfig holds the simulated clock settings.
type ClockConfig struct {
	TimeRate    float64 `yaml:"time_rate"`
	FrameRate   float64 `yaml:"frame_rate"`
	SyncToClock bool    `yaml:"sync_to_clock"`
}

// ObserverConfig is the ground location used for horizon coordinates.
type ObserverConfig struct {
	Name   string  `yaml:"name"`
	LatDeg float64 `yaml:"lat_deg"`
	LonDeg float64 `yaml:"lon_deg"`
	AltM   float64 `yaml:"alt_m"`
}

// StartView is the initial sky position, in sexagesimal or decimal form.
type StartView struct {
	RA   string  `yaml:"ra"`
	Dec  string  `yaml:"dec"`
	Zoom float64 `yaml:"zoom"`
}

// ViewConfig holds viewer settings.
type ViewConfig struct {
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	FPS        int       `yaml:"fps"`
	MaxStarMag float64   `yaml:"max_star_mag"`
	Start      StartView `yaml:"start"`
}

// BlendConfig holds overlay fade times.
type BlendConfig struct {
	GridFade   time.Duration `yaml:"grid_fade"`
	LabelsFade time.Duration `yaml:"labels_fade"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	JSON       bool   `yaml:"json"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return parse(data)
}

// Parse merges YAML data over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		// Unmarshal into the same struct so only keys present override.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	for name, r := range map[string]ZoomRange{
		"camera.sky_zoom":          c.Camera.SkyZoom,
		"camera.planet_zoom":       c.Camera.PlanetZoom,
		"camera.solar_system_zoom": c.Camera.SolarSystemZoom,
	} {
		check(r.Min > 0 && r.Max >= r.Min, "%s: need 0 < min <= max, got %v..%v", name, r.Min, r.Max)
	}
	check(c.Camera.Damping >= 0 && c.Camera.Damping < 1, "camera.damping must be in [0, 1), got %v", c.Camera.Damping)
	check(c.Camera.MaxTilt >= 0 && c.Camera.MaxTilt <= 1.5707963267948966, "camera.max_tilt must be in [0, pi/2], got %v", c.Camera.MaxTilt)
	check(c.Slew.TravelTimeFactor > 0 && c.Slew.UpTimeFactor > 0 && c.Slew.DownTimeFactor > 0, "slew factors must be positive")
	_, err := render.ParseBackgroundType(c.Space.Background)
	check(err == nil, "space.background: %v", err)
	check(c.Space.SolarSystemScale > 0, "space.solar_system_scale must be positive, got %v", c.Space.SolarSystemScale)
	check(c.Clock.FrameRate > 0, "clock.frame_rate must be positive, got %v", c.Clock.FrameRate)
	check(c.Observer.LatDeg >= -90 && c.Observer.LatDeg <= 90, "observer.lat_deg out of range: %v", c.Observer.LatDeg)
	check(c.View.Width > 0 && c.View.Height > 0, "view size must be positive, got %dx%d", c.View.Width, c.View.Height)
	check(c.View.FPS > 0, "view.fps must be positive, got %d", c.View.FPS)
	check(c.Blend.GridFade >= 0 && c.Blend.LabelsFade >= 0, "blend fades must not be negative")

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Background returns the configured background type.
func (c *Config) Background() render.BackgroundType {
	b, err := render.ParseBackgroundType(c.Space.Background)
	if err != nil {
		return render.BackgroundSky
	}
	return b
}

// Render returns the render context settings.
func (c *Config) Render() render.Config {
	return render.Config{
		Sky:               render.ZoomBounds(c.Camera.SkyZoom),
		Planet:            render.ZoomBounds(c.Camera.PlanetZoom),
		SolarSystem:       render.ZoomBounds(c.Camera.SolarSystemZoom),
		Damping:           c.Camera.Damping,
		DefaultSkyZoom:    c.Camera.DefaultSkyZoom,
		DefaultPlanetZoom: c.Camera.DefaultPlanetZoom,
		SolarSystemScale:  c.Space.SolarSystemScale,
		TiltFadeStart:     c.Space.TiltFadeStart,
		MaxTilt:           c.Camera.MaxTilt,
		GalacticMode:      c.Space.GalacticMode,
		Slew:              c.Slew,
		Width:             c.View.Width,
		Height:            c.View.Height,
	}
}

// SpaceTime returns the simulated clock settings.
func (c *Config) SpaceTime() spacetime.Config {
	return spacetime.Config{
		TimeRate:    c.Clock.TimeRate,
		FrameRate:   c.Clock.FrameRate,
		SyncToClock: c.Clock.SyncToClock,
		Location: astro.Observer{
			Name:   c.Observer.Name,
			LatDeg: c.Observer.LatDeg,
			LonDeg: c.Observer.LonDeg,
			AltM:   c.Observer.AltM,
		},
	}
}

// Logging returns the logger options.
func (c *Config) Logging() logging.Options {
	return logging.Options{
		Level:      logging.ParseLevel(c.Log.Level),
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		JSON:       c.Log.JSON,
	}
}

// StartCamera returns the initial sky camera.
func (c *Config) StartCamera() camera.Parameters {
	return camera.CreateRADec(astro.ParseRA(c.View.Start.RA, false), astro.ParseDec(c.View.Start.Dec), c.View.Start.Zoom)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
