// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Canvas CanvasConfig `mapstructure:"canvas" yaml:"canvas"`
	Scene  SceneConfig  `mapstructure:"scene" yaml:"scene"`
	Sim    SimConfig    `mapstructure:"sim" yaml:"sim"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// CanvasConfig is the drawable surface. Border is the inset used by the
// visibility gate.
type CanvasConfig struct {
	Width  int     `mapstructure:"width" yaml:"width"`
	Height int     `mapstructure:"height" yaml:"height"`
	Border float64 `mapstructure:"border" yaml:"border"`
}

// SceneConfig controls how magnets and particles are seeded.
type SceneConfig struct {
	MinMagnets     int     `mapstructure:"min_magnets" yaml:"min_magnets"`
	MaxMagnets     int     `mapstructure:"max_magnets" yaml:"max_magnets"`
	MagnetMargin   float64 `mapstructure:"magnet_margin" yaml:"magnet_margin"`
	Gain           float64 `mapstructure:"gain" yaml:"gain"`
	RingRadius     float64 `mapstructure:"ring_radius" yaml:"ring_radius"`
	RingSamples    int     `mapstructure:"ring_samples" yaml:"ring_samples"`
	RingWobble     float64 `mapstructure:"ring_wobble" yaml:"ring_wobble"`
	VelocityJitter float64 `mapstructure:"velocity_jitter" yaml:"velocity_jitter"`
	// Seed fixes the random source. Zero means seed from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// SimConfig is the integration loop.
type SimConfig struct {
	Steps     int     `mapstructure:"steps" yaml:"steps"`
	EmitEvery int     `mapstructure:"emit_every" yaml:"emit_every"`
	Damping   float64 `mapstructure:"damping" yaml:"damping"`
	Workers   int     `mapstructure:"workers" yaml:"workers"`
}

// RenderConfig is the stroke style. Colors are hex strings.
type RenderConfig struct {
	StrokeWidth float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
	StrokeColor string  `mapstructure:"stroke_color" yaml:"stroke_color"`
	Background  string  `mapstructure:"background" yaml:"background"`
}

// OutputConfig drives the batch generator.
type OutputConfig struct {
	Dir      string        `mapstructure:"dir" yaml:"dir"`
	Format   string        `mapstructure:"format" yaml:"format"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	Count    int           `mapstructure:"count" yaml:"count"`
	Parallel int           `mapstructure:"parallel" yaml:"parallel"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "magnet-art")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Canvas --
	v.SetDefault("canvas.width", 1000)
	v.SetDefault("canvas.height", 1000)
	v.SetDefault("canvas.border", 50.0)

	// -- Scene --
	v.SetDefault("scene.min_magnets", 2)
	v.SetDefault("scene.max_magnets", 15)
	v.SetDefault("scene.magnet_margin", 100.0)
	v.SetDefault("scene.gain", 4.0)
	v.SetDefault("scene.ring_radius", 250.0)
	v.SetDefault("scene.ring_samples", 360)
	v.SetDefault("scene.ring_wobble", 0.0)
	v.SetDefault("scene.velocity_jitter", 0.5)
	v.SetDefault("scene.seed", 0)

	// -- Sim --
	v.SetDefault("sim.steps", 1000)
	v.SetDefault("sim.emit_every", 8)
	v.SetDefault("sim.damping", 0.9)
	v.SetDefault("sim.workers", 1)

	// -- Render --
	v.SetDefault("render.stroke_width", 0.9)
	v.SetDefault("render.stroke_color", "#000000")
	v.SetDefault("render.background", "#ffffff")

	// -- Output --
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.format", "png")
	v.SetDefault("output.prefix", "magnetic_circle")
	v.SetDefault("output.count", 1)
	v.SetDefault("output.parallel", 1)
	v.SetDefault("output.timeout", "0s")
}

// NewDefaultConfig returns a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults are static; failing here is a programming error.
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("canvas configuration invalid: %w", err)
	}
	if err := c.Scene.Validate(c.Canvas); err != nil {
		return fmt.Errorf("scene configuration invalid: %w", err)
	}
	if err := c.Sim.Validate(); err != nil {
		return fmt.Errorf("sim configuration invalid: %w", err)
	}
	if c.Render.StrokeWidth <= 0 {
		return fmt.Errorf("render.stroke_width must be positive")
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the canvas dimensions against the border inset.
func (c CanvasConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive integers")
	}
	if c.Border < 0 || 2*c.Border >= float64(c.Width) || 2*c.Border >= float64(c.Height) {
		return fmt.Errorf("border must be non-negative and leave a drawable region")
	}
	return nil
}

// Validate checks the scene parameters. Magnet placement needs the canvas.
func (s SceneConfig) Validate(canvas CanvasConfig) error {
	if s.MinMagnets < 1 {
		return fmt.Errorf("min_magnets must be at least 1")
	}
	if s.MaxMagnets < s.MinMagnets {
		return fmt.Errorf("max_magnets must not be less than min_magnets")
	}
	if s.MagnetMargin < 0 || 2*s.MagnetMargin > float64(canvas.Width) || 2*s.MagnetMargin > float64(canvas.Height) {
		return fmt.Errorf("magnet_margin must be non-negative and fit inside the canvas")
	}
	if s.RingSamples < 1 {
		return fmt.Errorf("ring_samples must be a positive integer")
	}
	if s.RingRadius < 0 || s.RingWobble < 0 || s.VelocityJitter < 0 {
		return fmt.Errorf("ring_radius, ring_wobble and velocity_jitter must be non-negative")
	}
	return nil
}

// Validate checks the integration loop parameters.
func (s SimConfig) Validate() error {
	if s.Steps <= 0 {
		return fmt.Errorf("steps must be a positive integer")
	}
	if s.EmitEvery <= 0 {
		return fmt.Errorf("emit_every must be a positive integer")
	}
	if s.Damping < 0 || s.Damping > 1 {
		return fmt.Errorf("damping must be between 0.0 and 1.0")
	}
	if s.Workers <= 0 {
		return fmt.Errorf("workers must be a positive integer")
	}
	return nil
}

// Validate checks the batch settings.
func (o OutputConfig) Validate() error {
	switch strings.ToLower(o.Format) {
	case "png", "svg":
	default:
		return fmt.Errorf("format %q is not supported (want png or svg)", o.Format)
	}
	if o.Count <= 0 {
		return fmt.Errorf("count must be a positive integer")
	}
	if o.Parallel <= 0 {
		return fmt.Errorf("parallel must be a positive integer")
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
