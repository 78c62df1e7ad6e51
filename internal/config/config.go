// Package config loads evacview settings from an optional YAML file,
// a .env file and EVACVIEW_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/camera"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/occupants"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "EVACVIEW_"

// Config is the runtime configuration of the viewer and its HTTP server.
type Config struct {
	HTTPAddr  string         `yaml:"http_addr" env:"HTTP_ADDR" validate:"required"`
	LogLevel  string         `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string         `yaml:"log_format" env:"LOG_FORMAT" validate:"oneof=json console"`
	Viewport  ViewportConfig `yaml:"viewport" envPrefix:"VIEWPORT_"`
	Camera    CameraConfig   `yaml:"camera" envPrefix:"CAMERA_"`
	Sampling  SamplingConfig `yaml:"sampling" envPrefix:"SAMPLING_"`
}

// ViewportConfig is the drawing surface size in pixels.
type ViewportConfig struct {
	Width  float64 `yaml:"width" env:"WIDTH" validate:"gt=0"`
	Height float64 `yaml:"height" env:"HEIGHT" validate:"gt=0"`
}

// CameraConfig bounds the zoom-out search after the initial fit.
type CameraConfig struct {
	ScaleStep     float64 `yaml:"scale_step" env:"SCALE_STEP" validate:"gt=0"`
	MaxIterations int     `yaml:"max_iterations" env:"MAX_ITERATIONS" validate:"gte=0"`
	MinScale      float64 `yaml:"min_scale" env:"MIN_SCALE" validate:"gt=0"`
}

// SamplingConfig tunes occupant generation. A zero Seed draws a random one
// for every generator.
type SamplingConfig struct {
	MaxAttempts  int    `yaml:"max_attempts" env:"MAX_ATTEMPTS" validate:"gt=0"`
	MaxOccupants int    `yaml:"max_occupants" env:"MAX_OCCUPANTS" validate:"gt=0"`
	Seed         uint64 `yaml:"seed" env:"SEED"`
}

// Default returns the built-in settings.
func Default() Config {
	adj := camera.DefaultAdjustOptions()
	return Config{
		HTTPAddr:  ":8080",
		LogLevel:  "info",
		LogFormat: "json",
		Viewport:  ViewportConfig{Width: 900, Height: 900},
		Camera: CameraConfig{
			ScaleStep:     adj.Step,
			MaxIterations: adj.MaxIterations,
			MinScale:      adj.MinScale,
		},
		Sampling: SamplingConfig{
			MaxAttempts:  occupants.DefaultMaxAttempts,
			MaxOccupants: occupants.DefaultMaxOccupants,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path when
// path is not empty, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv exports the variables of the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ViewportSize returns the configured viewport.
func (c *Config) ViewportSize() camera.Viewport {
	return camera.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// AdjustOptions returns the scale search bounds.
func (c *Config) AdjustOptions() camera.AdjustOptions {
	return camera.AdjustOptions{
		Step:          c.Camera.ScaleStep,
		MaxIterations: c.Camera.MaxIterations,
		MinScale:      c.Camera.MinScale,
	}
}

// NewGenerator returns an occupant generator honouring the sampling
// settings. onFallback may be nil.
func (c *Config) NewGenerator(onFallback func(roomID string)) *occupants.Generator {
	return occupants.NewGenerator(c.Sampling.Seed, occupants.Options{
		MaxAttempts:  c.Sampling.MaxAttempts,
		MaxOccupants: c.Sampling.MaxOccupants,
		OnFallback:   onFallback,
	})
}
