// Package config handles terrain viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terrain-lod/internal/engine/camera"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Map     MapConfig     `yaml:"map"`
	Camera  camera.Config `yaml:"camera"`
	Culling CullingConfig `yaml:"culling"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// MapConfig holds the map location.
type MapConfig struct {
	Dir string `yaml:"dir"` // Directory containing map.json
}

// CullingConfig holds visibility and LOD settings.
type CullingConfig struct {
	Level     int     `yaml:"level"`     // Fixed LOD level for plain frustum culling
	Tolerance float64 `yaml:"tolerance"` // Screen-space error tolerance in pixels
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			Dir: "maps/default",
		},
		Camera: camera.DefaultConfig(),
		Culling: CullingConfig{
			Level:     0,
			Tolerance: 2.0,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings that cannot be corrected later.
func (c *Config) Validate() error {
	if err := c.Camera.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if c.Culling.Level < 0 {
		return fmt.Errorf("%w: culling level %d is negative", ErrInvalid, c.Culling.Level)
	}
	if c.Culling.Tolerance <= 0 {
		return fmt.Errorf("%w: culling tolerance %v must be positive", ErrInvalid, c.Culling.Tolerance)
	}
	return nil
}
