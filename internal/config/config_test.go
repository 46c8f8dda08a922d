package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/terrain-lod/internal/engine/camera"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Map.Dir != "maps/default" {
		t.Errorf("expected map dir maps/default, got %s", cfg.Map.Dir)
	}
	if cfg.Camera != camera.DefaultConfig() {
		t.Errorf("expected default camera, got %+v", cfg.Camera)
	}
	if cfg.Culling.Level != 0 {
		t.Errorf("expected culling level 0, got %d", cfg.Culling.Level)
	}
	if cfg.Culling.Tolerance != 2.0 {
		t.Errorf("expected tolerance 2.0, got %f", cfg.Culling.Tolerance)
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("expected metrics addr :9090, got %s", cfg.Metrics.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
map:
  dir: "/data/maps/grand-canyon"

camera:
  position: [100, 500, 100]
  target: [2000, 0, 2000]
  up: [0, 1, 0]
  near: 0.5
  far: 50000
  fov: 45
  aspect_ratio: 1.5
  viewport_width: 1920

culling:
  level: 3
  tolerance: 4.5

metrics:
  addr: "127.0.0.1:2112"

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Map.Dir != "/data/maps/grand-canyon" {
		t.Errorf("expected map dir from file, got %s", cfg.Map.Dir)
	}
	wantCamera := camera.Config{
		Position:      [3]float64{100, 500, 100},
		Target:        [3]float64{2000, 0, 2000},
		Up:            [3]float64{0, 1, 0},
		NearZ:         0.5,
		FarZ:          50000,
		FOV:           45,
		AspectRatio:   1.5,
		ViewportWidth: 1920,
	}
	if cfg.Camera != wantCamera {
		t.Errorf("expected camera %+v, got %+v", wantCamera, cfg.Camera)
	}
	if cfg.Culling.Level != 3 {
		t.Errorf("expected culling level 3, got %d", cfg.Culling.Level)
	}
	if cfg.Culling.Tolerance != 4.5 {
		t.Errorf("expected tolerance 4.5, got %f", cfg.Culling.Tolerance)
	}
	if cfg.Metrics.Addr != "127.0.0.1:2112" {
		t.Errorf("expected metrics addr 127.0.0.1:2112, got %s", cfg.Metrics.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("expected log file 'terrain.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("culling:\n  level: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Culling.Level != 2 {
		t.Errorf("expected culling level 2, got %d", cfg.Culling.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Culling.Tolerance != 2.0 {
		t.Errorf("expected default tolerance, got %f", cfg.Culling.Tolerance)
	}
	if cfg.Camera != camera.DefaultConfig() {
		t.Errorf("expected default camera, got %+v", cfg.Camera)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
culling:
  level: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative level", func(c *Config) { c.Culling.Level = -1 }, ErrInvalid},
		{"zero tolerance", func(c *Config) { c.Culling.Tolerance = 0 }, ErrInvalid},
		{"bad camera", func(c *Config) { c.Camera.FarZ = 0 }, camera.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("terrain.yaml", []byte("culling:\n  level: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != "./terrain.yaml" {
		t.Errorf("expected ./terrain.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "map flag",
			setup: func() { *flagMap = "/tmp/map" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Map.Dir != "/tmp/map" {
					t.Errorf("expected map dir /tmp/map, got %s", cfg.Map.Dir)
				}
			},
			teardown: func() { *flagMap = "" },
		},
		{
			name: "culling flags",
			setup: func() {
				*flagLevel = 4
				*flagTolerance = 0.5
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Culling.Level != 4 {
					t.Errorf("expected level 4, got %d", cfg.Culling.Level)
				}
				if cfg.Culling.Tolerance != 0.5 {
					t.Errorf("expected tolerance 0.5, got %f", cfg.Culling.Tolerance)
				}
			},
			teardown: func() {
				*flagLevel = -1
				*flagTolerance = 0
			},
		},
		{
			name:  "level zero is an override",
			setup: func() { *flagLevel = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Culling.Level != 0 {
					t.Errorf("expected level 0, got %d", cfg.Culling.Level)
				}
			},
			teardown: func() { *flagLevel = -1 },
		},
		{
			name: "camera and metrics flags",
			setup: func() {
				*flagFOV = 75
				*flagMetricsAddr = ":2112"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Camera.FOV != 75 {
					t.Errorf("expected fov 75, got %f", cfg.Camera.FOV)
				}
				if cfg.Metrics.Addr != ":2112" {
					t.Errorf("expected metrics addr :2112, got %s", cfg.Metrics.Addr)
				}
			},
			teardown: func() {
				*flagFOV = 0
				*flagMetricsAddr = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Culling.Level = 2
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
culling:
  level: 3
  tolerance: 8
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagLevel = 5
	defer func() {
		*flagConfig = ""
		*flagLevel = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Level from flag, tolerance from file.
	if cfg.Culling.Level != 5 {
		t.Errorf("expected level 5 from flag, got %d", cfg.Culling.Level)
	}
	if cfg.Culling.Tolerance != 8 {
		t.Errorf("expected tolerance 8 from file, got %f", cfg.Culling.Tolerance)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("camera:\n  fov: 200\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, camera.ErrInvalidConfig) {
		t.Errorf("expected camera.ErrInvalidConfig, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Map.Dir = "/srv/maps/alps"
	cfg.Culling.Tolerance = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}
