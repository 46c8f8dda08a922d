package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagMap         = flag.String("map", "", "Map directory containing map.json")
	flagLevel       = flag.Int("level", -1, "LOD level for frustum culling")
	flagTolerance   = flag.Float64("tolerance", 0, "Screen-space error tolerance in pixels")
	flagFOV         = flag.Float64("fov", 0, "Vertical field of view in degrees")
	flagMetricsAddr = flag.String("metrics-addr", "", "Prometheus listen address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMap != "" {
		cfg.Map.Dir = *flagMap
	}
	if *flagLevel >= 0 {
		cfg.Culling.Level = *flagLevel
	}
	if *flagTolerance > 0 {
		cfg.Culling.Tolerance = *flagTolerance
	}
	if *flagFOV > 0 {
		cfg.Camera.FOV = *flagFOV
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.Addr = *flagMetricsAddr
	}
}
