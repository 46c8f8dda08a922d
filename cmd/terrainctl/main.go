// terrainctl inspects LOD terrain maps: it decodes cell and texture files,
// culls tiles against a camera and serves load metrics.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-lod/internal/config"
	"github.com/Faultbox/terrain-lod/internal/engine/camera"
	"github.com/Faultbox/terrain-lod/internal/engine/terrain"
	"github.com/Faultbox/terrain-lod/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "cell":
		cmdCell(args)
	case "tqt":
		cmdTQT(args)
	case "cull":
		cmdCull(cfg, args)
	case "lod":
		cmdLOD(cfg, args)
	case "gen":
		cmdGen(args)
	case "serve":
		cmdServe(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainctl - LOD terrain map utility

Usage:
  terrainctl [global flags] <command> [options]

Global flags:
  -config <file>        Config file (default ./terrain.yaml or user config dir)
  -map <dir>            Map directory containing map.json
  -level <n>            LOD level used by cull
  -tolerance <px>       Screen-space error tolerance used by lod
  -fov <deg>            Vertical field of view
  -metrics-addr <addr>  Listen address for serve
  -debug                Enable debug logging

Commands:
  info [map]                          Show map layout and tile statistics
  cell -width <n> <hf.cell>           Decode one heightfield cell
  tqt [-dump dir -level n] <file>     Decode one textured quadtree
  cull [-wireframe out.obj [-screen]] [map]
                                      Classify tiles of one level against the camera
  lod [map]                           Select tiles by screen-space error
  gen [options] <dir>                 Write a synthetic map
  serve [map]                         Serve Prometheus metrics and culling stats

Examples:
  terrainctl gen -rows 2 -cols 2 -depth 4 ./maps/demo
  terrainctl -map ./maps/demo info
  terrainctl -level 2 cull -wireframe tiles.obj ./maps/demo
  terrainctl -tolerance 1.5 lod ./maps/demo`)
}

// fatal logs err and exits.
func fatal(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadMap loads the map named by the first positional argument, or the
// configured map directory.
func loadMap(cfg *config.Config, args []string) *terrain.Map {
	dir := cfg.Map.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	m, err := terrain.LoadMap(dir)
	if err != nil {
		fatal("loading map failed", err)
	}
	return m
}

func newCamera(cfg *config.Config) *camera.Camera {
	cam, err := camera.New(cfg.Camera)
	if err != nil {
		fatal("creating camera failed", err)
	}
	return cam
}
