package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-lod/internal/engine/terrain"
	"github.com/Faultbox/terrain-lod/internal/logger"
)

func cmdGen(args []string) {
	def := terrain.DefaultSynthOptions()

	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	name := fs.String("name", def.Name, "Map name")
	rows := fs.Int("rows", def.Rows, "Cell rows")
	cols := fs.Int("cols", def.Cols, "Cell columns")
	cellSize := fs.Uint("cell-size", uint(def.CellSize), "Cell width in grid units (power of two)")
	depth := fs.Int("depth", def.Depth, "LOD levels per cell")
	hScale := fs.Float64("h-scale", def.HScale, "World units per grid unit")
	vScale := fs.Float64("v-scale", def.VScale, "World units per height unit")
	color := fs.Bool("color", def.Color, "Write color.tqt per cell")
	normals := fs.Bool("normals", def.Normals, "Write norm.tqt per cell")
	tileSize := fs.Int("tile-size", def.TileSize, "Texture tile size in pixels")
	verts := fs.Int("verts", def.TileVerts, "Vertices per tile edge")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terrainctl gen [options] <dir>")
		os.Exit(1)
	}
	dir := fs.Arg(0)

	opts := terrain.SynthOptions{
		Name:      *name,
		Rows:      *rows,
		Cols:      *cols,
		CellSize:  uint32(*cellSize),
		Depth:     *depth,
		HScale:    *hScale,
		VScale:    *vScale,
		Color:     *color,
		Normals:   *normals,
		TileSize:  *tileSize,
		TileVerts: *verts,
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fatal("creating map directory failed", err)
	}
	if err := terrain.WriteSyntheticMap(dir, opts); err != nil {
		fatal("writing map failed", err)
	}

	logger.Info("map written",
		zap.String("dir", dir),
		zap.Int("rows", opts.Rows),
		zap.Int("cols", opts.Cols),
		zap.Int("depth", opts.Depth))
	fmt.Printf("Wrote %dx%d map to %s\n", opts.Rows, opts.Cols, dir)
}
