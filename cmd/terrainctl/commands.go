package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-lod/internal/config"
	"github.com/Faultbox/terrain-lod/internal/engine/debug"
	"github.com/Faultbox/terrain-lod/internal/logger"
	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/geometry"
)

func cmdInfo(cfg *config.Config, args []string) {
	m := loadMap(cfg, args)
	info := m.Info

	fmt.Printf("Map:        %s (%s)\n", info.Name, m.Dir)
	fmt.Printf("Grid:       %d x %d cells of %d\n", m.Rows(), m.Cols(), info.CellSize)
	fmt.Printf("Scale:      h %.3f  v %.3f  base %.1f\n", info.HScale, info.VScale, info.BaseElevation)
	fmt.Printf("Extent:     x [%.1f, %.1f]  z [%.1f, %.1f]\n", m.West(), m.East(), m.North(), m.South())
	fmt.Printf("Elevation:  [%.1f, %.1f]\n", info.MinElevation, info.MaxElevation)
	fmt.Printf("Textures:   color=%v normal=%v water=%v\n", info.HasColor, info.HasNormals, info.HasWater)
	fmt.Println()

	depth := 0
	vertices := 0
	bounds := geometry.Empty()
	for _, cell := range m.Cells() {
		depth = max(depth, cell.Depth)
		cell.LOD.Walk(func(_ int, t *formats.Tile) bool {
			vertices += len(t.Chunk.Vertices)
			return true
		})
		if b, err := cell.Bounds(); err == nil {
			bounds.Merge(b)
		}
	}

	fmt.Println("Tiles by level:")
	for level := range depth {
		fmt.Printf("  L%-2d %d\n", level, len(m.Tiles(level)))
	}
	fmt.Printf("Vertices:   %d\n", vertices)
	fmt.Printf("Bounds:     %s\n", bounds)
}

func cmdCell(args []string) {
	fs := flag.NewFlagSet("cell", flag.ExitOnError)
	width := fs.Uint("width", 0, "Expected cell width (map cell-size)")
	fs.Parse(args)

	if fs.NArg() < 1 || *width == 0 {
		fmt.Fprintln(os.Stderr, "Usage: terrainctl cell -width <n> <hf.cell>")
		os.Exit(1)
	}

	cell, err := formats.ParseCellFile(fs.Arg(0), uint32(*width))
	if err != nil {
		fatal("decoding cell failed", err)
	}

	fmt.Printf("Cell:     %s\n", fs.Arg(0))
	fmt.Printf("Size:     %d\n", cell.Header.Size)
	fmt.Printf("Depth:    %d\n", cell.Header.Depth)
	fmt.Printf("Tiles:    %d\n", cell.TileCount())
	fmt.Printf("Vertices: %d\n", cell.VertexCount())
	fmt.Println()
	fmt.Println("Level  Tiles  Vertices  Indices  MaxError")

	for level := range int(cell.Header.Depth) {
		tiles, err := cell.LOD.ItemsAtLevel(level)
		if err != nil {
			fatal("reading level failed", err)
		}
		var verts, indices int
		var maxErr float32
		for _, t := range tiles {
			verts += len(t.Chunk.Vertices)
			indices += len(t.Chunk.Indices)
			maxErr = max(maxErr, t.Chunk.MaxError)
		}
		fmt.Printf("%5d  %5d  %8d  %7d  %8.3f\n", level, len(tiles), verts, indices, maxErr)
	}
}

func cmdTQT(args []string) {
	fs := flag.NewFlagSet("tqt", flag.ExitOnError)
	dumpDir := fs.String("dump", "", "Write the tiles of -level as PNG files to this directory")
	level := fs.Int("level", 0, "Level to dump")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terrainctl tqt [-dump dir -level n] <file.tqt>")
		os.Exit(1)
	}

	tqt, err := formats.ParseTQTFile(fs.Arg(0))
	if err != nil {
		fatal("decoding texture tree failed", err)
	}

	fmt.Printf("Texture:   %s\n", fs.Arg(0))
	fmt.Printf("Depth:     %d\n", tqt.Depth)
	fmt.Printf("Tile size: %dx%d\n", tqt.TileSize, tqt.TileSize)
	fmt.Printf("Tiles:     %d\n", tqt.LOD.Len())

	if *dumpDir == "" {
		return
	}
	paths, err := debug.NewTextureDumper(*dumpDir, "tile").DumpLevel(tqt, *level)
	if err != nil {
		fatal("dumping tiles failed", err)
	}
	fmt.Printf("Wrote %d images to %s\n", len(paths), *dumpDir)
}

func cmdCull(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("cull", flag.ExitOnError)
	wireframe := fs.String("wireframe", "", "Write tile outlines coloured by result as a Wavefront OBJ file")
	screen := fs.Bool("screen", false, "Project the wireframe into normalized device coordinates")
	fs.Parse(args)

	m := loadMap(cfg, fs.Args())
	cam := newCamera(cfg)
	frustum := cam.Frustum()
	level := cfg.Culling.Level

	stats := m.Classify(frustum, level)
	fmt.Printf("Level %d: %d tiles\n", level, stats.Total())
	fmt.Printf("  inside       %d\n", stats.Inside)
	fmt.Printf("  intersecting %d\n", stats.Intersecting)
	fmt.Printf("  outside      %d\n", stats.Outside)

	if *wireframe == "" {
		return
	}
	lines := debug.TileOverlay(m.Tiles(level), frustum)
	lines = append(lines, debug.CellGridLines(m, float32(m.Info.BaseElevation))...)
	if *screen {
		lines = debug.ProjectLines(lines, cam.ViewProjection())
	}
	if err := writeOBJ(*wireframe, lines); err != nil {
		fatal("writing wireframe failed", err)
	}
	logger.Info("wireframe written", zap.String("path", *wireframe), zap.Int("lines", len(lines)/2))
}

func cmdLOD(cfg *config.Config, args []string) {
	m := loadMap(cfg, args)
	cam := newCamera(cfg)

	tiles := m.SelectLOD(cam, cfg.Culling.Tolerance)
	perLevel := make(map[int]int)
	depth := 0
	for _, t := range tiles {
		perLevel[t.Level]++
		depth = max(depth, t.Level+1)
	}

	fmt.Printf("Tolerance %.2f px: %d tiles selected\n", cfg.Culling.Tolerance, len(tiles))
	for level := range depth {
		fmt.Printf("  L%-2d %d\n", level, perLevel[level])
	}
}

// writeOBJ writes line pairs as OBJ polylines with per-vertex colours.
func writeOBJ(path string, lines []debug.LineVertex) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range lines {
		fmt.Fprintf(w, "v %g %g %g %g %g %g\n", v.X, v.Y, v.Z, v.R, v.G, v.B)
	}
	for i := 1; i+1 <= len(lines); i += 2 {
		fmt.Fprintf(w, "l %d %d\n", i, i+1)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
