package terrain

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	gomath "math"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"

	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// SynthOptions describes a generated map.
type SynthOptions struct {
	Name       string
	Rows, Cols int
	CellSize   uint32 // Power of two, at least 2^(Depth-1)
	Depth      int
	HScale     float64
	VScale     float64
	Color      bool
	Normals    bool
	TileSize   int // Texture tile size in pixels
	TileVerts  int // Vertices per tile edge
}

// DefaultSynthOptions returns a small two by two map.
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Name:      "synthetic",
		Rows:      2,
		Cols:      2,
		CellSize:  64,
		Depth:     4,
		HScale:    10,
		VScale:    1,
		Color:     true,
		Normals:   true,
		TileSize:  16,
		TileVerts: 5,
	}
}

func (o SynthOptions) validate() error {
	switch {
	case o.Rows <= 0 || o.Cols <= 0:
		return fmt.Errorf("grid %dx%d must not be empty", o.Rows, o.Cols)
	case o.Depth < formats.MinDepth || o.Depth > formats.MaxDepth:
		return fmt.Errorf("%w: %d", formats.ErrDepthOutOfRange, o.Depth)
	case o.CellSize == 0 || o.CellSize&(o.CellSize-1) != 0:
		return fmt.Errorf("cell size %d is not a power of two", o.CellSize)
	case o.CellSize>>uint(o.Depth-1) == 0:
		return fmt.Errorf("cell size %d too small for depth %d", o.CellSize, o.Depth)
	case o.TileVerts < 2 || o.TileVerts > 256:
		return fmt.Errorf("vertices per tile edge %d not in [2, 256]", o.TileVerts)
	case (o.Color || o.Normals) && o.TileSize <= 0:
		return fmt.Errorf("texture tile size %d must be positive", o.TileSize)
	case o.HScale <= 0:
		return fmt.Errorf("h-scale %v must be positive", o.HScale)
	}
	return nil
}

// WriteSyntheticMap writes a rolling-hills map that LoadMap can read.
func WriteSyntheticMap(dir string, o SynthOptions) error {
	if err := o.validate(); err != nil {
		return err
	}

	info := MapInfo{
		Name:         o.Name,
		HScale:       o.HScale,
		VScale:       o.VScale,
		MinElevation: 0,
		MaxElevation: 2 * hillHeight * o.VScale,
		Width:        uint32(o.Cols) * o.CellSize,
		Height:       uint32(o.Rows) * o.CellSize,
		CellSize:     o.CellSize,
		HasColor:     o.Color,
		HasNormals:   o.Normals,
		SunDirection: [3]float32{0, -1, 0},
		SunIntensity: [3]float32{1, 1, 1},
		Ambient:      [3]float32{0.2, 0.2, 0.2},
	}

	for row := range o.Rows {
		for col := range o.Cols {
			name := fmt.Sprintf("%02d-%02d", row, col)
			info.Grid = append(info.Grid, name)
			if err := writeSyntheticCell(filepath.Join(dir, name), row, col, o); err != nil {
				return fmt.Errorf("cell %s: %w", name, err)
			}
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MapInfoFile), data, 0644)
}

const hillHeight = 400

// hill returns the elevation at global grid position (x, z).
func hill(x, z float64) float64 {
	return hillHeight + hillHeight*gomath.Sin(x/37)*gomath.Cos(z/53)
}

func writeSyntheticCell(dir string, row, col int, o SynthOptions) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	originX := float64(col) * float64(o.CellSize)
	originZ := float64(row) * float64(o.CellSize)

	n := quadtree.FullSize(o.Depth)
	chunks := make([]formats.Chunk, n)
	var colors, normals []image.Image
	for i := range n {
		level, r, c := quadtree.GridPosition(i)
		w := float64(o.CellSize >> uint(level))
		chunks[i] = synthChunk(originX, originZ, float64(c)*w, float64(r)*w, w, o.TileVerts)
		if o.Color {
			colors = append(colors, synthImage(originX+float64(c)*w, originZ+float64(r)*w, w, o.TileSize, colorAt))
		}
		if o.Normals {
			normals = append(normals, synthImage(originX+float64(c)*w, originZ+float64(r)*w, w, o.TileSize, normalAt))
		}
	}

	var buf bytes.Buffer
	if err := formats.EncodeCell(&buf, o.CellSize, o.Depth, chunks); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, HeightCellFile), buf.Bytes(), 0644); err != nil {
		return err
	}

	if o.Color {
		if err := writeSynthTQT(filepath.Join(dir, ColorTQTFile), o, colors); err != nil {
			return err
		}
	}
	if o.Normals {
		if err := writeSynthTQT(filepath.Join(dir, NormalTQTFile), o, normals); err != nil {
			return err
		}
	}
	return nil
}

// synthChunk samples a verts x verts grid over the tile at cell-local (x0, z0).
func synthChunk(originX, originZ, x0, z0, w float64, verts int) formats.Chunk {
	chunk := formats.Chunk{
		MaxError: float32(w / float64(verts-1) / 4),
		MinY:     gomath.MaxInt16,
		MaxY:     gomath.MinInt16,
	}
	step := w / float64(verts-1)
	for r := range verts {
		for c := range verts {
			x := x0 + float64(c)*step
			z := z0 + float64(r)*step
			y := hill(originX+x, originZ+z)
			parent := hill(originX+x0+gomath.Floor(float64(c)/2)*2*step, originZ+z0+gomath.Floor(float64(r)/2)*2*step)

			chunk.Vertices = append(chunk.Vertices, formats.HFVertex{
				Position:   [3]float32{float32(x), float32(y), float32(z)},
				MorphDelta: float32(parent - y),
			})
			chunk.MinY = min(chunk.MinY, int16(gomath.Floor(y)))
			chunk.MaxY = max(chunk.MaxY, int16(gomath.Ceil(y)))
		}
	}

	// Rows joined by degenerate triangles.
	for r := 0; r < verts-1; r++ {
		if r > 0 {
			chunk.Indices = append(chunk.Indices, uint16(r*verts))
		}
		for c := range verts {
			chunk.Indices = append(chunk.Indices, uint16(r*verts+c), uint16((r+1)*verts+c))
		}
		if r < verts-2 {
			chunk.Indices = append(chunk.Indices, uint16((r+1)*verts+verts-1))
		}
	}
	return chunk
}

func synthImage(x0, z0, w float64, size int, shade func(x, z float64) color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for py := range size {
		for px := range size {
			x := x0 + (float64(px)+0.5)*w/float64(size)
			z := z0 + (float64(py)+0.5)*w/float64(size)
			img.SetNRGBA(px, py, shade(x, z))
		}
	}
	return img
}

func colorAt(x, z float64) color.NRGBA {
	t := hill(x, z) / (2 * hillHeight)
	return color.NRGBA{
		R: uint8(60 + 140*t),
		G: uint8(120 + 100*t),
		B: uint8(40 + 60*t),
		A: 255,
	}
}

func normalAt(x, z float64) color.NRGBA {
	dx := hill(x+0.5, z) - hill(x-0.5, z)
	dz := hill(x, z+0.5) - hill(x, z-0.5)
	l := gomath.Sqrt(dx*dx + 1 + dz*dz)
	enc := func(f float64) uint8 { return uint8(gomath.Round((f*0.5 + 0.5) * 255)) }
	return color.NRGBA{R: enc(-dx / l), G: enc(1 / l), B: enc(-dz / l), A: 255}
}

func writeSynthTQT(path string, o SynthOptions, images []image.Image) error {
	var buf bytes.Buffer
	if err := formats.EncodeTQT(&buf, o.TileSize, o.Depth, images); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
