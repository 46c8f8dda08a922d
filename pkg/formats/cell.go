package formats

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/terrain-lod/pkg/geometry"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// CellMagic identifies a heightfield cell file ("cell").
const CellMagic uint32 = 0x63656C6C

// CellHeader is the fixed header at the start of a cell file.
type CellHeader struct {
	Magic      uint32
	Compressed bool
	Size       uint32 // Cell width in grid units
	Depth      uint32 // Number of LOD levels
}

// HFVertex is one heightfield vertex as uploaded to the GPU.
type HFVertex struct {
	Position   [3]float32
	MorphDelta float32 // Y offset towards the parent LOD surface
}

// Chunk is the mesh for one tile at one LOD.
type Chunk struct {
	MaxError float32 // Object-space geometric error of this LOD
	MinY     int16
	MaxY     int16
	Vertices []HFVertex
	Indices  []uint16 // Triangle strip
}

// Tile is one node of a cell's LOD quadtree.
type Tile struct {
	Chunk Chunk
	Row   int
	Col   int
	Level int

	// BBox is the world-space box, nil until the owning cell is placed in a map.
	BBox *geometry.AABB
}

// IsPlaced reports whether the tile has a world-space box.
func (t *Tile) IsPlaced() bool {
	return t.BBox != nil
}

// CellData is a decoded cell file.
type CellData struct {
	Header CellHeader
	LOD    *quadtree.Tree[Tile]
}

// TileCount returns the number of tiles across all levels.
func (c *CellData) TileCount() int {
	return c.LOD.Len()
}

// VertexCount returns the total vertex count across all levels.
func (c *CellData) VertexCount() int {
	n := 0
	c.LOD.Walk(func(_ int, t *Tile) bool {
		n += len(t.Chunk.Vertices)
		return true
	})
	return n
}

// ParseCell decodes a cell from r. cellWidth is the map's configured cell
// size; a file of any other size is rejected.
func ParseCell(r io.ReadSeeker, cellWidth uint32) (*CellData, error) {
	header, err := readCellHeader(r, cellWidth)
	if err != nil {
		return nil, err
	}

	depth := int(header.Depth)
	offsets, err := ReadValues[uint64](r, quadtree.FullSize(depth))
	if err != nil {
		return nil, fmt.Errorf("reading offset table: %w", err)
	}

	tiles := make([]Tile, 0, len(offsets))
	for level := 0; level < depth; level++ {
		n := 1 << uint(level)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				idx := quadtree.NodeIndex(level, row, col)
				chunk, err := readChunk(r, offsets[idx])
				if err != nil {
					return nil, fmt.Errorf("parsing chunk %d (level %d, row %d, col %d): %w", idx, level, row, col, err)
				}
				tiles = append(tiles, Tile{
					Chunk: chunk,
					Row:   row,
					Col:   col,
					Level: level,
				})
			}
		}
	}

	lod, err := quadtree.Build(tiles, depth)
	if err != nil {
		return nil, fmt.Errorf("building LOD tree: %w", err)
	}

	return &CellData{Header: header, LOD: lod}, nil
}

// ParseCellFile decodes a cell file from disk.
func ParseCellFile(path string, cellWidth uint32) (*CellData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading cell file: %w", ErrIOFailure, err)
	}
	return ParseCell(bytes.NewReader(data), cellWidth)
}

// readCellHeader reads and validates the header one field at a time, so a
// bad magic number is reported without reading past it.
func readCellHeader(r io.Reader, cellWidth uint32) (CellHeader, error) {
	var h CellHeader
	var err error

	if h.Magic, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if h.Magic != CellMagic {
		return h, fmt.Errorf("%w: cell magic 0x%08x", ErrInvalidFormat, h.Magic)
	}

	compressed, err := ReadValue[uint32](r)
	if err != nil {
		return h, fmt.Errorf("reading compressed flag: %w", err)
	}
	h.Compressed = compressed != 0
	if h.Compressed {
		return h, fmt.Errorf("%w: compressed cells", ErrUnsupportedFeature)
	}

	if h.Size, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading size: %w", err)
	}
	if h.Size != cellWidth {
		return h, fmt.Errorf("%w: cell size %d, map cell size %d", ErrSizeMismatch, h.Size, cellWidth)
	}

	if h.Depth, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading depth: %w", err)
	}
	if h.Depth < MinDepth || h.Depth > MaxDepth {
		return h, fmt.Errorf("%w: %d not in [%d, %d]", ErrDepthOutOfRange, h.Depth, MinDepth, MaxDepth)
	}

	return h, nil
}

// chunkHeader precedes the vertex and index arrays of every chunk.
type chunkHeader struct {
	MaxError float32
	NVerts   uint32
	NIndices uint32
	MinY     int16
	MaxY     int16
}

func readChunk(r io.ReadSeeker, offset uint64) (Chunk, error) {
	if err := seekTo(r, offset); err != nil {
		return Chunk{}, err
	}

	var h chunkHeader
	var err error
	if h.MaxError, err = ReadValue[float32](r); err != nil {
		return Chunk{}, fmt.Errorf("reading max error: %w", err)
	}
	if h.NVerts, err = ReadValue[uint32](r); err != nil {
		return Chunk{}, fmt.Errorf("reading vertex count: %w", err)
	}
	if h.NIndices, err = ReadValue[uint32](r); err != nil {
		return Chunk{}, fmt.Errorf("reading index count: %w", err)
	}
	if h.MinY, err = ReadValue[int16](r); err != nil {
		return Chunk{}, fmt.Errorf("reading min y: %w", err)
	}
	if h.MaxY, err = ReadValue[int16](r); err != nil {
		return Chunk{}, fmt.Errorf("reading max y: %w", err)
	}

	vertices := make([]HFVertex, 0, min(int(h.NVerts), maxPrealloc))
	for i := 0; i < int(h.NVerts); i++ {
		v, err := readVertex(r)
		if err != nil {
			return Chunk{}, fmt.Errorf("reading vertex %d: %w", i, err)
		}
		vertices = append(vertices, v)
	}

	indices, err := ReadValues[uint16](r, int(h.NIndices))
	if err != nil {
		return Chunk{}, fmt.Errorf("reading indices: %w", err)
	}

	return Chunk{
		MaxError: h.MaxError,
		MinY:     h.MinY,
		MaxY:     h.MaxY,
		Vertices: vertices,
		Indices:  indices,
	}, nil
}

// readVertex reads x, y, z and the morph delta, all int16.
func readVertex(r io.Reader) (HFVertex, error) {
	var raw [4]int16
	for i := range raw {
		v, err := ReadValue[int16](r)
		if err != nil {
			return HFVertex{}, err
		}
		raw[i] = v
	}
	return HFVertex{
		Position:   [3]float32{float32(raw[0]), float32(raw[1]), float32(raw[2])},
		MorphDelta: float32(raw[3]),
	}, nil
}
