// Package terrain places decoded LOD cells into a map and selects the tiles
// a camera needs.
package terrain

import (
	"errors"
	"fmt"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/geometry"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// Placement errors.
var (
	ErrAlreadyPlaced = errors.New("cell already placed in a map")
	ErrNotPlaced     = errors.New("cell not placed in a map")
)

// MapParams are the map values a cell needs to compute world positions.
type MapParams struct {
	CellWidth     uint32  // Cell width in grid units
	HScale        float64 // World units per horizontal grid unit
	VScale        float64 // World units per vertical unit
	BaseElevation float64
}

// WorldCellWidth returns the width of one cell in world units.
func (p MapParams) WorldCellWidth() float64 {
	return float64(p.CellWidth) * p.HScale
}

// Cell is one square patch of the map with its LOD tiles and optional textures.
type Cell struct {
	LOD    *quadtree.Tree[formats.Tile]
	Color  *formats.TexturedQuadTree // nil if the map has no colour maps
	Normal *formats.TexturedQuadTree // nil if the map has no normal maps

	Row   int
	Col   int
	Depth int

	// WorldlyWidth is the cell width in world units, zero until placed.
	WorldlyWidth float64

	params MapParams
	placed bool
}

// NewCell wraps a decoded cell file at grid position (row, col).
func NewCell(data *formats.CellData, row, col int) *Cell {
	return &Cell{
		LOD:   data.LOD,
		Row:   row,
		Col:   col,
		Depth: int(data.Header.Depth),
	}
}

// IsPlaced reports whether PutInMap has run.
func (c *Cell) IsPlaced() bool {
	return c.placed
}

// PutInMap computes the world-space box of every tile. It may only be called
// once per cell.
func (c *Cell) PutInMap(m MapParams) error {
	if c.placed {
		return fmt.Errorf("%w: cell (%d, %d)", ErrAlreadyPlaced, c.Row, c.Col)
	}

	c.WorldlyWidth = m.WorldCellWidth()
	c.params = m
	c.placed = true

	corner := c.corner()
	for _, tile := range c.LOD.MutView() {
		box := tileBox(corner, tile, m)
		tile.BBox = &box
	}
	return nil
}

// tileBox returns the world box of a tile whose cell corner is at corner.
func tileBox(corner vec3d.T, tile *formats.Tile, m MapParams) geometry.AABB {
	nw := vec3d.T{
		m.HScale * float64(tile.Col),
		m.BaseElevation + m.VScale*float64(tile.Chunk.MinY),
		m.HScale * float64(tile.Row),
	}
	nw = vec3d.Add(&corner, &nw)

	width := m.HScale * float64(m.CellWidth>>uint(tile.Level))
	se := vec3d.T{nw[0] + width, m.BaseElevation + m.VScale*float64(tile.Chunk.MaxY), nw[2] + width}

	return geometry.New(nw, se)
}

// CornerWorldPosition returns the north-west corner of the cell in world space.
func (c *Cell) CornerWorldPosition() (vec3d.T, error) {
	if !c.placed {
		return vec3d.T{}, fmt.Errorf("%w: cell (%d, %d)", ErrNotPlaced, c.Row, c.Col)
	}
	return c.corner(), nil
}

func (c *Cell) corner() vec3d.T {
	return vec3d.T{
		c.WorldlyWidth * float64(c.Col),
		0,
		c.WorldlyWidth * float64(c.Row),
	}
}

// Bounds returns the union of every tile box in the cell.
func (c *Cell) Bounds() (geometry.AABB, error) {
	if !c.placed {
		return geometry.AABB{}, fmt.Errorf("%w: cell (%d, %d)", ErrNotPlaced, c.Row, c.Col)
	}
	bounds := geometry.Empty()
	c.LOD.Walk(func(_ int, t *formats.Tile) bool {
		bounds.Merge(*t.BBox)
		return true
	})
	return bounds, nil
}

// Tile returns the tile at grid position (row, col) of the given level.
func (c *Cell) Tile(level, row, col int) (*formats.Tile, error) {
	if level < 0 || level >= c.Depth {
		return nil, fmt.Errorf("%w: level %d of %d", quadtree.ErrLevelOutOfRange, level, c.Depth)
	}
	n := 1 << uint(level)
	if row < 0 || row >= n || col < 0 || col >= n {
		return nil, fmt.Errorf("tile (%d, %d) outside level %d grid of %d", row, col, level, n)
	}
	return c.LOD.At(quadtree.NodeIndex(level, row, col)), nil
}
