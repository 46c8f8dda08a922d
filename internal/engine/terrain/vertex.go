package terrain

import (
	"github.com/Faultbox/terrain-lod/pkg/formats"
)

// Vertex is a terrain vertex ready for upload.
type Vertex struct {
	Position   [3]float32
	Color      [3]float32
	TexCoord   [2]float32
	MorphDelta float32
}

// TileColors is the palette cycled over tiles when no colour map is bound.
var TileColors = [4][3]float32{
	{0, 1, 0},
	{1, 0, 0},
	{0, 0, 1},
	{1, 1, 1},
}

// BuildVertices converts a tile's chunk vertices to world space. Texture
// coordinates span [0, 1] across the tile's footprint in the cell.
func (c *Cell) BuildVertices(tile *formats.Tile, color [3]float32) ([]Vertex, error) {
	corner, err := c.CornerWorldPosition()
	if err != nil {
		return nil, err
	}
	p := c.params

	tileWidth := float32(p.CellWidth >> uint(tile.Level))
	originX := float32(tile.Col) * tileWidth
	originZ := float32(tile.Row) * tileWidth

	out := make([]Vertex, len(tile.Chunk.Vertices))
	for i, v := range tile.Chunk.Vertices {
		out[i] = Vertex{
			Position: [3]float32{
				float32(corner[0] + p.HScale*float64(v.Position[0])),
				float32(p.BaseElevation + p.VScale*float64(v.Position[1])),
				float32(corner[2] + p.HScale*float64(v.Position[2])),
			},
			Color: color,
			TexCoord: [2]float32{
				clamp01((v.Position[0] - originX) / tileWidth),
				clamp01((v.Position[2] - originZ) / tileWidth),
			},
			MorphDelta: float32(p.VScale) * v.MorphDelta,
		}
	}
	return out, nil
}

func clamp01(f float32) float32 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
