package debug

import (
	"github.com/Faultbox/terrain-lod/internal/engine/terrain"
	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/geometry"
	"github.com/Faultbox/terrain-lod/pkg/math"
)

// LineVertex is a coloured line endpoint.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// IntersectionColor returns the outline colour for a cull result.
func IntersectionColor(r geometry.Intersection) [3]float32 {
	switch r {
	case geometry.Inside:
		return [3]float32{0.0, 0.8, 0.0}
	case geometry.Intersecting:
		return [3]float32{0.9, 0.7, 0.0}
	default:
		return [3]float32{0.6, 0.0, 0.0}
	}
}

// TileOverlay outlines each placed tile, coloured by its classification
// against f. Unplaced tiles are skipped.
func TileOverlay(tiles []*formats.Tile, f geometry.Frustum) []LineVertex {
	vertices := make([]LineVertex, 0, len(tiles)*BBoxWireframeVertexCount)
	for _, tile := range tiles {
		if !tile.IsPlaced() {
			continue
		}
		color := IntersectionColor(f.Intersect(*tile.BBox))
		vertices = appendColored(vertices, BoxWireframe(*tile.BBox, DefaultBBoxPadding), color)
	}
	return vertices
}

// CellGridLines generates the cell boundary lines of a map at height.
func CellGridLines(m *terrain.Map, height float32) []LineVertex {
	gridColor := [3]float32{0.5, 0.5, 0.5}
	w := m.WorldCellWidth()
	east := float32(m.East())
	south := float32(m.South())

	var vertices []LineVertex

	// Vertical lines
	for col := 0; col <= m.Cols(); col++ {
		x := float32(float64(col) * w)
		vertices = append(vertices,
			LineVertex{x, height, 0, gridColor[0], gridColor[1], gridColor[2]},
			LineVertex{x, height, south, gridColor[0], gridColor[1], gridColor[2]},
		)
	}

	// Horizontal lines
	for row := 0; row <= m.Rows(); row++ {
		z := float32(float64(row) * w)
		vertices = append(vertices,
			LineVertex{0, height, z, gridColor[0], gridColor[1], gridColor[2]},
			LineVertex{east, height, z, gridColor[0], gridColor[1], gridColor[2]},
		)
	}

	return vertices
}

// ProjectLines maps line pairs through viewProj into normalized device
// coordinates. A segment with an endpoint at or behind the eye is dropped.
func ProjectLines(lines []LineVertex, viewProj math.Mat4) []LineVertex {
	out := make([]LineVertex, 0, len(lines))
	for i := 0; i+1 < len(lines); i += 2 {
		a, okA := viewProj.Project([3]float32{lines[i].X, lines[i].Y, lines[i].Z})
		b, okB := viewProj.Project([3]float32{lines[i+1].X, lines[i+1].Y, lines[i+1].Z})
		if !okA || !okB {
			continue
		}
		pa, pb := lines[i], lines[i+1]
		pa.X, pa.Y, pa.Z = a[0], a[1], a[2]
		pb.X, pb.Y, pb.Z = b[0], b[1], b[2]
		out = append(out, pa, pb)
	}
	return out
}

func appendColored(dst []LineVertex, xyz []float32, color [3]float32) []LineVertex {
	for i := 0; i+2 < len(xyz); i += 3 {
		dst = append(dst, LineVertex{xyz[i], xyz[i+1], xyz[i+2], color[0], color[1], color[2]})
	}
	return dst
}
