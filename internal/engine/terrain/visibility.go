package terrain

import (
	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/Faultbox/terrain-lod/internal/engine/camera"
	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/geometry"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// CullStats counts tile boxes per frustum classification.
type CullStats struct {
	Outside      int `json:"outside"`
	Intersecting int `json:"intersecting"`
	Inside       int `json:"inside"`
}

// Total returns the number of classified tiles.
func (s CullStats) Total() int {
	return s.Outside + s.Intersecting + s.Inside
}

// Visible returns the number of tiles that are not outside.
func (s CullStats) Visible() int {
	return s.Intersecting + s.Inside
}

func (s *CullStats) add(r geometry.Intersection) {
	switch r {
	case geometry.Outside:
		s.Outside++
	case geometry.Intersecting:
		s.Intersecting++
	case geometry.Inside:
		s.Inside++
	}
}

// VisibleTiles returns the tiles of one level whose box is not outside f.
func (m *Map) VisibleTiles(f geometry.Frustum, level int) []*formats.Tile {
	var (
		out   []*formats.Tile
		stats CullStats
	)
	for _, tile := range m.Tiles(level) {
		r := f.Intersect(*tile.BBox)
		stats.add(r)
		if r != geometry.Outside {
			out = append(out, tile)
		}
	}
	instrumentCull(stats)
	return out
}

// Classify counts the tiles of one level per classification against f.
func (m *Map) Classify(f geometry.Frustum, level int) CullStats {
	var stats CullStats
	for _, tile := range m.Tiles(level) {
		stats.add(f.Intersect(*tile.BBox))
	}
	instrumentCull(stats)
	return stats
}

// SelectLOD walks each cell from its root and returns the coarsest tiles
// whose projected error is within tolerance pixels. Tiles outside the
// frustum are dropped together with their subtrees.
func (m *Map) SelectLOD(cam *camera.Camera, tolerance float64) []*formats.Tile {
	s := lodSelector{
		frustum:   cam.Frustum(),
		cam:       cam,
		eye:       cam.Position(),
		hScale:    m.Info.HScale,
		tolerance: tolerance,
	}
	for _, cell := range m.Cells() {
		s.refine(cell, 0, 0, 0)
	}
	instrumentCull(s.stats)
	return s.out
}

type lodSelector struct {
	frustum   geometry.Frustum
	cam       *camera.Camera
	eye       vec3d.T
	hScale    float64
	tolerance float64

	stats CullStats
	out   []*formats.Tile
}

// spatial children in nw, ne, se, sw order
var childOffsets = [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

func (s *lodSelector) refine(cell *Cell, level, row, col int) {
	tile := cell.LOD.At(quadtree.NodeIndex(level, row, col))
	box := *tile.BBox

	r := s.frustum.Intersect(box)
	s.stats.add(r)
	if r == geometry.Outside {
		return
	}

	dist := box.DistanceToPoint(s.eye)
	worldError := float64(tile.Chunk.MaxError) * s.hScale
	if level == cell.Depth-1 || s.cam.ScreenError(dist, worldError) <= s.tolerance {
		s.out = append(s.out, tile)
		return
	}
	for _, off := range childOffsets {
		s.refine(cell, level+1, 2*row+off[0], 2*col+off[1])
	}
}
