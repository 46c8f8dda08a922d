// Package debug provides debug visualization utilities for terrain tiles.
package debug

import (
	"github.com/Faultbox/terrain-lod/pkg/geometry"
)

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
// minX, minY, minZ, maxX, maxY, maxZ define the box corners in world space.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoxWireframe creates wireframe vertices for a world-space box grown by
// padding on every side. An empty box yields no vertices.
func BoxWireframe(box geometry.AABB, padding float64) []float32 {
	if box.IsEmpty() {
		return nil
	}
	return GenerateBBoxWireframeVertices(
		float32(box.Min[0]-padding), float32(box.Min[1]-padding), float32(box.Min[2]-padding),
		float32(box.Max[0]+padding), float32(box.Max[1]+padding), float32(box.Max[2]+padding),
	)
}

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding keeps tile outlines from z-fighting with the surface.
const DefaultBBoxPadding = 0.5
