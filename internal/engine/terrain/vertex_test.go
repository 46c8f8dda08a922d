package terrain

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

func TestBuildVertices(t *testing.T) {
	cell := testCell(t, 64, 2, 0, 1)
	require.NoError(t, cell.PutInMap(testParams))

	tile, err := cell.Tile(1, 1, 0)
	require.NoError(t, err)
	tile.Chunk.Vertices = []formats.HFVertex{
		{Position: [3]float32{16, 4, 48}, MorphDelta: 2},
		{Position: [3]float32{40, 0, 20}},
	}

	red := [3]float32{1, 0, 0}
	vertices, err := cell.BuildVertices(tile, red)
	require.NoError(t, err)
	require.Len(t, vertices, 2)

	require.Equal(t, Vertex{
		Position:   [3]float32{160, 12, 96},
		Color:      red,
		TexCoord:   [2]float32{0.5, 0.5},
		MorphDelta: 1,
	}, vertices[0])

	// Outside the tile footprint the texture coordinates clamp.
	require.Equal(t, [2]float32{1, 0}, vertices[1].TexCoord)
}

func TestInterlaceAlpha(t *testing.T) {
	require.Equal(t, []byte{1, 2, 3, 255, 4, 5, 6, 255}, InterlaceAlpha([]byte{1, 2, 3, 4, 5, 6, 7}))
	require.Empty(t, InterlaceAlpha(nil))
}

func TestInterlaceAlphaTree(t *testing.T) {
	tiles := make([]formats.TextureTile, quadtree.FullSize(2))
	for i := range tiles {
		tiles[i].Image = []byte{byte(i), 0, 0, byte(i), 1, 1}
	}
	lod, err := quadtree.Build(tiles, 2)
	require.NoError(t, err)
	tqt := &formats.TexturedQuadTree{LOD: lod, Depth: 2, TileSize: 1, Channels: 3}

	InterlaceAlphaTree(tqt)
	require.Equal(t, 4, tqt.Channels)
	require.Equal(t, []byte{3, 0, 0, 255, 3, 1, 1, 255}, tqt.LOD.At(3).Image)

	// A second pass leaves RGBA data alone.
	InterlaceAlphaTree(tqt)
	require.Len(t, tqt.LOD.At(3).Image, 8)
}

func TestTileImage(t *testing.T) {
	tiles := []formats.TextureTile{{Image: []byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 1, 2, 3}}}
	lod, err := quadtree.Build(tiles, 1)
	require.NoError(t, err)
	tqt := &formats.TexturedQuadTree{LOD: lod, Depth: 1, TileSize: 2, Channels: 3}

	img, err := TileImage(tqt, 0)
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())
	require.Equal(t, color.NRGBA{R: 40, G: 50, B: 60, A: 255}, img.At(1, 0))

	_, err = TileImage(tqt, 1)
	require.Error(t, err)

	tqt.Channels = 2
	_, err = TileImage(tqt, 0)
	require.Error(t, err)
}
