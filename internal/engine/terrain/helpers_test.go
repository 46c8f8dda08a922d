package terrain

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// levelErrors gives every tile of a level the same max error.
var levelErrors = []float32{100, 10, 1, 0.1}

// testChunks returns one chunk per node in canonical order. Every chunk spans
// elevation [0, 10] and has a single vertex at the centre of its tile.
func testChunks(cellWidth uint32, depth int) []formats.Chunk {
	chunks := make([]formats.Chunk, quadtree.FullSize(depth))
	for i := range chunks {
		level, row, col := quadtree.GridPosition(i)
		w := float32(cellWidth >> uint(level))
		chunks[i] = formats.Chunk{
			MaxError: levelErrors[level],
			MinY:     0,
			MaxY:     10,
			Vertices: []formats.HFVertex{{
				Position:   [3]float32{float32(col)*w + w/2, 5, float32(row)*w + w/2},
				MorphDelta: 1,
			}},
			Indices: []uint16{0, 0, 0},
		}
	}
	return chunks
}

// testCell builds an unplaced cell without touching the disk.
func testCell(t *testing.T, cellWidth uint32, depth, row, col int) *Cell {
	t.Helper()
	chunks := testChunks(cellWidth, depth)
	tiles := make([]formats.Tile, len(chunks))
	for i, c := range chunks {
		level, r, cl := quadtree.GridPosition(i)
		tiles[i] = formats.Tile{Chunk: c, Row: r, Col: cl, Level: level}
	}
	lod, err := quadtree.Build(tiles, depth)
	require.NoError(t, err)
	return NewCell(&formats.CellData{
		Header: formats.CellHeader{Magic: formats.CellMagic, Size: cellWidth, Depth: uint32(depth)},
		LOD:    lod,
	}, row, col)
}

func testTQT(t *testing.T, tileSize, depth int, red uint8) []byte {
	t.Helper()
	images := make([]image.Image, quadtree.FullSize(depth))
	for i := range images {
		img := image.NewNRGBA(image.Rect(0, 0, tileSize, tileSize))
		for y := 0; y < tileSize; y++ {
			for x := 0; x < tileSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: red, G: uint8(i), B: 7, A: 255})
			}
		}
		images[i] = img
	}
	buf := new(bytes.Buffer)
	require.NoError(t, formats.EncodeTQT(buf, tileSize, depth, images))
	return buf.Bytes()
}

func testInfo(rows, cols int, cellSize uint32) MapInfo {
	info := MapInfo{
		Name:          "test-map",
		HScale:        1,
		VScale:        1,
		BaseElevation: 0,
		Width:         uint32(cols) * cellSize,
		Height:        uint32(rows) * cellSize,
		CellSize:      cellSize,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			info.Grid = append(info.Grid, filepath.Join("cells", string(rune('a'+r)), string(rune('a'+c))))
		}
	}
	return info
}

// writeTestMap lays out map.json and every cell directory under a temp dir.
func writeTestMap(t *testing.T, info MapInfo, depth int) string {
	t.Helper()
	dir := t.TempDir()

	data, err := jsonMarshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, MapInfoFile), data, 0644))

	for i, name := range info.Grid {
		cellDir := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(cellDir, 0755))

		buf := new(bytes.Buffer)
		require.NoError(t, formats.EncodeCell(buf, info.CellSize, depth, testChunks(info.CellSize, depth)))
		require.NoError(t, os.WriteFile(filepath.Join(cellDir, HeightCellFile), buf.Bytes(), 0644))

		if info.HasColor {
			require.NoError(t, os.WriteFile(filepath.Join(cellDir, ColorTQTFile), testTQT(t, 4, 2, uint8(i)), 0644))
		}
		if info.HasNormals {
			require.NoError(t, os.WriteFile(filepath.Join(cellDir, NormalTQTFile), testTQT(t, 4, 1, 128), 0644))
		}
	}
	return dir
}

func jsonMarshal(info MapInfo) ([]byte, error) {
	return json.Marshal(info)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
