package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// testChunk is the raw content of one chunk record.
type testChunk struct {
	maxError float32
	minY     int16
	maxY     int16
	vertices [][4]int16
	indices  []uint16
}

func encodeChunk(buf *bytes.Buffer, c testChunk) {
	binary.Write(buf, binary.LittleEndian, c.maxError)
	binary.Write(buf, binary.LittleEndian, uint32(len(c.vertices)))
	binary.Write(buf, binary.LittleEndian, uint32(len(c.indices)))
	binary.Write(buf, binary.LittleEndian, c.minY)
	binary.Write(buf, binary.LittleEndian, c.maxY)
	for _, v := range c.vertices {
		binary.Write(buf, binary.LittleEndian, v)
	}
	binary.Write(buf, binary.LittleEndian, c.indices)
}

// chunkFor derives a recognisable chunk from the node's canonical index.
func chunkFor(idx int) testChunk {
	return testChunk{
		maxError: float32(idx) + 0.5,
		minY:     int16(-idx),
		maxY:     int16(idx * 10),
		vertices: [][4]int16{
			{int16(idx), 1, 2, -3},
			{-1, int16(idx), 32767, -32768},
		},
		indices: []uint16{0, 1, uint16(idx), 65535},
	}
}

// createTestCell builds a cell file with one chunk per node. Chunks are
// written in reverse canonical order to exercise the offset table.
func createTestCell(size, depth uint32, compressed bool) []byte {
	n := quadtree.FullSize(int(depth))

	body := new(bytes.Buffer)
	offsets := make([]uint64, n)
	headerLen := 16 + 8*n
	for idx := n - 1; idx >= 0; idx-- {
		offsets[idx] = uint64(headerLen + body.Len())
		encodeChunk(body, chunkFor(idx))
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, CellMagic)
	flag := uint32(0)
	if compressed {
		flag = 1
	}
	binary.Write(buf, binary.LittleEndian, flag)
	binary.Write(buf, binary.LittleEndian, size)
	binary.Write(buf, binary.LittleEndian, depth)
	binary.Write(buf, binary.LittleEndian, offsets)
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func TestParseCell_ValidFile(t *testing.T) {
	data := createTestCell(256, 3, false)

	cell, err := ParseCell(bytes.NewReader(data), 256)
	if err != nil {
		t.Fatalf("ParseCell failed: %v", err)
	}

	if cell.Header.Depth != 3 || cell.Header.Size != 256 {
		t.Errorf("unexpected header %+v", cell.Header)
	}
	if cell.TileCount() != 21 {
		t.Errorf("expected 21 tiles, got %d", cell.TileCount())
	}
	if cell.VertexCount() != 42 {
		t.Errorf("expected 42 vertices, got %d", cell.VertexCount())
	}

	for level := 0; level < 3; level++ {
		n := 1 << level
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				idx := quadtree.NodeIndex(level, row, col)
				tile := cell.LOD.At(idx)
				if tile.Level != level || tile.Row != row || tile.Col != col {
					t.Errorf("node %d: expected (%d,%d,%d), got (%d,%d,%d)",
						idx, level, row, col, tile.Level, tile.Row, tile.Col)
				}
				if tile.IsPlaced() {
					t.Errorf("node %d: freshly decoded tile must not be placed", idx)
				}

				want := chunkFor(idx)
				got := tile.Chunk
				if got.MaxError != want.maxError || got.MinY != want.minY || got.MaxY != want.maxY {
					t.Errorf("node %d: header mismatch: %+v", idx, got)
				}
				if len(got.Vertices) != 2 || len(got.Indices) != 4 {
					t.Fatalf("node %d: expected 2 vertices and 4 indices", idx)
				}
				v := got.Vertices[1]
				if v.Position != [3]float32{-1, float32(idx), 32767} || v.MorphDelta != -32768 {
					t.Errorf("node %d: vertex mismatch: %+v", idx, v)
				}
				if got.Indices[2] != uint16(idx) || got.Indices[3] != 65535 {
					t.Errorf("node %d: index mismatch: %v", idx, got.Indices)
				}
			}
		}
	}
}

func TestParseCell_ChunkRoundTripBitExact(t *testing.T) {
	data := createTestCell(64, 1, false)
	binary.LittleEndian.PutUint32(data[16+8:], math.Float32bits(1.0e-3))

	cell, err := ParseCell(bytes.NewReader(data), 64)
	if err != nil {
		t.Fatalf("ParseCell failed: %v", err)
	}
	if got := cell.LOD.Root().Chunk.MaxError; math.Float32bits(got) != math.Float32bits(1.0e-3) {
		t.Errorf("max error not bit exact: %v", got)
	}
}

func TestParseCell_HeaderValidation(t *testing.T) {
	valid := createTestCell(256, 2, false)

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "XXXX")

	badDepthZero := createTestCell(256, 2, false)
	binary.LittleEndian.PutUint32(badDepthZero[12:], 0)

	badDepthTen := createTestCell(256, 2, false)
	binary.LittleEndian.PutUint32(badDepthTen[12:], 10)

	tests := []struct {
		name      string
		data      []byte
		cellWidth uint32
		want      error
	}{
		{"wrong magic", badMagic, 256, ErrInvalidFormat},
		{"compressed", createTestCell(256, 2, true), 256, ErrUnsupportedFeature},
		{"size mismatch", valid, 128, ErrSizeMismatch},
		{"depth zero", badDepthZero, 256, ErrDepthOutOfRange},
		{"depth ten", badDepthTen, 256, ErrDepthOutOfRange},
		// Compressed and wrong size: the compressed check comes first.
		{"validation order", createTestCell(256, 2, true), 128, ErrUnsupportedFeature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCell(bytes.NewReader(tc.data), tc.cellWidth)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseCell_InvalidMagicStopsReading(t *testing.T) {
	// Only the magic number is present; anything past it would be a truncated read.
	r := bytes.NewReader([]byte("XXXX"))
	_, err := ParseCell(r, 256)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected only the magic to be consumed")
	}
}

func TestParseCell_Truncated(t *testing.T) {
	valid := createTestCell(256, 2, false)

	for _, cut := range []int{0, 3, 10, 16, 20, len(valid) - 1} {
		_, err := ParseCell(bytes.NewReader(valid[:cut]), 256)
		if !errors.Is(err, ErrTruncatedRead) {
			t.Errorf("cut at %d: expected ErrTruncatedRead, got %v", cut, err)
		}
	}
}

func TestParseCell_OffsetPastEnd(t *testing.T) {
	data := createTestCell(256, 1, false)
	binary.LittleEndian.PutUint64(data[16:], uint64(len(data)+100))

	_, err := ParseCell(bytes.NewReader(data), 256)
	if !errors.Is(err, ErrTruncatedRead) {
		t.Errorf("expected ErrTruncatedRead, got %v", err)
	}
}

func TestParseCellFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hf.cell")
	if err := os.WriteFile(path, createTestCell(32, 2, false), 0644); err != nil {
		t.Fatalf("failed to write cell: %v", err)
	}

	cell, err := ParseCellFile(path, 32)
	if err != nil {
		t.Fatalf("ParseCellFile failed: %v", err)
	}
	if cell.LOD.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", cell.LOD.Depth())
	}

	_, err = ParseCellFile(filepath.Join(t.TempDir(), "missing.cell"), 32)
	if !errors.Is(err, ErrIOFailure) {
		t.Errorf("expected ErrIOFailure, got %v", err)
	}
}
