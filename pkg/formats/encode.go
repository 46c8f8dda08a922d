package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	gomath "math"

	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// EncodeCell writes an uncompressed cell file. chunks are in canonical flat
// order and must hold FullSize(depth) entries. Vertex coordinates are rounded
// to the 16-bit integers the format stores.
func EncodeCell(w io.Writer, cellWidth uint32, depth int, chunks []Chunk) error {
	if depth < MinDepth || depth > MaxDepth {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrDepthOutOfRange, depth, MinDepth, MaxDepth)
	}
	if len(chunks) != quadtree.FullSize(depth) {
		return fmt.Errorf("%w: got %d chunks, want %d", quadtree.ErrElementCount, len(chunks), quadtree.FullSize(depth))
	}

	var body bytes.Buffer
	offsets := make([]uint64, len(chunks))
	base := uint64(16 + 8*len(chunks))
	for i, c := range chunks {
		offsets[i] = base + uint64(body.Len())
		writeChunk(&body, c)
	}

	var head bytes.Buffer
	binary.Write(&head, binary.LittleEndian, [4]uint32{CellMagic, 0, cellWidth, uint32(depth)})
	binary.Write(&head, binary.LittleEndian, offsets)

	return writeAll(w, head.Bytes(), body.Bytes())
}

func writeChunk(buf *bytes.Buffer, c Chunk) {
	binary.Write(buf, binary.LittleEndian, c.MaxError)
	binary.Write(buf, binary.LittleEndian, uint32(len(c.Vertices)))
	binary.Write(buf, binary.LittleEndian, uint32(len(c.Indices)))
	binary.Write(buf, binary.LittleEndian, c.MinY)
	binary.Write(buf, binary.LittleEndian, c.MaxY)
	for _, v := range c.Vertices {
		binary.Write(buf, binary.LittleEndian, [4]int16{
			toInt16(v.Position[0]),
			toInt16(v.Position[1]),
			toInt16(v.Position[2]),
			toInt16(v.MorphDelta),
		})
	}
	binary.Write(buf, binary.LittleEndian, c.Indices)
}

// EncodeTQT writes a textured quadtree file. images are in canonical flat
// order, must hold FullSize(depth) entries and be tileSize pixels square.
func EncodeTQT(w io.Writer, tileSize, depth int, images []image.Image) error {
	if depth < MinDepth || depth > MaxDepth {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrDepthOutOfRange, depth, MinDepth, MaxDepth)
	}
	if len(images) != quadtree.FullSize(depth) {
		return fmt.Errorf("%w: got %d images, want %d", quadtree.ErrElementCount, len(images), quadtree.FullSize(depth))
	}

	var body bytes.Buffer
	offsets := make([]uint64, len(images))
	base := uint64(16 + 8*len(images))
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != tileSize || b.Dy() != tileSize {
			return fmt.Errorf("%w: image %d is %dx%d, want %dx%d",
				ErrTileSizeMismatch, i, b.Dx(), b.Dy(), tileSize, tileSize)
		}
		offsets[i] = base + uint64(body.Len())
		if err := png.Encode(&body, img); err != nil {
			return fmt.Errorf("encoding image %d: %w", i, err)
		}
	}

	var head bytes.Buffer
	binary.Write(&head, binary.LittleEndian, [4]uint32{TQTMagic, TQTVersion, uint32(depth), uint32(tileSize)})
	binary.Write(&head, binary.LittleEndian, offsets)

	return writeAll(w, head.Bytes(), body.Bytes())
}

func writeAll(w io.Writer, parts ...[]byte) error {
	for _, p := range parts {
		if _, err := w.Write(p); err != nil {
			return fmt.Errorf("%w: %w", ErrIOFailure, err)
		}
	}
	return nil
}

func toInt16(f float32) int16 {
	return int16(max(gomath.MinInt16, min(gomath.MaxInt16, gomath.Round(float64(f)))))
}
