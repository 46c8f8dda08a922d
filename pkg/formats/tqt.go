package formats

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// Textured quadtree format constants.
const (
	TQTMagic   uint32 = 0x00545154 // "TQT\0"
	TQTVersion uint32 = 1
)

// TQTHeader is the fixed header at the start of a .tqt file.
type TQTHeader struct {
	Magic    uint32
	Version  uint32
	Depth    uint32
	TileSize uint32 // Width and height of every tile image in pixels
}

// TextureTile holds the decoded pixels of one quadtree node, packed row by
// row with Channels bytes per pixel.
type TextureTile struct {
	Image []byte
}

// TexturedQuadTree is a decoded .tqt file.
type TexturedQuadTree struct {
	LOD      *quadtree.Tree[TextureTile]
	Depth    int
	TileSize int
	Channels int // 3 after decoding; 4 once an alpha channel is interlaced
}

// ParseTQT decodes a textured quadtree from r.
func ParseTQT(r io.ReadSeeker) (*TexturedQuadTree, error) {
	header, err := readTQTHeader(r)
	if err != nil {
		return nil, err
	}

	depth := int(header.Depth)
	offsets, err := ReadValues[uint64](r, quadtree.FullSize(depth))
	if err != nil {
		return nil, fmt.Errorf("reading offset table: %w", err)
	}

	tileSize := int(header.TileSize)
	tiles := make([]TextureTile, 0, len(offsets))
	for level := 0; level < depth; level++ {
		n := 1 << uint(level)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				idx := quadtree.NodeIndex(level, row, col)
				tile, err := readTextureTile(r, offsets[idx], tileSize)
				if err != nil {
					return nil, fmt.Errorf("parsing texture tile %d (level %d, row %d, col %d): %w", idx, level, row, col, err)
				}
				tiles = append(tiles, tile)
			}
		}
	}

	lod, err := quadtree.Build(tiles, depth)
	if err != nil {
		return nil, fmt.Errorf("building texture tree: %w", err)
	}

	return &TexturedQuadTree{
		LOD:      lod,
		Depth:    depth,
		TileSize: tileSize,
		Channels: 3,
	}, nil
}

// ParseTQTFile decodes a textured quadtree file from disk.
func ParseTQTFile(path string) (*TexturedQuadTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading tqt file: %w", ErrIOFailure, err)
	}
	return ParseTQT(bytes.NewReader(data))
}

func readTQTHeader(r io.Reader) (TQTHeader, error) {
	var h TQTHeader
	var err error

	if h.Magic, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if h.Magic != TQTMagic {
		return h, fmt.Errorf("%w: tqt magic 0x%08x", ErrInvalidFormat, h.Magic)
	}

	if h.Version, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading version: %w", err)
	}
	if h.Version != TQTVersion {
		return h, fmt.Errorf("%w: tqt version %d", ErrUnsupportedVersion, h.Version)
	}

	if h.Depth, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading depth: %w", err)
	}
	if h.Depth < MinDepth || h.Depth > MaxDepth {
		return h, fmt.Errorf("%w: %d not in [%d, %d]", ErrDepthOutOfRange, h.Depth, MinDepth, MaxDepth)
	}

	if h.TileSize, err = ReadValue[uint32](r); err != nil {
		return h, fmt.Errorf("reading tile size: %w", err)
	}
	return h, nil
}

func readTextureTile(r io.ReadSeeker, offset uint64, tileSize int) (TextureTile, error) {
	if err := seekTo(r, offset); err != nil {
		return TextureTile{}, err
	}

	// Check the declared size before allocating pixels.
	cfg, err := png.DecodeConfig(r)
	if err != nil {
		return TextureTile{}, fmt.Errorf("%w: decoding png header: %w", ErrInvalidFormat, err)
	}
	if cfg.Width != tileSize || cfg.Height != tileSize {
		return TextureTile{}, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrTileSizeMismatch, cfg.Width, cfg.Height, tileSize, tileSize)
	}

	if err := seekTo(r, offset); err != nil {
		return TextureTile{}, err
	}
	img, err := png.Decode(r)
	if err != nil {
		return TextureTile{}, fmt.Errorf("%w: decoding png: %w", ErrInvalidFormat, err)
	}

	return TextureTile{Image: packRGB(img)}, nil
}

// packRGB converts any decoded image into tightly packed 8-bit RGB.
func packRGB(img image.Image) []byte {
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, xdraw.Src)

	out := make([]byte, 0, bounds.Dx()*bounds.Dy()*3)
	for y := 0; y < nrgba.Rect.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+nrgba.Rect.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			out = append(out, row[x], row[x+1], row[x+2])
		}
	}
	return out
}
