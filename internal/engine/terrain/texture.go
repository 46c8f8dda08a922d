package terrain

import (
	"fmt"
	"image"

	"github.com/Faultbox/terrain-lod/pkg/formats"
)

// InterlaceAlpha widens packed RGB pixels to RGBA with an opaque alpha channel.
// A trailing partial pixel is dropped.
func InterlaceAlpha(rgb []byte) []byte {
	n := len(rgb) / 3
	out := make([]byte, 0, n*4)
	for i := range n {
		out = append(out, rgb[3*i], rgb[3*i+1], rgb[3*i+2], 0xff)
	}
	return out
}

// InterlaceAlphaTree widens every tile of an RGB texture tree to RGBA.
func InterlaceAlphaTree(tqt *formats.TexturedQuadTree) {
	if tqt.Channels == 4 {
		return
	}
	for _, tile := range tqt.LOD.MutView() {
		tile.Image = InterlaceAlpha(tile.Image)
	}
	tqt.Channels = 4
}

// TileImage returns the texture of one quadtree node as an image.
func TileImage(tqt *formats.TexturedQuadTree, index int) (image.Image, error) {
	if index < 0 || index >= tqt.LOD.Len() {
		return nil, fmt.Errorf("texture tile %d out of range [0, %d)", index, tqt.LOD.Len())
	}
	pix := tqt.LOD.At(index).Image
	size := tqt.TileSize
	rect := image.Rect(0, 0, size, size)

	switch tqt.Channels {
	case 4:
		return &image.NRGBA{Pix: pix, Stride: 4 * size, Rect: rect}, nil
	case 3:
		return &image.NRGBA{Pix: InterlaceAlpha(pix), Stride: 4 * size, Rect: rect}, nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d", tqt.Channels)
	}
}
