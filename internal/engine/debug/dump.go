package debug

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Faultbox/terrain-lod/internal/engine/terrain"
	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/quadtree"
)

// TextureDumper writes texture quadtree tiles out as PNG files.
type TextureDumper struct {
	outputDir string
	prefix    string
}

// NewTextureDumper creates a dumper writing <prefix>_L<level>_<row>_<col>.png
// files into outputDir.
func NewTextureDumper(outputDir, prefix string) *TextureDumper {
	return &TextureDumper{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// Filename returns the path a node's image is written to.
func (d *TextureDumper) Filename(index int) string {
	level, row, col := quadtree.GridPosition(index)
	return filepath.Join(d.outputDir, fmt.Sprintf("%s_L%d_%d_%d.png", d.prefix, level, row, col))
}

// DumpLevel writes every tile of one level and returns the written paths.
func (d *TextureDumper) DumpLevel(tqt *formats.TexturedQuadTree, level int) ([]string, error) {
	if level < 0 || level >= tqt.Depth {
		return nil, fmt.Errorf("%w: level %d of %d", quadtree.ErrLevelOutOfRange, level, tqt.Depth)
	}
	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	first := quadtree.FullSize(level)
	last := quadtree.FullSize(level + 1)
	paths := make([]string, 0, last-first)
	for index := first; index < last; index++ {
		path, err := d.dump(tqt, index)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (d *TextureDumper) dump(tqt *formats.TexturedQuadTree, index int) (string, error) {
	img, err := terrain.TileImage(tqt, index)
	if err != nil {
		return "", err
	}

	filename := d.Filename(index)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
