package terrain

import (
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"time"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-lod/internal/logger"
	"github.com/Faultbox/terrain-lod/pkg/formats"
)

// File names inside a map directory.
const (
	MapInfoFile    = "map.json"
	HeightCellFile = "hf.cell"
	ColorTQTFile   = "color.tqt"
	NormalTQTFile  = "norm.tqt"
)

// ErrInvalidMapInfo is returned when map.json is malformed or inconsistent.
var ErrInvalidMapInfo = errors.New("invalid map info")

// MapInfo is the content of a map's map.json.
type MapInfo struct {
	Name          string     `json:"name"`
	HScale        float64    `json:"h-scale"`
	VScale        float64    `json:"v-scale"`
	BaseElevation float64    `json:"base-elev"`
	MinElevation  float64    `json:"min-elev"`
	MaxElevation  float64    `json:"max-elev"`
	MinSky        float64    `json:"min-sky"`
	MaxSky        float64    `json:"max-sky"`
	Width         uint32     `json:"width"`
	Height        uint32     `json:"height"`
	CellSize      uint32     `json:"cell-size"`
	HasColor      bool       `json:"color-map"`
	HasNormals    bool       `json:"normal-map"`
	HasWater      bool       `json:"water-map"`
	SunDirection  [3]float32 `json:"sun-dir"`
	SunIntensity  [3]float32 `json:"sun-intensity"`
	Ambient       [3]float32 `json:"ambient"`
	Grid          []string   `json:"grid"` // Cell directory names, row-major

	HasFog     bool       `json:"has-fog,omitempty"`
	FogColor   [3]float32 `json:"fog-color,omitempty"`
	FogDensity float32    `json:"fog-density,omitempty"`
}

// ReadMapInfo reads and validates a map.json file.
func ReadMapInfo(path string) (*MapInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading map info: %w", formats.ErrIOFailure, err)
	}

	var info MapInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapInfo, err)
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return &info, nil
}

// Validate checks that the grid dimensions are consistent.
func (i *MapInfo) Validate() error {
	switch {
	case i.CellSize == 0:
		return fmt.Errorf("%w: cell-size is zero", ErrInvalidMapInfo)
	case i.HScale <= 0:
		return fmt.Errorf("%w: h-scale %v must be positive", ErrInvalidMapInfo, i.HScale)
	case i.Width%i.CellSize != 0 || i.Height%i.CellSize != 0:
		return fmt.Errorf("%w: %dx%d is not a multiple of cell-size %d",
			ErrInvalidMapInfo, i.Width, i.Height, i.CellSize)
	case len(i.Grid) != i.Rows()*i.Cols():
		return fmt.Errorf("%w: grid has %d cells, want %d",
			ErrInvalidMapInfo, len(i.Grid), i.Rows()*i.Cols())
	}
	return nil
}

// Rows returns the number of cell rows (north to south).
func (i *MapInfo) Rows() int {
	return int(i.Height / i.CellSize)
}

// Cols returns the number of cell columns (west to east).
func (i *MapInfo) Cols() int {
	return int(i.Width / i.CellSize)
}

// Params returns the values cells need for placement.
func (i *MapInfo) Params() MapParams {
	return MapParams{
		CellWidth:     i.CellSize,
		HScale:        i.HScale,
		VScale:        i.VScale,
		BaseElevation: i.BaseElevation,
	}
}

// Map is a grid of placed cells.
type Map struct {
	Info  MapInfo
	Dir   string
	cells [][]*Cell
}

// LoadMap reads map.json from dir, decodes every cell and places it. Any
// decode failure aborts the whole load.
func LoadMap(dir string) (*Map, error) {
	start := time.Now()
	log := logger.Named("terrain")

	info, err := ReadMapInfo(filepath.Join(dir, MapInfoFile))
	if err != nil {
		instrumentLoadError("map", err)
		return nil, err
	}

	m := &Map{
		Info:  *info,
		Dir:   dir,
		cells: make([][]*Cell, info.Rows()),
	}
	for row := range info.Rows() {
		m.cells[row] = make([]*Cell, info.Cols())
		for col := range info.Cols() {
			name := info.Grid[row*info.Cols()+col]
			cell, err := loadCell(filepath.Join(dir, name), row, col, info)
			if err != nil {
				return nil, fmt.Errorf("loading cell %q (%d, %d): %w", name, row, col, err)
			}
			log.Debug("cell loaded",
				zap.String("cell", name),
				zap.Int("row", row),
				zap.Int("col", col),
				zap.Int("depth", cell.Depth),
				zap.Bool("color", cell.Color != nil),
				zap.Bool("normal", cell.Normal != nil))
			m.cells[row][col] = cell
		}
	}

	params := info.Params()
	for _, cell := range m.Cells() {
		if err := cell.PutInMap(params); err != nil {
			return nil, err
		}
	}

	instrumentMapLoad(start, info.Rows()*info.Cols())
	log.Info("map loaded",
		zap.String("name", info.Name),
		zap.Int("rows", info.Rows()),
		zap.Int("cols", info.Cols()),
		zap.Duration("elapsed", time.Since(start)))

	return m, nil
}

func loadCell(dir string, row, col int, info *MapInfo) (*Cell, error) {
	data, err := formats.ParseCellFile(filepath.Join(dir, HeightCellFile), info.CellSize)
	if err != nil {
		instrumentLoadError("cell", err)
		return nil, err
	}
	instrumentTilesDecoded("cell", data.TileCount())
	cell := NewCell(data, row, col)

	if info.HasColor {
		tqt, err := loadTQT(filepath.Join(dir, ColorTQTFile))
		if err != nil {
			return nil, err
		}
		InterlaceAlphaTree(tqt)
		cell.Color = tqt
	}
	if info.HasNormals {
		tqt, err := loadTQT(filepath.Join(dir, NormalTQTFile))
		if err != nil {
			return nil, err
		}
		cell.Normal = tqt
	}
	return cell, nil
}

func loadTQT(path string) (*formats.TexturedQuadTree, error) {
	tqt, err := formats.ParseTQTFile(path)
	if err != nil {
		instrumentLoadError("tqt", err)
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	instrumentTilesDecoded("tqt", tqt.LOD.Len())
	return tqt, nil
}

// Rows returns the number of cell rows.
func (m *Map) Rows() int {
	return len(m.cells)
}

// Cols returns the number of cell columns.
func (m *Map) Cols() int {
	if len(m.cells) == 0 {
		return 0
	}
	return len(m.cells[0])
}

// Cell returns the cell at grid position (row, col), or nil if out of range.
func (m *Map) Cell(row, col int) *Cell {
	if row < 0 || row >= m.Rows() || col < 0 || col >= m.Cols() {
		return nil
	}
	return m.cells[row][col]
}

// Cells returns every cell in row-major order.
func (m *Map) Cells() []*Cell {
	out := make([]*Cell, 0, m.Rows()*m.Cols())
	for _, row := range m.cells {
		out = append(out, row...)
	}
	return out
}

// WorldCellWidth returns the width of one cell in world units.
func (m *Map) WorldCellWidth() float64 {
	return m.Info.Params().WorldCellWidth()
}

// North returns the world z of the northern edge.
func (m *Map) North() float64 { return 0 }

// South returns the world z of the southern edge.
func (m *Map) South() float64 { return float64(m.Info.Height) * m.Info.HScale }

// West returns the world x of the western edge.
func (m *Map) West() float64 { return 0 }

// East returns the world x of the eastern edge.
func (m *Map) East() float64 { return float64(m.Info.Width) * m.Info.HScale }

// Scale returns the per-axis scale from grid units to world units.
func (m *Map) Scale() vec3d.T {
	return vec3d.T{m.Info.HScale, m.Info.VScale, m.Info.HScale}
}

// CellAt returns the cell covering world position (x, z), or nil outside the map.
func (m *Map) CellAt(x, z float64) *Cell {
	if x < m.West() || z < m.North() || x >= m.East() || z >= m.South() {
		return nil
	}
	w := m.WorldCellWidth()
	return m.Cell(int(gomath.Floor(z/w)), int(gomath.Floor(x/w)))
}

// Tiles returns every tile of the given level across the map, cell by cell.
func (m *Map) Tiles(level int) []*formats.Tile {
	var out []*formats.Tile
	for _, cell := range m.Cells() {
		if level < 0 || level >= cell.Depth {
			continue
		}
		n := 1 << uint(level)
		for row := range n {
			for col := range n {
				tile, _ := cell.Tile(level, row, col)
				out = append(out, tile)
			}
		}
	}
	return out
}
