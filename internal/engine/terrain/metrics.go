package terrain

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Faultbox/terrain-lod/pkg/formats"
	"github.com/Faultbox/terrain-lod/pkg/geometry"
)

const (
	errTypeLabel = "error_type"
	formatLabel  = "format"
	resultLabel  = "result"
)

var (
	cellsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrain_cells_loaded",
		Help: "The number of cells loaded and placed into a map.",
	})

	tilesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_tiles_decoded",
		Help: "The number of quadtree tiles decoded per file format.",
	}, []string{
		formatLabel,
	})

	loadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_load_errors",
		Help: "The errors that occurred while loading a map.",
	}, []string{
		formatLabel,
		errTypeLabel,
	})

	mapLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "terrain_map_load_latency",
		Help: "The time to load and place a whole map.",
	})

	cullResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_cull_results",
		Help: "Tile boxes classified against a view frustum.",
	}, []string{
		resultLabel,
	})
)

func instrumentTilesDecoded(format string, n int) {
	tilesDecoded.With(prometheus.Labels{
		formatLabel: format,
	}).Add(float64(n))
}

func instrumentLoadError(format string, err error) {
	loadErrors.
		With(prometheus.Labels{
			formatLabel:  format,
			errTypeLabel: formats.ErrorType(err),
		}).
		Inc()
}

func instrumentMapLoad(start time.Time, cells int) {
	mapLoadLatency.Observe(time.Since(start).Seconds())
	cellsLoaded.Add(float64(cells))
}

func instrumentCull(stats CullStats) {
	for result, n := range map[geometry.Intersection]int{
		geometry.Outside:      stats.Outside,
		geometry.Intersecting: stats.Intersecting,
		geometry.Inside:       stats.Inside,
	} {
		if n == 0 {
			continue
		}
		cullResults.With(prometheus.Labels{
			resultLabel: result.String(),
		}).Add(float64(n))
	}
}
