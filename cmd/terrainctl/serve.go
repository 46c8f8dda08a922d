package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-lod/internal/config"
	"github.com/Faultbox/terrain-lod/internal/engine/camera"
	"github.com/Faultbox/terrain-lod/internal/engine/terrain"
	"github.com/Faultbox/terrain-lod/internal/logger"
)

// statsResponse is the /stats payload.
type statsResponse struct {
	Level     int               `json:"level"`
	Culling   terrain.CullStats `json:"culling"`
	Tolerance float64           `json:"tolerance"`
	Selected  map[string]int    `json:"selected"`
	Position  [3]float64        `json:"position"`
	Target    [3]float64        `json:"target"`
}

func cmdServe(cfg *config.Config, args []string) {
	m := loadMap(cfg, args)
	log := logger.Named("serve")

	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/stats", handleStats(m, cfg))

	srv := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           &mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutting down the server failed", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", srv.Addr), zap.String("map", m.Info.Name))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("server stopped", err)
	}
	log.Info("stopping server", zap.String("addr", srv.Addr))
}

// handleStats classifies and selects tiles for the configured camera. The
// level and tolerance query parameters override the config per request.
func handleStats(m *terrain.Map, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := cfg.Culling.Level
		tolerance := cfg.Culling.Tolerance
		if v := r.URL.Query().Get("level"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "invalid level", http.StatusBadRequest)
				return
			}
			level = n
		}
		if v := r.URL.Query().Get("tolerance"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				http.Error(w, "invalid tolerance", http.StatusBadRequest)
				return
			}
			tolerance = f
		}

		cam, err := camera.New(cfg.Camera)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := statsResponse{
			Level:     level,
			Culling:   m.Classify(cam.Frustum(), level),
			Tolerance: tolerance,
			Selected:  make(map[string]int),
			Position:  cfg.Camera.Position,
			Target:    cfg.Camera.Target,
		}
		for _, t := range m.SelectLOD(cam, tolerance) {
			resp.Selected["L"+strconv.Itoa(t.Level)]++
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Named("serve").Warn("writing stats failed", zap.Error(err))
		}
	}
}
