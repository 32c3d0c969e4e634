// Package server exposes the stream-channel datasets, the profile charts,
// the nearest-transect locator, and the basemap tile proxy over HTTP.
package server

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/craigdsouza/stream-visualizer/internal/config"
	"github.com/craigdsouza/stream-visualizer/internal/locate"
	"github.com/craigdsouza/stream-visualizer/internal/model"
	"github.com/craigdsouza/stream-visualizer/internal/profile"
	"github.com/craigdsouza/stream-visualizer/internal/store"
	"github.com/craigdsouza/stream-visualizer/web"
)

// Server wires the dataset store, chart renderers, and tile proxies into an
// HTTP handler.
type Server struct {
	store     store.Store
	basemap   *TileProxy
	satellite *TileProxy
	cache     *TileCache

	lateralCfg      profile.ChartConfig
	longitudinalCfg profile.ChartConfig
}

// New builds a Server. The satellite layer uses the token-gated provider
// when a token is configured and falls back to the public imagery source
// otherwise.
func New(st store.Store, tiles config.TilesConfig) *Server {
	cache := NewTileCache(tiles.CacheEntries, time.Duration(tiles.CacheTTLMins)*time.Minute)

	satelliteURL := tiles.SatelliteFallbackURL
	if tiles.SatelliteToken != "" {
		satelliteURL = strings.ReplaceAll(tiles.SatelliteURL, "{token}", tiles.SatelliteToken)
	} else {
		zap.L().Info("tiles: no satellite token configured, using public imagery fallback")
	}

	return &Server{
		store:           st,
		basemap:         NewTileProxy("basemap", tiles.BaseURL, cache, tiles.UpstreamRPS),
		satellite:       NewTileProxy("satellite", satelliteURL, cache, tiles.UpstreamRPS),
		cache:           cache,
		lateralCfg:      profile.DefaultLateralConfig(),
		longitudinalCfg: profile.DefaultLongitudinalConfig(),
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/transect-elevations", s.handleTransectElevations)
		r.Get("/stream-elevations", s.handleStreamElevations)
		r.Get("/transects.geojson", s.handleTransectGeoJSON)
		r.Get("/locate", s.handleLocate)
		r.Get("/charts/lateral/{transectID}.svg", s.handleLateralChart)
		r.Get("/charts/longitudinal.svg", s.handleLongitudinalChart)
	})

	r.Route("/tiles", func(r chi.Router) {
		r.Get("/base/{z}/{x}/{y}", s.basemap.Handler())
		r.Get("/satellite/{z}/{x}/{y}", s.satellite.Handler())
		r.Get("/stats", s.handleTileStats)
	})

	static, err := fs.Sub(web.Assets, "static")
	if err == nil {
		r.Handle("/*", http.FileServer(http.FS(static)))
	}

	return r
}

// handleTransectElevations returns every transect point, optionally
// filtered by transect_id. An unmatched id yields an empty array, not an
// error.
func (s *Server) handleTransectElevations(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.TransectPoints(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	if raw := r.URL.Query().Get("transect_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		points = model.FilterPoints(points, id)
	}
	if points == nil {
		points = []model.TransectPoint{}
	}
	respondData(w, points)
}

func (s *Server) handleStreamElevations(w http.ResponseWriter, r *http.Request) {
	vertices, err := s.store.StreamVertices(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if vertices == nil {
		vertices = []model.StreamVertex{}
	}
	respondData(w, vertices)
}

func (s *Server) handleTransectGeoJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.TransectGeoJSON(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

// handleLocate answers nearest-transect queries from map mousemove events.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng query parameters are required"})
		return
	}

	features, err := s.store.TransectFeatures(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	match, ok := locate.Nearest(lat, lng, features)
	if !ok {
		respondData(w, nil)
		return
	}
	respondData(w, match)
}

func (s *Server) handleLateralChart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "transectID"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transect id"})
		return
	}

	points, err := s.store.TransectPoints(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	svg, err := profile.RenderLateral(model.FilterPoints(points, id), activeParam(r), s.lateralCfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleLongitudinalChart(w http.ResponseWriter, r *http.Request) {
	vertices, err := s.store.StreamVertices(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	svg, err := profile.RenderLongitudinal(model.SortVertices(vertices), activeParam(r), s.longitudinalCfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleTileStats(w http.ResponseWriter, _ *http.Request) {
	respondData(w, s.cache.Stats())
}

// activeParam reads the optional ?active= highlight identifier; -1 means no
// highlight.
func activeParam(r *http.Request) int {
	raw := r.URL.Query().Get("active")
	if raw == "" {
		return -1
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return id
}

// respondData writes the {"data": ...} envelope.
func respondData(w http.ResponseWriter, v any) {
	respondJSON(w, http.StatusOK, map[string]any{"data": v})
}

// respondError writes the {"error": msg} envelope. File-read and parse
// failures surface here as a 500 with a human-readable message; there is no
// retry and no transient/permanent distinction.
func respondError(w http.ResponseWriter, status int, err error) {
	zap.L().Error("request failed", zap.Int("status", status), zap.Error(err))
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The status line is already written; the most we can do is log.
		zap.L().Error("response encode failed", zap.Error(err))
	}
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
