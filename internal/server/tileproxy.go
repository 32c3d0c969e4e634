package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TileProxy fetches raster tiles from an upstream tile server, caching them
// and rate-limiting upstream requests. URL templates carry {z}, {x}, {y}
// placeholders so providers with different axis orders (OSM z/x/y, ArcGIS
// z/y/x) configure the same way.
type TileProxy struct {
	layer       string
	urlTemplate string
	client      *http.Client
	cache       *TileCache
	limiter     *rate.Limiter
}

// NewTileProxy creates a tile proxy for one layer. rps caps upstream
// requests per second; zero disables the limit.
func NewTileProxy(layer, urlTemplate string, cache *TileCache, rps float64) *TileProxy {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &TileProxy{
		layer:       layer,
		urlTemplate: urlTemplate,
		client:      &http.Client{Timeout: 30 * time.Second},
		cache:       cache,
		limiter:     limiter,
	}
}

// ExpandTileURL substitutes {z}, {x}, {y} in a tile URL template.
func ExpandTileURL(template string, z, x, y int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(template)
}

// Fetch retrieves one tile from the cache or the upstream server.
func (p *TileProxy) Fetch(ctx context.Context, z, x, y int) ([]byte, string, error) {
	if p.cache != nil {
		if data, ct := p.cache.Get(p.layer, z, x, y); data != nil {
			return data, ct, nil
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, "", eris.Wrap(err, "tiles: rate limit wait")
		}
	}

	url := ExpandTileURL(p.urlTemplate, z, x, y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "tiles: create request")
	}
	req.Header.Set("User-Agent", "stream-visualizer/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", eris.Wrap(err, "tiles: fetch upstream")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", eris.Errorf("tiles: upstream returned %d for %s/%d/%d/%d", resp.StatusCode, p.layer, z, x, y)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", eris.Wrap(err, "tiles: read body")
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	if p.cache != nil {
		p.cache.Put(p.layer, z, x, y, data, ct)
	}

	zap.L().Debug("tiles: fetched upstream tile",
		zap.String("layer", p.layer),
		zap.Int("z", z), zap.Int("x", x), zap.Int("y", y),
		zap.Int("bytes", len(data)),
	)
	return data, ct, nil
}

// Handler serves /{z}/{x}/{y} tile requests for this layer.
func (p *TileProxy) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, errZ := strconv.Atoi(chi.URLParam(r, "z"))
		x, errX := strconv.Atoi(chi.URLParam(r, "x"))
		y, errY := strconv.Atoi(strings.TrimSuffix(chi.URLParam(r, "y"), ".png"))
		if errZ != nil || errX != nil || errY != nil {
			http.Error(w, "invalid tile coordinates", http.StatusBadRequest)
			return
		}

		data, ct, err := p.Fetch(r.Context(), z, x, y)
		if err != nil {
			zap.L().Error("tiles: fetch failed", zap.String("layer", p.layer), zap.Error(err))
			http.Error(w, "upstream fetch failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(data)
	}
}
