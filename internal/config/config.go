// Package config loads application configuration from an optional YAML file
// and STREAMVIZ_-prefixed environment variables, and initializes the global
// zap logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Tiles  TilesConfig  `yaml:"tiles" mapstructure:"tiles"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// DataConfig locates the flat data assets.
type DataConfig struct {
	Dir              string `yaml:"dir" mapstructure:"dir"`
	TransectPoints   string `yaml:"transect_points" mapstructure:"transect_points"`
	StreamVertices   string `yaml:"stream_vertices" mapstructure:"stream_vertices"`
	TransectsGeoJSON string `yaml:"transects_geojson" mapstructure:"transects_geojson"`
}

// StoreConfig selects the dataset backend.
type StoreConfig struct {
	// Driver is "files" (read fresh on every request) or "sqlite"
	// (imported snapshot).
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// TilesConfig configures the basemap/satellite tile proxy. URL templates
// use {z}, {x}, {y} placeholders; {token} in the satellite template is
// replaced with SatelliteToken.
type TilesConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// SatelliteURL is used only when SatelliteToken is set; otherwise the
	// proxy falls back to SatelliteFallbackURL, a public imagery source.
	SatelliteURL         string `yaml:"satellite_url" mapstructure:"satellite_url"`
	SatelliteToken       string `yaml:"satellite_token" mapstructure:"satellite_token"`
	SatelliteFallbackURL string `yaml:"satellite_fallback_url" mapstructure:"satellite_fallback_url"`

	CacheEntries int `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTLMins int `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	// UpstreamRPS caps requests per second to each upstream tile server.
	UpstreamRPS float64 `yaml:"upstream_rps" mapstructure:"upstream_rps"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STREAMVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The satellite token is commonly provided as a bare provider env var.
	_ = v.BindEnv("tiles.satellite_token", "STREAMVIZ_TILES_SATELLITE_TOKEN", "MAPTILER_TOKEN")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.transect_points", "transect_points.csv")
	v.SetDefault("data.stream_vertices", "stream_vertices.csv")
	v.SetDefault("data.transects_geojson", "transects.geojson")
	v.SetDefault("store.driver", "files")
	v.SetDefault("store.path", "stream-visualizer.db")
	v.SetDefault("tiles.base_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("tiles.satellite_url", "https://api.maptiler.com/tiles/satellite-v2/{z}/{x}/{y}.jpg?key={token}")
	v.SetDefault("tiles.satellite_fallback_url", "https://basemap.nationalmap.gov/arcgis/rest/services/USGSImageryOnly/MapServer/tile/{z}/{y}/{x}")
	v.SetDefault("tiles.cache_entries", 512)
	v.SetDefault("tiles.cache_ttl_mins", 60)
	v.SetDefault("tiles.upstream_rps", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
