// Package config loads application configuration and initializes logging.
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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Network NetworkConfig `yaml:"network" mapstructure:"network"`
	Grid    GridConfig    `yaml:"grid" mapstructure:"grid"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the geometry output backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CatalogConfig configures the address-range catalog and geocache source.
// An empty DatabaseURL falls back to the store URL when the store driver is
// postgres.
type CatalogConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	PageSize    int    `yaml:"page_size" mapstructure:"page_size"`
}

// NetworkConfig configures the raw street-network dataset.
type NetworkConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	// Format is "geojson" or "shapefile".
	Format string `yaml:"format" mapstructure:"format"`
	// NameField is the feature property or DBF attribute holding the
	// street name.
	NameField string `yaml:"name_field" mapstructure:"name_field"`
}

// GridConfig configures the orthogonal address-grid constants.
type GridConfig struct {
	BaselineLat   float64 `yaml:"baseline_lat" mapstructure:"baseline_lat"`
	BaselineLng   float64 `yaml:"baseline_lng" mapstructure:"baseline_lng"`
	LatDegPerUnit float64 `yaml:"lat_deg_per_unit" mapstructure:"lat_deg_per_unit"`
	LngDegPerUnit float64 `yaml:"lng_deg_per_unit" mapstructure:"lng_deg_per_unit"`
	MaxAddr       int     `yaml:"max_addr" mapstructure:"max_addr"`
}

// ResolveConfig configures the resolution run.
type ResolveConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	BatchSize   int `yaml:"batch_size" mapstructure:"batch_size"`
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
	v.SetEnvPrefix("SWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("catalog.page_size", 1000)
	v.SetDefault("network.format", "geojson")
	v.SetDefault("network.name_field", "name")
	v.SetDefault("grid.baseline_lat", 41.881898)
	v.SetDefault("grid.baseline_lng", -87.627734)
	v.SetDefault("grid.lat_deg_per_unit", 0.0000181)
	v.SetDefault("grid.lng_deg_per_unit", 0.0000244)
	v.SetDefault("grid.max_addr", 15000)
	v.SetDefault("resolve.concurrency", 4)
	v.SetDefault("resolve.batch_size", 500)
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
