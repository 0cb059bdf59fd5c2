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
	Topology TopologyConfig `yaml:"topology" mapstructure:"topology"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Scale    ScaleConfig    `yaml:"scale" mapstructure:"scale"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Tiles    TilesConfig    `yaml:"tiles" mapstructure:"tiles"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// TopologyConfig points at the TopoJSON document and the object collection to render.
type TopologyConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Object string `yaml:"object" mapstructure:"object"`
}

// DataConfig points at the neighborhood indicator CSV.
type DataConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Metric string `yaml:"metric" mapstructure:"metric"`
}

// ScaleConfig describes the threshold color scale. Colors, when set, override
// the from/to ramp and must have one more entry than Thresholds.
type ScaleConfig struct {
	Thresholds []float64 `yaml:"thresholds" mapstructure:"thresholds"`
	Colors     []string  `yaml:"colors" mapstructure:"colors"`
	From       string    `yaml:"from" mapstructure:"from"`
	To         string    `yaml:"to" mapstructure:"to"`
}

// MapConfig selects the rendering backend.
type MapConfig struct {
	Backend string  `yaml:"backend" mapstructure:"backend"`
	Zoom    float64 `yaml:"zoom" mapstructure:"zoom"`
}

// TilesConfig configures the raster basemap source used by the tiles backend.
type TilesConfig struct {
	URL          string  `yaml:"url" mapstructure:"url"`
	Format       string  `yaml:"format" mapstructure:"format"`
	CacheEntries int     `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTLMins int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Concurrency  int     `yaml:"concurrency" mapstructure:"concurrency"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig configures logging. File "-" logs to stderr.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from choromap.yaml (optional) and CHOROMAP_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("choromap")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CHOROMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("topology.path", "data/hfd_shape.json")
	v.SetDefault("topology.object", "hfd_shape")
	v.SetDefault("data.path", "data/hfd_display.csv")
	v.SetDefault("data.metric", "")
	v.SetDefault("scale.thresholds", []float64{0.1, 0.2, 0.3, 0.4, 0.5})
	v.SetDefault("scale.colors", []string{})
	v.SetDefault("scale.from", "#f2f0f7")
	v.SetDefault("scale.to", "#54278f")
	v.SetDefault("map.backend", "vector")
	v.SetDefault("map.zoom", 1.0)
	v.SetDefault("tiles.url", "https://tile.openstreetmap.org")
	v.SetDefault("tiles.format", "png")
	v.SetDefault("tiles.cache_entries", 256)
	v.SetDefault("tiles.cache_ttl_mins", 60)
	v.SetDefault("tiles.rate_per_sec", 4.0)
	v.SetDefault("tiles.concurrency", 4)
	v.SetDefault("tiles.user_agent", "choromap/1.0")
	v.SetDefault("tiles.timeout_secs", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "choromap.log")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail much later at render time.
func (c *Config) Validate() error {
	switch c.Map.Backend {
	case "vector", "tiles":
	default:
		return eris.Errorf("config: unknown map.backend %q (want vector or tiles)", c.Map.Backend)
	}
	if c.Topology.Object == "" {
		return eris.New("config: topology.object is required")
	}
	if len(c.Scale.Colors) > 0 && len(c.Scale.Colors) != len(c.Scale.Thresholds)+1 {
		return eris.Errorf("config: scale.colors needs %d entries for %d thresholds, got %d",
			len(c.Scale.Thresholds)+1, len(c.Scale.Thresholds), len(c.Scale.Colors))
	}
	if c.Map.Zoom <= 0 {
		c.Map.Zoom = 1
	}
	return nil
}

// InitLogger initializes the global zap logger. The terminal is owned by the
// map view, so logs go to cfg.File unless it is "-".
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

	if cfg.File != "" && cfg.File != "-" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	} else {
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
