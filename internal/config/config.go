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
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Risk   RiskConfig   `yaml:"risk" mapstructure:"risk"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// DataConfig points at the inventory exports and geodata the assessments
// read. All paths are relative to the working directory unless absolute.
type DataConfig struct {
	Bridges       string     `yaml:"bridges" mapstructure:"bridges"`
	Walls         string     `yaml:"walls" mapstructure:"walls"`
	TrafficSurvey string     `yaml:"traffic_survey" mapstructure:"traffic_survey"`
	Earthquake    ZoneConfig `yaml:"earthquake" mapstructure:"earthquake"`
	Precipitation ZoneConfig `yaml:"precipitation" mapstructure:"precipitation"`
}

// ZoneConfig locates one zone shapefile and its lookup cache.
type ZoneConfig struct {
	Shapefile string `yaml:"shapefile" mapstructure:"shapefile"`
	Attribute string `yaml:"attribute" mapstructure:"attribute"`
	Cache     string `yaml:"cache" mapstructure:"cache"`
}

// RiskConfig selects the formula revision and optional parameter overrides.
type RiskConfig struct {
	Revision      string `yaml:"revision" mapstructure:"revision"`
	OverridesFile string `yaml:"overrides_file" mapstructure:"overrides_file"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("KUBA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "kuba-risk.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("data.bridges", "data/bridges.xlsx")
	v.SetDefault("data.walls", "data/support_structures.xlsx")
	v.SetDefault("data.traffic_survey", "data/traffic_survey.xlsx")
	v.SetDefault("data.earthquake.shapefile", "data/earthquake_zones.shp")
	v.SetDefault("data.earthquake.attribute", "ZONE")
	v.SetDefault("data.earthquake.cache", "data/earthquake_zones.cache.json")
	v.SetDefault("data.precipitation.shapefile", "data/precipitation_zones.shp")
	v.SetDefault("data.precipitation.attribute", "DN")
	v.SetDefault("data.precipitation.cache", "data/precipitation_zones.cache.json")
	v.SetDefault("risk.revision", "2024-04")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

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
