package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agrosense/crop-advisor/internal/scoring"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig    `yaml:"server" mapstructure:"server"`
	Log     LogConfig       `yaml:"log" mapstructure:"log"`
	Weather WeatherConfig   `yaml:"weather" mapstructure:"weather"`
	Market  MarketConfig    `yaml:"market" mapstructure:"market"`
	Geocode GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Advisor AdvisorConfig   `yaml:"advisor" mapstructure:"advisor"`
	Scoring scoring.Weights `yaml:"scoring" mapstructure:"scoring"`
}

// ServerConfig configures the HTTP serve mode.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// WeatherConfig configures the weather acquisition tier.
type WeatherConfig struct {
	OpenMeteoURL       string `yaml:"open_meteo_url" mapstructure:"open_meteo_url"`
	WttrURL            string `yaml:"wttr_url" mapstructure:"wttr_url"`
	AttemptTimeoutSecs int    `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	CacheTTLMins       int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	CacheMaxEntries    int    `yaml:"cache_max_entries" mapstructure:"cache_max_entries"`
}

// MarketConfig configures the mandi price acquisition tier.
type MarketConfig struct {
	DataGovURL         string `yaml:"data_gov_url" mapstructure:"data_gov_url"`
	DataGovKey         string `yaml:"data_gov_key" mapstructure:"data_gov_key"`
	MirrorURL          string `yaml:"mirror_url" mapstructure:"mirror_url"`
	AttemptTimeoutSecs int    `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	CacheTTLMins       int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	CacheMaxEntries    int    `yaml:"cache_max_entries" mapstructure:"cache_max_entries"`
}

// GeocodeConfig configures location resolution.
type GeocodeConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AdvisorConfig configures the recommendation orchestrator.
type AdvisorConfig struct {
	JoinTimeoutSecs int `yaml:"join_timeout_secs" mapstructure:"join_timeout_secs"`
	TopN            int `yaml:"top_n" mapstructure:"top_n"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CROPADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("weather.open_meteo_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.wttr_url", "https://wttr.in")
	v.SetDefault("weather.attempt_timeout_secs", 8)
	v.SetDefault("weather.cache_ttl_mins", 30)
	v.SetDefault("weather.cache_max_entries", 512)
	v.SetDefault("market.data_gov_url", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070")
	v.SetDefault("market.data_gov_key", "")
	v.SetDefault("market.mirror_url", "")
	v.SetDefault("market.attempt_timeout_secs", 8)
	v.SetDefault("market.cache_ttl_mins", 5)
	v.SetDefault("market.cache_max_entries", 512)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("advisor.join_timeout_secs", 12)
	v.SetDefault("advisor.top_n", 5)
	defaults := scoring.DefaultWeights()
	v.SetDefault("scoring.weather", defaults.Weather)
	v.SetDefault("scoring.price", defaults.Price)
	v.SetDefault("scoring.soil", defaults.Soil)
	v.SetDefault("scoring.cost", defaults.Cost)
	v.SetDefault("scoring.duration", defaults.Duration)
	v.SetDefault("scoring.history", defaults.History)

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

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
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
