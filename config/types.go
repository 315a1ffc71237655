package config

import "time"

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// PlaceholderAPIKey is the sample key shipped in example configs
const PlaceholderAPIKey = "your_api_key_here"

// Config represents the complete configuration structure
type Config struct {
	Environment string        `mapstructure:"environment" env:"IVOIRE_ENV"`
	Server      ServerConfig  `mapstructure:"server"`
	TMDB        TMDBConfig    `mapstructure:"tmdb"`
	Limits      LimitsConfig  `mapstructure:"limits"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Radarr      RadarrConfig  `mapstructure:"radarr"`
	Logging     LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when running on defaults
	File string `mapstructure:"-"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" env:"IVOIRE_ADDR"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	StaticDir       string        `mapstructure:"static_dir" env:"IVOIRE_STATIC_DIR"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key" env:"TMDB_API_KEY"`
	TestAPIKey   string        `mapstructure:"test_api_key" env:"TMDB_TEST_API_KEY"`
	BaseURL      string        `mapstructure:"base_url" env:"TMDB_BASE_URL"`
	ImageBaseURL string        `mapstructure:"image_base_url" env:"TMDB_IMAGE_BASE_URL"`
	Language     string        `mapstructure:"language" env:"TMDB_LANGUAGE"`
	Timeout      time.Duration `mapstructure:"timeout" env:"TMDB_TIMEOUT"`
}

// LimitsConfig bounds user supplied query parameters
type LimitsConfig struct {
	MaxPage        int `mapstructure:"max_page"`
	MaxQueryLength int `mapstructure:"max_query_length"`
	MaxGenreID     int `mapstructure:"max_genre_id"`
}

// CacheConfig controls the TMDB response cache
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl" env:"IVOIRE_CACHE_TTL"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

// RadarrConfig holds Radarr API connection details
type RadarrConfig struct {
	Enabled bool   `mapstructure:"enabled" env:"RADARR_ENABLED"`
	URL     string `mapstructure:"url" env:"RADARR_URL"`
	APIKey  string `mapstructure:"api_key" env:"RADARR_API_KEY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"IVOIRE_LOG_LEVEL"`
	Format string `mapstructure:"format" env:"IVOIRE_LOG_FORMAT"`
	Color  bool   `mapstructure:"color"`
}

// EffectiveAPIKey returns the key used for TMDB calls. The testing
// environment prefers the dedicated test key when one is set.
func (c *Config) EffectiveAPIKey() string {
	if c.Environment == EnvTesting && c.TMDB.TestAPIKey != "" {
		return c.TMDB.TestAPIKey
	}
	return c.TMDB.APIKey
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
