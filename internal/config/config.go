package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Search   SearchConfig   `mapstructure:"search"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds remote catalog API settings
type CatalogConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryAttempts  int    `mapstructure:"retry_attempts"`
	CacheTTLSec    int    `mapstructure:"cache_ttl_seconds"`
}

// SearchConfig holds aggregation pipeline settings. The inter-call
// intervals implement the deliberate self-throttling against the remote
// catalog's rate limits; they are tunable, not removable.
type SearchConfig struct {
	SearchIntervalMs int `mapstructure:"search_interval_ms"`
	DetailIntervalMs int `mapstructure:"detail_interval_ms"`
	MaxCandidates    int `mapstructure:"max_candidates"`
	TopN             int `mapstructure:"top_n"`
	ProxyTermCount   int `mapstructure:"proxy_term_count"`
}

// SessionConfig holds search session settings
type SessionConfig struct {
	DebounceMs     int `mapstructure:"debounce_ms"`
	IdleTTLMinutes int `mapstructure:"idle_ttl_minutes"`
}

// DatabaseConfig holds search-history storage settings
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"` // "sqlite" or "postgres"
	Path     string `mapstructure:"path"`   // sqlite file path
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var cfg *Config

// bindEnvWithAlternatives binds a viper key to environment variables with
// alternative names, so both CINESCOUT_CATALOG_API_KEY and OMDB_API_KEY
// reach the same config key
func bindEnvWithAlternatives(key string, alternatives ...string) {
	viper.BindEnv(key)
	for _, alt := range alternatives {
		if value := os.Getenv(alt); value != "" {
			viper.Set(key, value)
			break
		}
	}
}

// Load reads configuration from the default search paths and environment
// variables
func Load() error {
	return LoadFile("")
}

// LoadFile reads configuration from an explicit file, falling back to the
// default search paths when path is empty. An explicit file that cannot be
// read is an error.
func LoadFile(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/cinescout")
	}

	setDefaults()

	viper.SetEnvPrefix("CINESCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvWithAlternatives("api.port", "API_PORT")

	bindEnvWithAlternatives("catalog.api_key", "OMDB_API_KEY")
	bindEnvWithAlternatives("catalog.base_url", "OMDB_BASE_URL")
	viper.BindEnv("catalog.timeout_seconds")
	viper.BindEnv("catalog.retry_attempts")
	viper.BindEnv("catalog.cache_ttl_seconds")

	viper.BindEnv("search.search_interval_ms")
	viper.BindEnv("search.detail_interval_ms")
	viper.BindEnv("search.max_candidates")
	viper.BindEnv("search.top_n")
	viper.BindEnv("search.proxy_term_count")

	viper.BindEnv("session.debounce_ms")
	viper.BindEnv("session.idle_ttl_minutes")

	viper.BindEnv("database.enabled")
	bindEnvWithAlternatives("database.driver", "DB_DRIVER")
	bindEnvWithAlternatives("database.path", "DB_PATH")
	bindEnvWithAlternatives("database.host", "DB_HOST")
	bindEnvWithAlternatives("database.port", "DB_PORT")
	bindEnvWithAlternatives("database.user", "DB_USER")
	bindEnvWithAlternatives("database.password", "DB_PASSWORD")
	bindEnvWithAlternatives("database.dbname", "DB_NAME")
	bindEnvWithAlternatives("database.sslmode", "DB_SSLMODE")

	bindEnvWithAlternatives("logging.level", "LOG_LEVEL")
	viper.BindEnv("logging.format")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

// Set replaces the current configuration (primarily for testing)
func Set(c *Config) {
	cfg = c
}

func setDefaults() {
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.allowed_origins", []string{"*"})

	viper.SetDefault("catalog.base_url", "https://www.omdbapi.com/")
	viper.SetDefault("catalog.timeout_seconds", 10)
	viper.SetDefault("catalog.retry_attempts", 3)
	viper.SetDefault("catalog.cache_ttl_seconds", 600)

	viper.SetDefault("search.search_interval_ms", 200)
	viper.SetDefault("search.detail_interval_ms", 100)
	viper.SetDefault("search.max_candidates", 20)
	viper.SetDefault("search.top_n", 10)
	viper.SetDefault("search.proxy_term_count", 3)

	viper.SetDefault("session.debounce_ms", 1000)
	viper.SetDefault("session.idle_ttl_minutes", 30)

	viper.SetDefault("database.enabled", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/cinescout.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func validate() error {
	if cfg.Catalog.APIKey == "" {
		return fmt.Errorf("catalog.api_key is required")
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be one of: sqlite, postgres")
	}

	if cfg.Database.Enabled && cfg.Database.Driver == "postgres" {
		if cfg.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres driver")
		}
		if cfg.Database.DBName == "" {
			return fmt.Errorf("database.dbname is required for the postgres driver")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level != "" && !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format != "" && !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if cfg.Search.SearchIntervalMs < 0 || cfg.Search.DetailIntervalMs < 0 {
		return fmt.Errorf("search intervals must not be negative")
	}
	if cfg.Search.TopN <= 0 {
		return fmt.Errorf("search.top_n must be positive")
	}
	if cfg.Search.MaxCandidates < cfg.Search.TopN {
		return fmt.Errorf("search.max_candidates must be at least search.top_n")
	}

	return nil
}

// CatalogTimeout returns the catalog HTTP timeout as a duration
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// SearchInterval returns the minimum interval between search calls
func (c *Config) SearchInterval() time.Duration {
	return time.Duration(c.Search.SearchIntervalMs) * time.Millisecond
}

// DetailInterval returns the minimum interval between detail calls
func (c *Config) DetailInterval() time.Duration {
	return time.Duration(c.Search.DetailIntervalMs) * time.Millisecond
}

// Debounce returns the session debounce window
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Session.DebounceMs) * time.Millisecond
}

// SessionIdleTTL returns how long an untouched session survives
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.Session.IdleTTLMinutes) * time.Minute
}
