// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"` // development, staging, production
	Port      int    `mapstructure:"port"`
	Debug     bool   `mapstructure:"debug"`
	UserAgent string `mapstructure:"user_agent"`
	// AdminToken protects /api/v1/admin routes. Empty disables the check.
	AdminToken string `mapstructure:"admin_token"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// ProviderConfig holds external provider settings.
type ProviderConfig struct {
	Steam      SteamEndpoint      `mapstructure:"steam"`
	SteamStore SteamStoreEndpoint `mapstructure:"steam_store"`
	SteamSpy   ProviderEndpoint   `mapstructure:"steamspy"`
	IGDB       IGDBEndpoint       `mapstructure:"igdb"`
	RAWG       RAWGEndpoint       `mapstructure:"rawg"`
}

// ProviderEndpoint holds a single provider's configuration.
type ProviderEndpoint struct {
	Enabled   bool            `mapstructure:"enabled"`
	BaseURL   string          `mapstructure:"base_url"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
	CB        CBConfig        `mapstructure:"circuit_breaker"`
}

// SteamEndpoint configures the Steam Web API.
type SteamEndpoint struct {
	ProviderEndpoint `mapstructure:",squash"`
	APIKey           string `mapstructure:"api_key"`
}

// SteamStoreEndpoint configures the Steam Store API.
type SteamStoreEndpoint struct {
	ProviderEndpoint `mapstructure:",squash"`
	Country          string `mapstructure:"country"`
	Language         string `mapstructure:"language"`
}

// IGDBEndpoint configures IGDB and its Twitch OAuth credentials.
type IGDBEndpoint struct {
	ProviderEndpoint `mapstructure:",squash"`
	ClientID         string `mapstructure:"client_id"`
	ClientSecret     string `mapstructure:"client_secret"`
	TokenURL         string `mapstructure:"token_url"`
}

// RAWGEndpoint configures RAWG.
type RAWGEndpoint struct {
	ProviderEndpoint `mapstructure:",squash"`
	APIKey           string `mapstructure:"api_key"`
}

// RateLimitConfig holds client-side rate limit settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// DiscoveryConfig holds catalog discovery settings.
type DiscoveryConfig struct {
	PageSize int           `mapstructure:"page_size"` // candidates requested per catalog
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RefreshConfig holds background library refresh settings.
type RefreshConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	OnStartup   bool          `mapstructure:"on_startup"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"` // per-game enrichment workers
	Cooldown    time.Duration `mapstructure:"cooldown"`    // minimum time between syncs of one user

	// EnrichMaxAge is how long a stored game's store metadata is reused
	// before the enrichers are called again.
	EnrichMaxAge time.Duration `mapstructure:"enrich_max_age"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for caching and distributed locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	DiscoveryTTL time.Duration `mapstructure:"discovery_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "game-recommendation-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.user_agent", "game-recommendation-service/1.0")
	v.SetDefault("app.admin_token", "")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "game_recommendation")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Provider defaults
	setProviderDefaults(v, "steam", "https://api.steampowered.com", 5, 10)
	v.SetDefault("provider.steam.api_key", "")

	setProviderDefaults(v, "steam_store", "https://store.steampowered.com", 1, 1)
	v.SetDefault("provider.steam_store.country", "us")
	v.SetDefault("provider.steam_store.language", "english")

	setProviderDefaults(v, "steamspy", "https://steamspy.com", 1, 1)

	setProviderDefaults(v, "igdb", "https://api.igdb.com/v4", 4, 4)
	v.SetDefault("provider.igdb.client_id", "")
	v.SetDefault("provider.igdb.client_secret", "")
	v.SetDefault("provider.igdb.token_url", "https://id.twitch.tv")

	setProviderDefaults(v, "rawg", "https://api.rawg.io/api", 5, 5)
	v.SetDefault("provider.rawg.api_key", "")

	// Discovery defaults
	v.SetDefault("discovery.page_size", 40)
	v.SetDefault("discovery.timeout", "15s")

	// Refresh defaults
	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.interval", "6h")
	v.SetDefault("refresh.on_startup", false)
	v.SetDefault("refresh.timeout", "10m")
	v.SetDefault("refresh.concurrency", 4)
	v.SetDefault("refresh.cooldown", "1h")
	v.SetDefault("refresh.enrich_max_age", "168h")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.discovery_ttl", "30m")
	v.SetDefault("cache.key_prefix", "game-recommendation")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// setProviderDefaults sets the shared transport defaults of one provider.
func setProviderDefaults(v *viper.Viper, name, baseURL string, rps float64, burst int) {
	prefix := "provider." + name + "."
	v.SetDefault(prefix+"enabled", true)
	v.SetDefault(prefix+"base_url", baseURL)
	v.SetDefault(prefix+"timeout", "10s")
	v.SetDefault(prefix+"rate_limit.requests_per_second", rps)
	v.SetDefault(prefix+"rate_limit.burst", burst)
	v.SetDefault(prefix+"retry.max_attempts", 3)
	v.SetDefault(prefix+"retry.wait_time", "1s")
	v.SetDefault(prefix+"retry.max_wait_time", "5s")
	v.SetDefault(prefix+"circuit_breaker.max_requests", 3)
	v.SetDefault(prefix+"circuit_breaker.interval", "60s")
	v.SetDefault(prefix+"circuit_breaker.timeout", "30s")
	v.SetDefault(prefix+"circuit_breaker.failure_ratio", 0.5)
}
