package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/spf13/viper"
)

// Affiliate config store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Affiliate AffiliateConfig `mapstructure:"affiliate"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetcherConfig holds product page fetch settings
type FetcherConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	MinBodyBytes   int           `mapstructure:"min_body_bytes"`
	PerHostRPS     float64       `mapstructure:"per_host_rps"`
	PerHostBurst   int           `mapstructure:"per_host_burst"`
	MaxRedirects   int           `mapstructure:"max_redirects"`
}

// BatchConfig holds batch extraction limits
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxURLs     int `mapstructure:"max_urls"`
}

// AffiliateConfig holds the affiliate rule store and cache settings
type AffiliateConfig struct {
	CacheTTL    time.Duration            `mapstructure:"cache_ttl"`
	Store       string                   `mapstructure:"store"` // "memory", "postgres" or "mysql"
	PostgresURL string                   `mapstructure:"postgres_url"`
	MySQLDSN    string                   `mapstructure:"mysql_dsn"`
	Seeds       []domain.AffiliateConfig `mapstructure:"seeds"`
}

// RedisConfig holds the cache invalidation channel settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/linkengine/")

	// Environment variable settings: LINKENGINE_FETCHER_TIMEOUT -> fetcher.timeout
	v.SetEnvPrefix("LINKENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory when present. Variables
// already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load(".env")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Fetcher defaults
	v.SetDefault("fetcher.timeout", "10s")
	v.SetDefault("fetcher.user_agent", "")
	v.SetDefault("fetcher.accept_language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")
	v.SetDefault("fetcher.max_body_bytes", 5<<20)
	v.SetDefault("fetcher.min_body_bytes", 100)
	v.SetDefault("fetcher.per_host_rps", 2.0)
	v.SetDefault("fetcher.per_host_burst", 4)
	v.SetDefault("fetcher.max_redirects", 10)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.max_urls", 50)

	// Affiliate defaults
	v.SetDefault("affiliate.cache_ttl", "5m")
	v.SetDefault("affiliate.store", StoreMemory)
	v.SetDefault("affiliate.postgres_url", "")
	v.SetDefault("affiliate.mysql_dsn", "")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "linkengine:affiliate-configs")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive, got: %s", config.Fetcher.Timeout)
	}

	if config.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got: %d", config.Batch.Concurrency)
	}

	if config.Batch.MaxURLs < 1 {
		return fmt.Errorf("batch max_urls must be at least 1, got: %d", config.Batch.MaxURLs)
	}

	switch config.Affiliate.Store {
	case StoreMemory:
	case StorePostgres:
		if config.Affiliate.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required when affiliate store is 'postgres' (set LINKENGINE_AFFILIATE_POSTGRES_URL)")
		}
	case StoreMySQL:
		if config.Affiliate.MySQLDSN == "" {
			return fmt.Errorf("mysql DSN is required when affiliate store is 'mysql' (set LINKENGINE_AFFILIATE_MYSQL_DSN)")
		}
	default:
		return fmt.Errorf("affiliate store must be 'memory', 'postgres' or 'mysql', got: %s", config.Affiliate.Store)
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if config.Logging.Format != "json" && config.Logging.Format != "text" {
		return fmt.Errorf("logging format must be 'json' or 'text', got: %s", config.Logging.Format)
	}

	return nil
}
