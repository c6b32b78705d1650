package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fluvi/retail-monitor/internal/analytics"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Feed      FeedConfig       `yaml:"feed"`
	Polling   PollingConfig    `yaml:"polling"`
	Cache     CacheConfig      `yaml:"cache"`
	Analytics analytics.Config `yaml:"analytics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, listening on all interfaces when running
// in a container.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// FeedConfig selects and configures the snapshot source. Mode "http" hits the
// legacy PHP endpoints; mode "postgres" reads the migrated store.
type FeedConfig struct {
	Mode           string `yaml:"mode"`
	CustomersURL   string `yaml:"customers_url"`
	OrdersURL      string `yaml:"orders_url"`
	DatabaseURL    string `yaml:"database_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured feed timeout as a duration.
func (c FeedConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PollingConfig holds the snapshot refresh cadence.
type PollingConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// Interval returns the polling interval as a duration.
func (c PollingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// CacheConfig holds redis snapshot cache settings.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL returns the snapshot cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Load reads and parses the configuration file, then fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Feed.Mode == "" {
		cfg.Feed.Mode = "http"
	}
	if cfg.Feed.TimeoutSeconds == 0 {
		cfg.Feed.TimeoutSeconds = 30
	}
	if cfg.Polling.IntervalSeconds == 0 {
		cfg.Polling.IntervalSeconds = 600
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is read first, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FEED_MODE"); v != "" {
		cfg.Feed.Mode = v
	}
	if v := os.Getenv("FEED_CUSTOMERS_URL"); v != "" {
		cfg.Feed.CustomersURL = v
	}
	if v := os.Getenv("FEED_ORDERS_URL"); v != "" {
		cfg.Feed.OrdersURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Feed.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
		cfg.Cache.Enabled = true
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Polling.IntervalSeconds = n
		}
	}

	return cfg, nil
}
