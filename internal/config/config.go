package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Site     SiteConfig     `yaml:"site"`
	Members  MembersConfig  `yaml:"members"`
	Theme    ThemeConfig    `yaml:"theme"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
}

// ConnMaxLifetime returns the pool connection lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeSeconds) * time.Second
}

// RedisConfig holds the lookup cache settings. An empty URL disables the cache.
type RedisConfig struct {
	URL             string `yaml:"url"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	KeyPrefix       string `yaml:"key_prefix"`
}

// CacheTTL returns the cache entry lifetime as a duration
func (c RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Enabled reports whether a Redis URL is configured
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// SiteConfig holds the public path layout used in redirects
type SiteConfig struct {
	AdminPath string `yaml:"admin_path"`
	EmailPath string `yaml:"email_path"`
}

// MembersConfig holds paywall settings
type MembersConfig struct {
	FreeTierSlug string `yaml:"free_tier_slug"`
}

// ThemeConfig selects the Liquid template used for preview pages
type ThemeConfig struct {
	PostTemplate string `yaml:"post_template"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Redact reports whether PII redaction is on. It defaults to true.
func (c LoggingConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 3
	}
	if cfg.Database.ConnMaxLifetimeSeconds == 0 {
		cfg.Database.ConnMaxLifetimeSeconds = 300
	}
	if cfg.Redis.CacheTTLSeconds == 0 {
		cfg.Redis.CacheTTLSeconds = 5
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "preview:post:"
	}
	if cfg.Site.AdminPath == "" {
		cfg.Site.AdminPath = "/ghost/"
	}
	if cfg.Site.EmailPath == "" {
		cfg.Site.EmailPath = "/email/"
	}
	if cfg.Members.FreeTierSlug == "" {
		cfg.Members.FreeTierSlug = "free"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
// A missing config file falls back to Default.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("POST_TEMPLATE"); v != "" {
		cfg.Theme.PostTemplate = v
	}
	if v := os.Getenv("FREE_TIER_SLUG"); v != "" {
		cfg.Members.FreeTierSlug = v
	}

	return cfg, nil
}
