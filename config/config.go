// Package config loads the board service configuration from environment
// variables using Viper and validates it.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/NomadCrew/comment-board/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Environment            Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port                   string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins         []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version                string      `mapstructure:"VERSION" yaml:"version"`
	ShutdownTimeoutSeconds int         `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// StoreConfig locates the record log files.
type StoreConfig struct {
	DataDir      string `mapstructure:"DATA_DIR" yaml:"data_dir"`
	CommentsFile string `mapstructure:"COMMENTS_FILE" yaml:"comments_file"`
	FeedbackFile string `mapstructure:"FEEDBACK_FILE" yaml:"feedback_file"`
}

// CommentsPath returns the comment log location.
func (c *StoreConfig) CommentsPath() string {
	return filepath.Join(c.DataDir, c.CommentsFile)
}

// FeedbackPath returns the feedback log location.
func (c *StoreConfig) FeedbackPath() string {
	return filepath.Join(c.DataDir, c.FeedbackFile)
}

// RedisConfig holds Redis connection details. Redis is only dialed when cache
// broadcasting or rate limiting is enabled.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// CacheConfig controls invalidation broadcasting between processes.
type CacheConfig struct {
	BroadcastEnabled bool   `mapstructure:"BROADCAST_ENABLED" yaml:"broadcast_enabled"`
	Channel          string `mapstructure:"CHANNEL" yaml:"channel"`
}

// RateLimitConfig limits submissions per client IP.
type RateLimitConfig struct {
	Enabled              bool `mapstructure:"ENABLED" yaml:"enabled"`
	SubmissionsPerMinute int  `mapstructure:"SUBMISSIONS_PER_MINUTE" yaml:"submissions_per_minute"`
	WindowSeconds        int  `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Config aggregates all configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Store     StoreConfig     `mapstructure:"STORE" yaml:"store"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	Cache     CacheConfig     `mapstructure:"CACHE" yaml:"cache"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsProduction returns true when running in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// NeedsRedis reports whether any enabled feature requires a Redis connection.
func (c *Config) NeedsRedis() bool {
	return c.Cache.BroadcastEnabled || c.RateLimit.Enabled
}

// bindEnvVars binds environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig reads defaults and environment variables, unmarshals them and
// validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("STORE.DATA_DIR", "data")
	v.SetDefault("STORE.COMMENTS_FILE", "comments.json")
	v.SetDefault("STORE.FEEDBACK_FILE", "feedback.json")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("CACHE.BROADCAST_ENABLED", false)
	v.SetDefault("CACHE.CHANNEL", "board:cache:invalidate")
	v.SetDefault("RATE_LIMIT.ENABLED", false)
	v.SetDefault("RATE_LIMIT.SUBMISSIONS_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS"},
		// Store config
		{"STORE.DATA_DIR", "DATA_DIR"},
		{"STORE.COMMENTS_FILE", "COMMENTS_FILE"},
		{"STORE.FEEDBACK_FILE", "FEEDBACK_FILE"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Cache config
		{"CACHE.BROADCAST_ENABLED", "CACHE_BROADCAST_ENABLED"},
		{"CACHE.CHANNEL", "CACHE_CHANNEL"},
		// Rate limit config
		{"RATE_LIMIT.ENABLED", "RATE_LIMIT_ENABLED"},
		{"RATE_LIMIT.SUBMISSIONS_PER_MINUTE", "RATE_LIMIT_SUBMISSIONS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"comments_path", cfg.Store.CommentsPath(),
		"feedback_path", cfg.Store.FeedbackPath(),
		"cache_broadcast", cfg.Cache.BroadcastEnabled,
		"rate_limit", cfg.RateLimit.Enabled,
	)
	return &cfg, nil
}

// validateConfig checks the loaded values.
func validateConfig(cfg *Config) error {
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Store.DataDir == "" {
		return fmt.Errorf("store data dir is required")
	}
	if cfg.Store.CommentsFile == "" || cfg.Store.FeedbackFile == "" {
		return fmt.Errorf("store file names are required")
	}
	if cfg.Store.CommentsPath() == cfg.Store.FeedbackPath() {
		return fmt.Errorf("comments and feedback must be stored in different files")
	}

	if cfg.NeedsRedis() && cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required when broadcasting or rate limiting is enabled")
	}
	if cfg.Cache.BroadcastEnabled && cfg.Cache.Channel == "" {
		return fmt.Errorf("cache channel is required when broadcasting is enabled")
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.SubmissionsPerMinute <= 0 {
			return fmt.Errorf("rate limit submissions per minute must be positive")
		}
		if cfg.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("rate limit window seconds must be positive")
		}
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
