// Package config defines the molscope service configuration and its loader.
package config

import (
	"fmt"
	"time"

	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
)

// Config is the root configuration for both the API server and the CLI.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Portal    PortalConfig    `mapstructure:"portal" yaml:"portal"`
	AI        AIConfig        `mapstructure:"ai" yaml:"ai"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Log       logging.Config  `mapstructure:"log" yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PortalConfig controls access to the upstream patent portal.
type PortalConfig struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" yaml:"retry_base_delay"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay" yaml:"retry_max_delay"`
}

// AIConfig controls the optional model-assisted extraction fallback.
// The fallback is disabled when APIKey is empty.
type AIConfig struct {
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	Model     string        `mapstructure:"model" yaml:"model"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Enabled reports whether the AI-assisted strategy should be wired in.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// RedisConfig controls the optional search-result cache.
// Caching is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Enabled reports whether the cache should be wired in.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RateLimitConfig controls the per-client request limiter on the API surface.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int  `mapstructure:"burst" yaml:"burst"`
}

// Validate checks constraints the loader cannot express through defaults.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url must not be empty")
	}
	if c.Portal.MaxRetries < 0 {
		return fmt.Errorf("portal.max_retries must not be negative: %d", c.Portal.MaxRetries)
	}
	if c.Portal.RequestTimeout <= 0 {
		return fmt.Errorf("portal.request_timeout must be positive: %s", c.Portal.RequestTimeout)
	}
	if c.AI.Enabled() && c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive when ai is enabled: %d", c.AI.MaxTokens)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive: %d", c.RateLimit.RequestsPerMinute)
	}
	return nil
}
