package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "MOLSCOPE"

// configKeys are bound explicitly so environment-only overrides reach
// Unmarshal even when no config file declares the key.
var configKeys = []string{
	"server.host", "server.port", "server.read_timeout",
	"server.write_timeout", "server.shutdown_timeout",
	"portal.base_url", "portal.user_agent", "portal.request_timeout",
	"portal.max_retries", "portal.retry_base_delay", "portal.retry_max_delay",
	"ai.api_key", "ai.model", "ai.max_tokens", "ai.timeout",
	"redis.addr", "redis.password", "redis.db", "redis.ttl",
	"rate_limit.enabled", "rate_limit.requests_per_minute", "rate_limit.burst",
	"log.level", "log.format", "log.output_paths",
}

// Load reads configuration from the given file path, merges environment
// overrides, applies defaults, and validates the result. An empty path
// loads from environment and defaults only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return unmarshal(v)
}

// LoadFromEnv builds a configuration from environment variables and
// defaults, without touching the filesystem.
func LoadFromEnv() (*Config, error) {
	return unmarshal(newViper())
}

// Watch reloads the configuration whenever the file at path changes and
// delivers each valid new snapshot to onChange. Invalid snapshots are
// dropped so a bad edit never replaces a working configuration.
func Watch(path string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshal(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
