package config

import "time"

// Default values applied before file and environment sources are merged.
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultPortalBaseURL   = "https://patentscope.wipo.int"
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultMaxRetries      = 3
	DefaultAIModel         = "claude-sonnet-4-20250514"
	DefaultAIMaxTokens     = 4096
	DefaultRedisTTLMinutes = 15
)

// ApplyDefaults fills zero-valued fields with service defaults so a minimal
// config file, or no file at all, still yields a runnable configuration.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Portal.BaseURL == "" {
		c.Portal.BaseURL = DefaultPortalBaseURL
	}
	if c.Portal.UserAgent == "" {
		c.Portal.UserAgent = DefaultUserAgent
	}
	if c.Portal.RequestTimeout == 0 {
		c.Portal.RequestTimeout = 30 * time.Second
	}
	if c.Portal.MaxRetries == 0 {
		c.Portal.MaxRetries = DefaultMaxRetries
	}
	if c.Portal.RetryBaseDelay == 0 {
		c.Portal.RetryBaseDelay = 2 * time.Second
	}
	if c.Portal.RetryMaxDelay == 0 {
		c.Portal.RetryMaxDelay = 30 * time.Second
	}

	if c.AI.Model == "" {
		c.AI.Model = DefaultAIModel
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = DefaultAIMaxTokens
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 60 * time.Second
	}

	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultRedisTTLMinutes * time.Minute
	}

	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}
}
