package config

import "time"

// ServerConfig contains listener settings.
type ServerConfig struct {
	Host           string `yaml:"host" env:"DNSRELAY_HOST"`
	Port           int    `yaml:"port" env:"DNSRELAY_PORT"`
	MaxConcurrency int    `yaml:"max_concurrency" env:"DNSRELAY_MAX_CONCURRENCY"`
	ReusePort      bool   `yaml:"reuse_port" env:"DNSRELAY_REUSE_PORT"`
}

// UpstreamConfig contains forwarding settings. The upstream address itself
// is fixed; only the per-query timeout is tunable.
type UpstreamConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"DNSRELAY_UPSTREAM_TIMEOUT"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level" env:"DNSRELAY_LOG_LEVEL"`
	Structured       bool              `yaml:"structured" env:"DNSRELAY_LOG_STRUCTURED"`
	StructuredFormat string            `yaml:"structured_format" env:"DNSRELAY_LOG_FORMAT"`
	IncludePID       bool              `yaml:"include_pid" env:"DNSRELAY_LOG_INCLUDE_PID"`
	ExtraFields      map[string]string `yaml:"extra_fields,omitempty" env:"DNSRELAY_LOG_EXTRA_FIELDS"`
}

// RateLimitConfig controls per-source admission control. A level with a
// zero rate or burst is disabled; all levels are disabled by default.
type RateLimitConfig struct {
	GlobalQPS       float64       `yaml:"global_qps" env:"DNSRELAY_RATE_GLOBAL_QPS"`
	GlobalBurst     int           `yaml:"global_burst" env:"DNSRELAY_RATE_GLOBAL_BURST"`
	PrefixQPS       float64       `yaml:"prefix_qps" env:"DNSRELAY_RATE_PREFIX_QPS"`
	PrefixBurst     int           `yaml:"prefix_burst" env:"DNSRELAY_RATE_PREFIX_BURST"`
	IPQPS           float64       `yaml:"ip_qps" env:"DNSRELAY_RATE_IP_QPS"`
	IPBurst         int           `yaml:"ip_burst" env:"DNSRELAY_RATE_IP_BURST"`
	MaxEntries      int           `yaml:"max_entries" env:"DNSRELAY_RATE_MAX_ENTRIES"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"DNSRELAY_RATE_CLEANUP_INTERVAL"`
}

// Enabled reports whether any level limits traffic.
func (rl RateLimitConfig) Enabled() bool {
	return (rl.GlobalQPS > 0 && rl.GlobalBurst > 0) ||
		(rl.PrefixQPS > 0 && rl.PrefixBurst > 0) ||
		(rl.IPQPS > 0 && rl.IPBurst > 0)
}

// APIConfig contains management API settings.
//
// APIKey is a secret and is never returned by API endpoints.
type APIConfig struct {
	Enabled bool   `yaml:"enabled" env:"DNSRELAY_API_ENABLED"`
	Host    string `yaml:"host" env:"DNSRELAY_API_HOST"`
	Port    int    `yaml:"port" env:"DNSRELAY_API_PORT"`
	APIKey  string `yaml:"api_key,omitempty" env:"DNSRELAY_API_KEY"`
}

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	API       APIConfig       `yaml:"api"`
}
