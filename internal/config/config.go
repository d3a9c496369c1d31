// Package config provides configuration loading and validation for the relay.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// DNSRELAY_* environment variables. Command-line flags are applied by the
// caller on top of the loaded value.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at a YAML file.
const EnvConfigPath = "DNSRELAY_CONFIG"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5353,
		},
		Upstream: UpstreamConfig{
			Timeout: 4 * time.Second,
		},
		Logging: LoggingConfig{
			Level:            "INFO",
			StructuredFormat: "json",
			ExtraFields:      map[string]string{},
		},
		RateLimit: RateLimitConfig{
			MaxEntries:      65536,
			CleanupInterval: time.Minute,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// ResolveConfigPath returns the config file path from the flag value or,
// when that is blank, from DNSRELAY_CONFIG.
func ResolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvConfigPath))
}

// Load builds a validated configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading YAML configuration: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML configuration: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("reading env vars: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 1..65535")
	}
	if cfg.Server.MaxConcurrency < 0 {
		return errors.New("server.max_concurrency must not be negative")
	}

	if cfg.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	rl := cfg.RateLimit
	if rl.GlobalQPS < 0 || rl.PrefixQPS < 0 || rl.IPQPS < 0 ||
		rl.GlobalBurst < 0 || rl.PrefixBurst < 0 || rl.IPBurst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if rl.MaxEntries <= 0 {
		cfg.RateLimit.MaxEntries = 65536
	}
	if rl.CleanupInterval <= 0 {
		cfg.RateLimit.CleanupInterval = time.Minute
	}

	// Normalize management API
	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}
	return nil
}

// ListenAddr returns the host:port the DNS listener binds.
func (cfg *Config) ListenAddr() string {
	return joinHostPort(cfg.Server.Host, cfg.Server.Port)
}

// APIAddr returns the host:port the management API binds.
func (cfg *Config) APIAddr() string {
	return joinHostPort(cfg.API.Host, cfg.API.Port)
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
