package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jroosing/dnsrelay/internal/config"
	"github.com/jroosing/dnsrelay/internal/logging"
	"github.com/jroosing/dnsrelay/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file (or set DNSRELAY_CONFIG)")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		timeout    = flag.Duration("upstream-timeout", 0, "Override upstream timeout (e.g. 2s)")
		maxConc    = flag.Int("max-concurrency", -1, "Cap in-flight requests (0 = unbounded, -1 = from config)")
		apiEnabled = flag.Bool("api", false, "Enable the management API")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *timeout > 0 {
		cfg.Upstream.Timeout = *timeout
	}
	if *maxConc >= 0 {
		cfg.Server.MaxConcurrency = *maxConc
	}
	if *apiEnabled {
		cfg.API.Enabled = true
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})

	started := time.Now()
	runner := server.NewRunner(logger)
	if err := runner.Run(cfg); err != nil {
		logger.Error("relay exited with error", "err", err, "uptime", time.Since(started).Round(time.Second).String())
		os.Exit(1)
	}
}
