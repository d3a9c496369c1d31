package server

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jroosing/dnsrelay/internal/api"
	"github.com/jroosing/dnsrelay/internal/api/models"
	"github.com/jroosing/dnsrelay/internal/config"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

// ShutdownTimeout bounds how long in-flight work may run after shutdown
// starts.
const ShutdownTimeout = 5 * time.Second

// Runner orchestrates relay startup, the optional management API and
// shutdown.
type Runner struct {
	logger   *slog.Logger
	upstream string
	stats    *RelayStats
}

// NewRunner creates a new runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger, upstream: resolvers.DefaultUpstream, stats: NewRelayStats()}
}

// Stats returns the counters shared by the listener and the API.
func (r *Runner) Stats() *RelayStats {
	return r.stats
}

// Run starts the relay and blocks until SIGINT/SIGTERM or a fatal error.
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext starts the relay and blocks until ctx is cancelled or a
// component fails. A listener bind failure is returned as an error; a
// normal shutdown returns nil.
//
// Server lifecycle:
//  1. Build the forwarding resolver and query handler
//  2. Start the UDP listener, plus the management API when enabled
//  3. Wait for cancellation or the first component error
//  4. Stop the listener, draining in-flight requests within ShutdownTimeout
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	resolver := resolvers.NewForwardingResolver(r.upstream, cfg.Upstream.Timeout)
	resolver.Logger = r.logger
	defer resolver.Close()

	h := &QueryHandler{Logger: r.logger, Resolver: resolver, Stats: r.stats}
	udp := &UDPServer{
		Logger:         r.logger,
		Handler:        h,
		Stats:          r.stats,
		MaxConcurrency: cfg.Server.MaxConcurrency,
		ReusePort:      cfg.Server.ReusePort,
		Limiter:        NewRateLimiter(rateLimitSettings(cfg.RateLimit)),
	}

	r.logStartup(cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return udp.Run(gctx, cfg.ListenAddr())
	})
	g.Go(func() error {
		<-gctx.Done()
		if err := udp.Stop(ShutdownTimeout); err != nil && r.logger != nil {
			r.logger.Warn("udp shutdown incomplete", "err", err)
		}
		return nil
	})

	if cfg.API.Enabled {
		apiSrv := api.New(cfg, r.newRegistry(), r.logger)
		apiSrv.Handlers().SetDNSStatsFunc(r.dnsStats)
		g.Go(func() error {
			return apiSrv.Run(gctx, ShutdownTimeout)
		})
	}

	err := g.Wait()
	if r.logger != nil {
		r.logger.Info("relay stopped", "err", err)
	}
	return err
}

func rateLimitSettings(rl config.RateLimitConfig) RateLimitSettings {
	return RateLimitSettings{
		GlobalQPS:       rl.GlobalQPS,
		GlobalBurst:     rl.GlobalBurst,
		PrefixQPS:       rl.PrefixQPS,
		PrefixBurst:     rl.PrefixBurst,
		IPQPS:           rl.IPQPS,
		IPBurst:         rl.IPBurst,
		MaxEntries:      rl.MaxEntries,
		CleanupInterval: rl.CleanupInterval,
	}
}

// newRegistry builds the Prometheus registry served on /metrics.
func (r *Runner) newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewStatsCollector(r.stats),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (r *Runner) dnsStats() models.DNSStatsResponse {
	snap := r.stats.Snapshot()
	return models.DNSStatsResponse{
		Received:     snap.Received,
		Malformed:    snap.Malformed,
		Forwarded:    snap.Forwarded,
		ServFail:     snap.ServFail,
		WriteErrors:  snap.WriteErrors,
		Dropped:      snap.Dropped,
		RateLimited:  snap.RateLimited,
		AvgLatencyMs: snap.AvgLatencyMs,
	}
}

// logStartup logs server configuration at startup.
func (r *Runner) logStartup(cfg *config.Config) {
	if r.logger == nil {
		return
	}
	r.logger.Info(
		"dns relay starting",
		"addr", cfg.ListenAddr(),
		"upstream", r.upstream,
		"upstream_timeout", cfg.Upstream.Timeout.String(),
		"max_concurrency", cfg.Server.MaxConcurrency,
		"reuse_port", cfg.Server.ReusePort,
		"rate_limit", cfg.RateLimit.Enabled(),
		"api", cfg.API.Enabled,
	)
}
