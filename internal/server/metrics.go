package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "dnsrelay"

// statsCollector exports RelayStats as Prometheus metrics. Values are read
// from a fresh snapshot on every scrape.
type statsCollector struct {
	stats *RelayStats

	received     *prometheus.Desc
	malformed    *prometheus.Desc
	forwarded    *prometheus.Desc
	servFail     *prometheus.Desc
	writeErrors  *prometheus.Desc
	dropped      *prometheus.Desc
	rateLimited  *prometheus.Desc
	latencyTotal *prometheus.Desc
}

// NewStatsCollector returns a prometheus.Collector backed by stats.
func NewStatsCollector(stats *RelayStats) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", name), help, nil, nil)
	}
	return &statsCollector{
		stats:        stats,
		received:     desc("requests_received_total", "Datagrams received on the listening socket"),
		malformed:    desc("requests_malformed_total", "Requests dropped because they could not be decoded"),
		forwarded:    desc("upstream_replies_total", "Upstream replies relayed to clients"),
		servFail:     desc("servfail_replies_total", "SERVFAIL replies synthesized after a failed forward"),
		writeErrors:  desc("reply_write_errors_total", "Replies that could not be written to the client"),
		dropped:      desc("requests_dropped_total", "Datagrams dropped by the concurrency cap"),
		rateLimited:  desc("requests_rate_limited_total", "Datagrams rejected by the rate limiter"),
		latencyTotal: desc("upstream_latency_seconds_total", "Cumulative upstream round-trip time"),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.received
	ch <- c.malformed
	ch <- c.forwarded
	ch <- c.servFail
	ch <- c.writeErrors
	ch <- c.dropped
	ch <- c.rateLimited
	ch <- c.latencyTotal
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}
	counter(c.received, float64(snap.Received))
	counter(c.malformed, float64(snap.Malformed))
	counter(c.forwarded, float64(snap.Forwarded))
	counter(c.servFail, float64(snap.ServFail))
	counter(c.writeErrors, float64(snap.WriteErrors))
	counter(c.dropped, float64(snap.Dropped))
	counter(c.rateLimited, float64(snap.RateLimited))
	counter(c.latencyTotal, snap.LatencyTotal.Seconds())
}
