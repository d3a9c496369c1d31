package server

import (
	"sync/atomic"
	"time"
)

// RelayStats collects relay statistics.
// All methods are safe for concurrent use, including on a nil receiver,
// which records nothing.
type RelayStats struct {
	received       atomic.Uint64
	malformed      atomic.Uint64
	forwarded      atomic.Uint64
	servFail       atomic.Uint64
	writeErrors    atomic.Uint64
	dropped        atomic.Uint64
	rateLimited    atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewRelayStats creates a new statistics collector.
func NewRelayStats() *RelayStats {
	return &RelayStats{}
}

// RecordReceived records an inbound datagram.
func (s *RelayStats) RecordReceived() {
	if s != nil {
		s.received.Add(1)
	}
}

// RecordMalformed records a request that could not be decoded.
func (s *RelayStats) RecordMalformed() {
	if s != nil {
		s.malformed.Add(1)
	}
}

// RecordForwarded records a relayed upstream reply and its latency.
func (s *RelayStats) RecordForwarded(latency time.Duration) {
	if s == nil {
		return
	}
	s.forwarded.Add(1)
	if latency > 0 {
		s.latencyTotalNs.Add(uint64(latency.Nanoseconds()))
	}
}

// RecordServFail records a SERVFAIL substituted for a failed forward.
func (s *RelayStats) RecordServFail() {
	if s != nil {
		s.servFail.Add(1)
	}
}

// RecordWriteError records a reply that could not be sent to the client.
func (s *RelayStats) RecordWriteError() {
	if s != nil {
		s.writeErrors.Add(1)
	}
}

// RecordDropped records a datagram dropped by admission control.
func (s *RelayStats) RecordDropped() {
	if s != nil {
		s.dropped.Add(1)
	}
}

// RecordRateLimited records a datagram rejected by the rate limiter.
func (s *RelayStats) RecordRateLimited() {
	if s != nil {
		s.rateLimited.Add(1)
	}
}

// RelayStatsSnapshot is a point-in-time snapshot of relay statistics.
type RelayStatsSnapshot struct {
	Received     uint64
	Malformed    uint64
	Forwarded    uint64
	ServFail     uint64
	WriteErrors  uint64
	Dropped      uint64
	RateLimited  uint64
	LatencyTotal time.Duration
	AvgLatencyMs float64
}

// Snapshot returns the current statistics.
func (s *RelayStats) Snapshot() RelayStatsSnapshot {
	if s == nil {
		return RelayStatsSnapshot{}
	}
	forwarded := s.forwarded.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyMs := 0.0
	if forwarded > 0 {
		avgLatencyMs = float64(latencyNs) / float64(forwarded) / 1e6
	}

	return RelayStatsSnapshot{
		Received:     s.received.Load(),
		Malformed:    s.malformed.Load(),
		Forwarded:    forwarded,
		ServFail:     s.servFail.Load(),
		WriteErrors:  s.writeErrors.Load(),
		Dropped:      s.dropped.Load(),
		RateLimited:  s.rateLimited.Load(),
		LatencyTotal: time.Duration(latencyNs),
		AvgLatencyMs: avgLatencyMs,
	}
}
