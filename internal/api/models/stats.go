package models

import "time"

// ServerStatsResponse contains server runtime statistics.
type ServerStatsResponse struct {
	Uptime        string           `json:"uptime"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     time.Time        `json:"start_time"`
	GoRoutines    int              `json:"goroutines"`
	MemoryAllocMB float64          `json:"memory_alloc_mb"`
	NumCPU        int              `json:"num_cpu"`
	Process       *ProcessStats    `json:"process,omitempty"`
	DNSStats      DNSStatsResponse `json:"dns"`
}

// ProcessStats contains OS-level figures for the relay process.
type ProcessStats struct {
	PID        int32   `json:"pid"`
	RSSMB      float64 `json:"rss_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	NumThreads int32   `json:"num_threads"`
	NumFDs     int32   `json:"num_fds,omitempty"`
}

// DNSStatsResponse contains relay counters.
type DNSStatsResponse struct {
	Received     uint64  `json:"requests_received"`
	Malformed    uint64  `json:"requests_malformed"`
	Forwarded    uint64  `json:"replies_forwarded"`
	ServFail     uint64  `json:"replies_servfail"`
	WriteErrors  uint64  `json:"write_errors"`
	Dropped      uint64  `json:"requests_dropped"`
	RateLimited  uint64  `json:"requests_rate_limited"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
