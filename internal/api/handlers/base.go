// Package handlers implements the management API endpoint handlers.
//
// REST API Endpoints:
//   - GET /api/v1/health - Health check status
//   - GET /api/v1/stats  - Runtime, process and relay statistics
//   - GET /api/v1/config - Effective configuration (API key redacted)
//
// When an API key is configured, every endpoint except /health requires the
// X-API-Key header.
package handlers

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/jroosing/dnsrelay/internal/api/models"
	"github.com/jroosing/dnsrelay/internal/config"
)

// DNSStatsFunc returns the current relay counters.
type DNSStatsFunc func() models.DNSStatsResponse

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	logger    *slog.Logger
	startTime time.Time
	proc      *process.Process // nil when the process cannot be inspected

	mu           sync.RWMutex
	dnsStatsFunc DNSStatsFunc
}

// New creates a new Handler for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Handler {
	h := &Handler{
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		if logger != nil {
			logger.Warn("process stats unavailable", "err", err)
		}
	} else {
		h.proc = proc
	}
	return h
}

// SetDNSStatsFunc sets the function to retrieve relay statistics.
func (h *Handler) SetDNSStatsFunc(fn DNSStatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dnsStatsFunc = fn
}

// GetDNSStatsFunc retrieves the relay statistics function.
func (h *Handler) GetDNSStatsFunc() DNSStatsFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dnsStatsFunc
}
