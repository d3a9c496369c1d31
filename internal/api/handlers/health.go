package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsrelay/internal/api/models"
)

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats returns runtime, process and relay statistics.
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
		Process:       h.processStats(),
	}

	if fn := h.GetDNSStatsFunc(); fn != nil {
		resp.DNSStats = fn()
	}

	c.JSON(http.StatusOK, resp)
}

// processStats collects OS figures for this process. Individual lookups that
// fail are left at zero.
func (h *Handler) processStats() *models.ProcessStats {
	if h.proc == nil {
		return nil
	}
	ps := &models.ProcessStats{PID: h.proc.Pid}
	if mem, err := h.proc.MemoryInfo(); err == nil {
		ps.RSSMB = float64(mem.RSS) / 1024 / 1024
	}
	if cpu, err := h.proc.CPUPercent(); err == nil {
		ps.CPUPercent = cpu
	}
	if n, err := h.proc.NumThreads(); err == nil {
		ps.NumThreads = n
	}
	if n, err := h.proc.NumFDs(); err == nil {
		ps.NumFDs = n
	}
	return ps
}
