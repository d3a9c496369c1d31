package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsrelay/internal/api/models"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

// GetConfig returns the effective configuration with the API key redacted.
func (h *Handler) GetConfig(c *gin.Context) {
	if h.cfg == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "config unavailable"})
		return
	}

	resp := models.ConfigResponse{
		Server: models.ServerConfigResponse{
			Host:           h.cfg.Server.Host,
			Port:           h.cfg.Server.Port,
			MaxConcurrency: h.cfg.Server.MaxConcurrency,
			ReusePort:      h.cfg.Server.ReusePort,
		},
		Upstream: models.UpstreamConfigResponse{
			Address: resolvers.DefaultUpstream,
			Timeout: h.cfg.Upstream.Timeout.String(),
		},
		Logging: models.LoggingConfigResponse{
			Level:            h.cfg.Logging.Level,
			Structured:       h.cfg.Logging.Structured,
			StructuredFormat: h.cfg.Logging.StructuredFormat,
			IncludePID:       h.cfg.Logging.IncludePID,
			ExtraFields:      h.cfg.Logging.ExtraFields,
		},
		API: models.APIConfigResponse{
			Enabled:     h.cfg.API.Enabled,
			Host:        h.cfg.API.Host,
			Port:        h.cfg.API.Port,
			AuthEnabled: h.cfg.API.APIKey != "",
		},
	}

	c.JSON(http.StatusOK, resp)
}
