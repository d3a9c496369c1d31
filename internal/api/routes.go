package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jroosing/dnsrelay/internal/api/handlers"
	"github.com/jroosing/dnsrelay/internal/api/middleware"
	"github.com/jroosing/dnsrelay/internal/config"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config, gatherer prometheus.Gatherer) {
	api := r.Group("/api/v1")
	api.GET("/health", h.Health)

	protected := api.Group("")
	var auth gin.HandlerFunc
	if cfg != nil && cfg.API.APIKey != "" {
		auth = middleware.RequireAPIKey(cfg.API.APIKey)
		protected.Use(auth)
	}
	protected.GET("/stats", h.Stats)
	protected.GET("/config", h.GetConfig)

	if gatherer != nil {
		metrics := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
		if auth != nil {
			r.GET("/metrics", auth, gin.WrapH(metrics))
		} else {
			r.GET("/metrics", gin.WrapH(metrics))
		}
	}
}
