package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsrelay/internal/api/handlers"
	"github.com/jroosing/dnsrelay/internal/api/models"
	"github.com/jroosing/dnsrelay/internal/config"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createTestHandler(t *testing.T) *handlers.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 1053
	cfg.Upstream.Timeout = 2 * time.Second
	cfg.API.APIKey = "top-secret"
	return handlers.New(&cfg, nil)
}

func setupTestRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/health", h.Health)
	api.GET("/stats", h.Stats)
	api.GET("/config", h.GetConfig)
	return r
}

func get(t *testing.T, r http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

// ============================================================================
// Health Endpoint Tests
// ============================================================================

func TestHealth(t *testing.T) {
	r := setupTestRouter(createTestHandler(t))

	var resp models.StatusResponse
	w := get(t, r, "/api/v1/health", &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp.Status)
}

// ============================================================================
// Stats Endpoint Tests
// ============================================================================

func TestStats_WithoutRelayCounters(t *testing.T) {
	r := setupTestRouter(createTestHandler(t))

	var resp models.ServerStatsResponse
	w := get(t, r, "/api/v1/stats", &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp.Uptime)
	assert.Greater(t, resp.GoRoutines, 0)
	assert.Greater(t, resp.NumCPU, 0)
	assert.Zero(t, resp.DNSStats.Received)
}

func TestStats_ReportsRelayCounters(t *testing.T) {
	h := createTestHandler(t)
	h.SetDNSStatsFunc(func() models.DNSStatsResponse {
		return models.DNSStatsResponse{Received: 10, Malformed: 1, Forwarded: 7, ServFail: 2, AvgLatencyMs: 3.5}
	})
	r := setupTestRouter(h)

	var resp models.ServerStatsResponse
	w := get(t, r, "/api/v1/stats", &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(10), resp.DNSStats.Received)
	assert.Equal(t, uint64(1), resp.DNSStats.Malformed)
	assert.Equal(t, uint64(7), resp.DNSStats.Forwarded)
	assert.Equal(t, uint64(2), resp.DNSStats.ServFail)
	assert.InDelta(t, 3.5, resp.DNSStats.AvgLatencyMs, 0.001)
}

func TestStats_ProcessFigures(t *testing.T) {
	r := setupTestRouter(createTestHandler(t))

	var resp models.ServerStatsResponse
	get(t, r, "/api/v1/stats", &resp)
	if resp.Process == nil {
		t.Skip("process inspection unavailable on this platform")
	}
	assert.Positive(t, resp.Process.PID)
	assert.Greater(t, resp.Process.RSSMB, 0.0)
}

// ============================================================================
// Config Endpoint Tests
// ============================================================================

func TestGetConfig_RedactsAPIKey(t *testing.T) {
	r := setupTestRouter(createTestHandler(t))

	w := get(t, r, "/api/v1/config", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "top-secret")

	var resp models.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1053, resp.Server.Port)
	assert.Equal(t, resolvers.DefaultUpstream, resp.Upstream.Address)
	assert.Equal(t, "2s", resp.Upstream.Timeout)
	assert.True(t, resp.API.AuthEnabled)
}

func TestGetConfig_NilConfig(t *testing.T) {
	r := setupTestRouter(handlers.New(nil, nil))

	var resp models.ErrorResponse
	w := get(t, r, "/api/v1/config", &resp)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "config unavailable", resp.Error)
}
