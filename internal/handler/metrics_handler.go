package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-bot/internal/service"
	"github.com/noah-isme/schedule-bot/pkg/response"
)

// OpsHandler serves the operational HTTP endpoints next to the bot.
type OpsHandler struct {
	metrics *service.MetricsService
	caches  *service.CacheService
}

// NewOpsHandler constructs an ops handler.
func NewOpsHandler(metrics *service.MetricsService, caches *service.CacheService) *OpsHandler {
	return &OpsHandler{metrics: metrics, caches: caches}
}

// Register mounts the ops routes on r.
func (h *OpsHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Prometheus)
	r.GET("/stats", h.Stats)
	r.POST("/cache/invalidate", h.InvalidateCache)
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *OpsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for readiness/liveness usage.
func (h *OpsHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// Stats returns a summary of bot activity.
func (h *OpsHandler) Stats(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}

// InvalidateCache drops the cache named by ?name=, or every cache without it.
func (h *OpsHandler) InvalidateCache(c *gin.Context) {
	if h.caches == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		h.caches.InvalidateAll()
		response.JSON(c, http.StatusOK, gin.H{"invalidated": h.caches.Names()})
		return
	}
	if err := h.caches.Invalidate(name); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"invalidated": []string{name}})
}
