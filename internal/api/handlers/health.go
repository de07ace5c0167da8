package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-dreamteam/internal/services"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	service *services.DreamTeamService
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.DreamTeamService) *HealthHandler {
	return &HealthHandler{
		service: service,
		started: time.Now(),
	}
}

// GetHealth returns 200 whenever the server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "dreamteam",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.started).String(),
	})
}

// GetReady reports the stored runs and the limits new runs are built with
func (h *HealthHandler) GetReady(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ready",
		"stored_runs": len(h.service.Runs()),
		"rules":       h.service.Rules(),
	})
}
