package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	service DownloadService
	hub     *EventHub
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service DownloadService, hub *EventHub) *HealthHandler {
	return &HealthHandler{
		service: service,
		hub:     hub,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Downloading bool   `json:"downloading"`
	Listeners   int    `json:"listeners"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     Version,
		Downloading: h.service.IsDownloading(),
		Listeners:   h.hub.ClientCount(),
	})
}

// Ready handles GET /ready; the bridge is ready once the tool can be run
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.service.CheckToolInstalled(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "you-get is not installed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
