package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// DownloadService is the set of operations the API exposes
type DownloadService interface {
	CheckToolInstalled(ctx context.Context) bool
	InstallTool(ctx context.Context) error
	FetchVideoInfo(ctx context.Context, url, cookiesPath string) (*domain.MediaInfo, error)
	StartDownload(req domain.DownloadRequest, emitter domain.EventEmitter) error
	DefaultDownloadDirectory() (string, error)
	IsDownloading() bool
	History(limit int) ([]*domain.DownloadRecord, error)
	HistoryStats() (*domain.DownloadStats, error)
}

// DownloadHandler handles tool, metadata and download requests
type DownloadHandler struct {
	service DownloadService
	emitter domain.EventEmitter
	logger  *zap.Logger
}

// NewDownloadHandler creates a new download handler; progress goes to emitter
func NewDownloadHandler(service DownloadService, emitter domain.EventEmitter, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		service: service,
		emitter: emitter,
		logger:  logger,
	}
}

// CheckTool handles GET /api/v1/tool/check
func (h *DownloadHandler) CheckTool(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"installed": h.service.CheckToolInstalled(c.Request.Context())})
}

// InstallTool handles POST /api/v1/tool/install
func (h *DownloadHandler) InstallTool(c *gin.Context) {
	if err := h.service.InstallTool(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installed": true})
}

// GetInfo handles POST /api/v1/info
func (h *DownloadHandler) GetInfo(c *gin.Context) {
	var req domain.InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	info, err := h.service.FetchVideoInfo(c.Request.Context(), req.URL, req.CookiesPath)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// StartDownload handles POST /api/v1/downloads.
// The response is sent when the download finishes; progress is pushed on the events socket.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req domain.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.service.StartDownload(req, h.emitter); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusCompleted})
}

// GetDownloadDir handles GET /api/v1/download-dir
func (h *DownloadHandler) GetDownloadDir(c *gin.Context) {
	dir, err := h.service.DefaultDownloadDirectory()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": dir})
}

// GetStatus handles GET /api/v1/status
func (h *DownloadHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"downloading": h.service.IsDownloading()})
}

// GetHistory handles GET /api/v1/history
func (h *DownloadHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	records, err := h.service.History(limit)
	if err != nil {
		h.logger.Error("Failed to read download history", zap.Error(err))
		writeError(c, err)
		return
	}

	stats, err := h.service.HistoryStats()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
		"stats":   stats,
	})
}
