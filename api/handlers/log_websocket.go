package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/pkg/logger"
)

// LogWebSocketHandler streams a category log over a WebSocket as it grows
type LogWebSocketHandler struct {
	logReader *logger.LogReader
	logger    *zap.Logger
}

// NewLogWebSocketHandler creates a new WebSocket handler
func NewLogWebSocketHandler(logsDir string, log *zap.Logger) *LogWebSocketHandler {
	return &LogWebSocketHandler{
		logReader: logger.NewLogReader(logsDir),
		logger:    log,
	}
}

// HandleWebSocket handles GET /api/v1/logs/stream?category=download
func (h *LogWebSocketHandler) HandleWebSocket(c *gin.Context) {
	category := c.DefaultQuery("category", string(logger.CategoryDownload))
	if !logger.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	// backlog: the last 50 entries
	if entries, err := h.logReader.ReadLogs(logger.LogCategory(category), time.Now(), 50); err == nil {
		for _, entry := range entries {
			if err := h.writeEntry(conn, entry); err != nil {
				return
			}
		}
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	entries := make(chan logger.LogEntry, 100)
	go func() {
		if err := h.logReader.TailLogs(ctx, logger.LogCategory(category), entries); err != nil {
			h.logger.Error("Log tailing error", zap.Error(err))
		}
	}()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-entries:
			if err := h.writeEntry(conn, entry); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *LogWebSocketHandler) writeEntry(conn *websocket.Conn, entry logger.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
