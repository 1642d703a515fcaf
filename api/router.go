package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/api/handlers"
	"github.com/yourusername/you-get-desk/api/middleware"
	"github.com/yourusername/you-get-desk/pkg/logger"
)

// RouterDeps are the collaborators of the HTTP bridge
type RouterDeps struct {
	Service     handlers.DownloadService
	Hub         *handlers.EventHub
	EventLogger *logger.MultiLogger
	LogsDir     string
	Logger      *zap.Logger
}

// SetupRouter sets up the HTTP bridge the front end talks to
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log, deps.EventLogger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.Service, deps.Hub)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		downloadHandler := handlers.NewDownloadHandler(deps.Service, deps.Hub, log)

		tool := v1.Group("/tool")
		{
			tool.GET("/check", downloadHandler.CheckTool)
			tool.POST("/install", downloadHandler.InstallTool)
		}

		v1.POST("/info", downloadHandler.GetInfo)
		v1.POST("/downloads", downloadHandler.StartDownload)
		v1.GET("/download-dir", downloadHandler.GetDownloadDir)
		v1.GET("/status", downloadHandler.GetStatus)
		v1.GET("/history", downloadHandler.GetHistory)
		v1.GET("/events", deps.Hub.HandleWebSocket)

		// Log endpoints
		logHandler := handlers.NewLogHandler(deps.LogsDir)
		logStream := handlers.NewLogWebSocketHandler(deps.LogsDir, log)
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/stream", logStream.HandleWebSocket)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)
			logs.GET("/:category/export", logHandler.ExportLogs)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, handlers.ErrorResponse{Error: "not found"})
	})

	return router
}
