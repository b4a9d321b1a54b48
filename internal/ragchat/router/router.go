// Package router wires the chat service HTTP routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/ragchat/internal/pkg/middleware"
	"github.com/kart-io/ragchat/internal/ragchat/handler"
	"github.com/kart-io/ragchat/pkg/app"
)

// ServiceName is reported by the banner and health endpoints.
const ServiceName = "ragchat"

// New builds the gin engine with all routes registered.
func New(ingestHandler *handler.IngestHandler, chatHandler *handler.ChatHandler) *gin.Engine {
	logger.Info("Registering routes...")

	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logger())

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": ServiceName,
			"version": app.GetVersion(),
			"status":  "running",
		})
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ingest := engine.Group("/ingest")
	{
		ingest.POST("/upload", ingestHandler.Upload)
		ingest.GET("/documents", ingestHandler.Documents)
		ingest.DELETE("/documents/:id", ingestHandler.Delete)
		ingest.GET("/stats", ingestHandler.Stats)
	}

	chat := engine.Group("/chat")
	{
		chat.POST("/message", chatHandler.Message)
		chat.GET("/history/:session_id", chatHandler.History)
		chat.DELETE("/history/:session_id", chatHandler.ClearHistory)
	}

	logger.Info("HTTP routes registered")
	return engine
}
