package api

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/dfs-dreamteam/internal/api/handlers"
	"github.com/stitts-dev/dfs-dreamteam/internal/api/middleware"
	"github.com/stitts-dev/dfs-dreamteam/internal/services"
	"github.com/stitts-dev/dfs-dreamteam/pkg/config"
)

// SetupRouter wires every route onto a new gin engine
func SetupRouter(service *services.DreamTeamService, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	healthHandler := handlers.NewHealthHandler(service)
	runHandler := handlers.NewRunHandler(service, cfg)
	streamHandler := handlers.NewStreamHandler(service)

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/runs", runHandler.CreateRun)
		apiV1.GET("/runs/:id", runHandler.GetRun)
		apiV1.GET("/runs/:id/top", runHandler.GetTopRosters)
		apiV1.GET("/runs/:id/containing", runHandler.GetRostersContaining)
	}

	router.GET("/ws/runs", streamHandler.HandleWebSocket)

	return router
}
