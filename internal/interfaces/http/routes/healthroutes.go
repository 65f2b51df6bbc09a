package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
)

type HealthRouteConfig struct {
	HealthHandler *handlers.HealthHandler
}

func SetupHealthRoutes(engine *gin.Engine, config *HealthRouteConfig) {
	engine.GET("/health", config.HealthHandler.HealthCheck)
	engine.GET("/health/ready", config.HealthHandler.Ready)
	engine.GET("/health/live", config.HealthHandler.Live)
	engine.GET("/version", config.HealthHandler.Version)
}
