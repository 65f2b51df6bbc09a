package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/middleware"
)

type AnalyticsRouteConfig struct {
	AnalyticsHandler *handlers.AnalyticsHandler
	// TrackLimiter may be nil, in which case tracking is not rate limited.
	TrackLimiter *middleware.RateLimiter
}

func SetupAnalyticsRoutes(engine *gin.Engine, config *AnalyticsRouteConfig) {
	analytics := engine.Group("/analytics")
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts
		analytics.POST("/track",
			middleware.RequireUser(),
			config.TrackLimiter.Limit(),
			config.AnalyticsHandler.Track)

		analytics.GET("/performance-report", config.AnalyticsHandler.GetPerformanceReport)
		analytics.GET("/top-performing", config.AnalyticsHandler.GetTopPerforming)
		analytics.GET("/trends", config.AnalyticsHandler.GetTrends)
		analytics.GET("/dashboard", config.AnalyticsHandler.GetDashboard)
		analytics.GET("/users/:userId/summary", config.AnalyticsHandler.GetUserSummary)

		// Generic parameterized routes (must come LAST)
		analytics.GET("/:id/metrics", config.AnalyticsHandler.GetMetrics)
	}
}
