package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/middleware"
)

type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	AudienceHandler     *handlers.AudienceHandler
}

func SetupSubscriptionRoutes(engine *gin.Engine, config *SubscriptionRouteConfig) {
	// Websocket handshake resolves identity itself since browsers cannot set headers
	engine.GET("/ws", config.SubscriptionHandler.Connect)

	subscriptions := engine.Group("/subscriptions")
	{
		subscriptions.GET("/stats", config.SubscriptionHandler.Stats)

		caller := subscriptions.Group("")
		caller.Use(middleware.RequireUser())
		{
			caller.GET("", config.SubscriptionHandler.GetSubscription)
			caller.POST("", config.SubscriptionHandler.Subscribe)
			caller.DELETE("", config.SubscriptionHandler.Unsubscribe)
			caller.PATCH("/preferences", config.SubscriptionHandler.UpdatePreferences)
		}
	}

	audience := engine.Group("/audience/users/:userId/segments")
	{
		audience.GET("", config.AudienceHandler.ListSegments)
		audience.POST("", config.AudienceHandler.AssignSegment)
		audience.DELETE("/:segment", config.AudienceHandler.RemoveSegment)
	}
}
