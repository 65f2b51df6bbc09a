package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/middleware"
)

type AnnouncementRouteConfig struct {
	AnnouncementHandler *handlers.AnnouncementHandler
	// EngagementLimiter may be nil, in which case engagement is not rate limited.
	EngagementLimiter *middleware.RateLimiter
}

// engagementActions are the actions exposed as POST /announcements/:id/<action>.
// Comments have no counter and are only accepted through /analytics/track.
var engagementActions = []engagement.Action{
	engagement.ActionView,
	engagement.ActionLike,
	engagement.ActionShare,
	engagement.ActionClick,
	engagement.ActionAcknowledge,
}

func SetupAnnouncementRoutes(engine *gin.Engine, config *AnnouncementRouteConfig) {
	announcements := engine.Group("/announcements")
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts

		// Collection operations (no ID parameter)
		announcements.POST("", config.AnnouncementHandler.CreateAnnouncement)

		// Specific named endpoints (must come BEFORE /:id to avoid conflicts)
		announcements.GET("/published", config.AnnouncementHandler.ListPublished)

		// Engagement endpoints for individual announcements
		for _, action := range engagementActions {
			announcements.POST("/:id/"+string(action),
				middleware.RequireUser(),
				config.EngagementLimiter.Limit(),
				config.AnnouncementHandler.RecordEngagement(string(action)))
		}

		// Generic parameterized routes (must come LAST)
		announcements.GET("/:id", config.AnnouncementHandler.GetAnnouncement)
		announcements.PUT("/:id", config.AnnouncementHandler.UpdateAnnouncement)
	}
}
