package http

import (
	"github.com/rewardsboard/eventcast/internal/interfaces/http/middleware"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/routes"
)

// SetupRoutes applies global middleware and registers every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.Identity())

	routes.SetupHealthRoutes(c.engine, &routes.HealthRouteConfig{
		HealthHandler: c.hdlrs.healthHandler,
	})

	routes.SetupTemplateRoutes(c.engine, &routes.TemplateRouteConfig{
		TemplateHandler: c.hdlrs.templateHandler,
	})

	routes.SetupAnnouncementRoutes(c.engine, &routes.AnnouncementRouteConfig{
		AnnouncementHandler: c.hdlrs.announcementHandler,
		EngagementLimiter:   c.engagementLimiter,
	})

	routes.SetupSubscriptionRoutes(c.engine, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.hdlrs.subscriptionHandler,
		AudienceHandler:     c.hdlrs.audienceHandler,
	})

	routes.SetupAnalyticsRoutes(c.engine, &routes.AnalyticsRouteConfig{
		AnalyticsHandler: c.hdlrs.analyticsHandler,
		TrackLimiter:     c.trackLimiter,
	})
}
