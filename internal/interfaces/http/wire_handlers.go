package http

import (
	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	templateHandler     *handlers.TemplateHandler
	announcementHandler *handlers.AnnouncementHandler
	subscriptionHandler *handlers.SubscriptionHandler
	audienceHandler     *handlers.AudienceHandler
	analyticsHandler    *handlers.AnalyticsHandler
	healthHandler       *handlers.HealthHandler
}
