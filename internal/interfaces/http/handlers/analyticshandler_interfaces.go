package handlers

import (
	"context"
	"time"

	"github.com/rewardsboard/eventcast/internal/application/analytics"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
)

// analyticsService is the subset of analytics.Tracker used by AnalyticsHandler.
type analyticsService interface {
	Track(e engagement.Event) (engagement.Event, error)
	Metrics(ctx context.Context, id uint) (*analytics.Metrics, error)
	PerformanceReport(ctx context.Context, start, end *time.Time, limit int, period string) (*analytics.PerformanceReport, error)
	TopPerforming(ctx context.Context, metric, timeframe string, limit int) ([]analytics.Metrics, error)
	UserSummary(userID string) (*analytics.UserSummary, error)
	Trends(period, timeframe string) ([]analytics.TrendPoint, error)
	Dashboard(ctx context.Context) (*analytics.Dashboard, error)
}
