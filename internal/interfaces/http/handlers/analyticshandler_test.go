package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardsboard/eventcast/internal/application/analytics"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers/testutil"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

type mockAnalyticsService struct {
	trackFn       func(e engagement.Event) (engagement.Event, error)
	metricsFn     func(ctx context.Context, id uint) (*analytics.Metrics, error)
	reportFn      func(ctx context.Context, start, end *time.Time, limit int, period string) (*analytics.PerformanceReport, error)
	topFn         func(ctx context.Context, metric, timeframe string, limit int) ([]analytics.Metrics, error)
	userSummaryFn func(userID string) (*analytics.UserSummary, error)
	trendsFn      func(period, timeframe string) ([]analytics.TrendPoint, error)
	dashboardFn   func(ctx context.Context) (*analytics.Dashboard, error)
}

func (m *mockAnalyticsService) Track(e engagement.Event) (engagement.Event, error) {
	if m.trackFn != nil {
		return m.trackFn(e)
	}
	return e, nil
}

func (m *mockAnalyticsService) Metrics(ctx context.Context, id uint) (*analytics.Metrics, error) {
	if m.metricsFn != nil {
		return m.metricsFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnalyticsService) PerformanceReport(ctx context.Context, start, end *time.Time, limit int, period string) (*analytics.PerformanceReport, error) {
	if m.reportFn != nil {
		return m.reportFn(ctx, start, end, limit, period)
	}
	return nil, nil
}

func (m *mockAnalyticsService) TopPerforming(ctx context.Context, metric, timeframe string, limit int) ([]analytics.Metrics, error) {
	if m.topFn != nil {
		return m.topFn(ctx, metric, timeframe, limit)
	}
	return nil, nil
}

func (m *mockAnalyticsService) UserSummary(userID string) (*analytics.UserSummary, error) {
	if m.userSummaryFn != nil {
		return m.userSummaryFn(userID)
	}
	return nil, nil
}

func (m *mockAnalyticsService) Trends(period, timeframe string) ([]analytics.TrendPoint, error) {
	if m.trendsFn != nil {
		return m.trendsFn(period, timeframe)
	}
	return nil, nil
}

func (m *mockAnalyticsService) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	if m.dashboardFn != nil {
		return m.dashboardFn(ctx)
	}
	return nil, nil
}

func newTestAnalyticsHandler(svc analyticsService) *AnalyticsHandler {
	return NewAnalyticsHandler(svc, testutil.NewMockLogger())
}

func TestAnalyticsHandler_Track_UsesCallerIdentity(t *testing.T) {
	var captured engagement.Event
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		trackFn: func(e engagement.Event) (engagement.Event, error) {
			captured = e
			e.ID = "evt-1"
			return e, nil
		},
	})

	body := map[string]any{
		"announcement_id": 12,
		"action":          "click",
		"metadata":        map[string]any{"source": "banner"},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/analytics/track", body)
	testutil.SetCaller(c, "player-4")

	handler.Track(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "player-4", captured.UserID)
	assert.Equal(t, uint(12), captured.AnnouncementID)
	assert.Equal(t, engagement.ActionClick, captured.Action)
	assert.Equal(t, "banner", captured.Metadata["source"])

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data engagement.Event
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "evt-1", data.ID)
}

func TestAnalyticsHandler_Track_InvalidAction(t *testing.T) {
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		trackFn: func(e engagement.Event) (engagement.Event, error) {
			return engagement.Event{}, errors.NewValidationError("invalid engagement action", string(e.Action))
		},
	})

	c, w := testutil.NewTestContext(http.MethodPost, "/analytics/track",
		map[string]any{"announcement_id": 1, "action": "hover"})
	testutil.SetCaller(c, "player-4")

	handler.Track(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_GetPerformanceReport_ParsesRange(t *testing.T) {
	var gotStart, gotEnd *time.Time
	var gotLimit int
	var gotPeriod string
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		reportFn: func(ctx context.Context, start, end *time.Time, limit int, period string) (*analytics.PerformanceReport, error) {
			gotStart, gotEnd, gotLimit, gotPeriod = start, end, limit, period
			return &analytics.PerformanceReport{Period: period, Announcements: []*analytics.AnnouncementPerformance{}}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/performance-report", nil)
	testutil.SetQueryParams(c, map[string]string{
		"start":  "2024-03-01T00:00:00Z",
		"end":    "2024-03-15",
		"limit":  "5",
		"period": "week",
	})

	handler.GetPerformanceReport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotStart)
	require.NotNil(t, gotEnd)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *gotStart)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, "week", gotPeriod)
}

func TestAnalyticsHandler_GetPerformanceReport_InvalidStart(t *testing.T) {
	handler := newTestAnalyticsHandler(&mockAnalyticsService{})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/performance-report", nil)
	testutil.SetQueryParams(c, map[string]string{"start": "yesterday"})

	handler.GetPerformanceReport(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_GetTopPerforming_Defaults(t *testing.T) {
	var gotMetric, gotTimeframe string
	var gotLimit int
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		topFn: func(ctx context.Context, metric, timeframe string, limit int) ([]analytics.Metrics, error) {
			gotMetric, gotTimeframe, gotLimit = metric, timeframe, limit
			return []analytics.Metrics{}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/top-performing", nil)
	handler.GetTopPerforming(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, gotMetric)
	assert.Equal(t, "7d", gotTimeframe)
	assert.Equal(t, 10, gotLimit)
}

func TestAnalyticsHandler_GetMetrics_NotFound(t *testing.T) {
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		metricsFn: func(ctx context.Context, id uint) (*analytics.Metrics, error) {
			return nil, errors.NewNotFoundError("announcement not found")
		},
	})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/5/metrics", nil)
	testutil.SetURLParam(c, "id", "5")

	handler.GetMetrics(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyticsHandler_GetTrends_InvalidPeriod(t *testing.T) {
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		trendsFn: func(period, timeframe string) ([]analytics.TrendPoint, error) {
			return nil, errors.NewValidationError("invalid period", period)
		},
	})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/trends", nil)
	testutil.SetQueryParams(c, map[string]string{"period": "decade"})

	handler.GetTrends(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_GetUserSummary(t *testing.T) {
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		userSummaryFn: func(userID string) (*analytics.UserSummary, error) {
			return &analytics.UserSummary{UserID: userID, Actions: map[string]int{"view": 2}, TotalEvents: 2}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/users/player-2/summary", nil)
	testutil.SetURLParam(c, "userId", "player-2")

	handler.GetUserSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data analytics.UserSummary
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 2, data.TotalEvents)
}

func TestAnalyticsHandler_GetDashboard(t *testing.T) {
	handler := newTestAnalyticsHandler(&mockAnalyticsService{
		dashboardFn: func(ctx context.Context) (*analytics.Dashboard, error) {
			return &analytics.Dashboard{BufferedEvents: 3, BufferCapacity: 10000}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodGet, "/analytics/dashboard", nil)
	handler.GetDashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
