package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/utils"
)

// TrackEventRequest is the body of POST /analytics/track. The user comes
// from the caller identity, never from the body.
type TrackEventRequest struct {
	AnnouncementID uint           `json:"announcement_id" binding:"required"`
	Action         string         `json:"action" binding:"required"`
	Metadata       map[string]any `json:"metadata"`
}

type AnalyticsHandler struct {
	service analyticsService
	logger  logger.Interface
}

func NewAnalyticsHandler(service analyticsService, logger logger.Interface) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// Track handles POST /analytics/track
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	event, err := h.service.Track(engagement.Event{
		UserID:         utils.CallerID(c),
		AnnouncementID: req.AnnouncementID,
		Action:         engagement.Action(req.Action),
		Metadata:       req.Metadata,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, event, "Event tracked")
}

// GetMetrics handles GET /analytics/:id/metrics
func (h *AnalyticsHandler) GetMetrics(c *gin.Context) {
	announcementID, err := parseAnnouncementID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Metrics(c.Request.Context(), announcementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetPerformanceReport handles GET /analytics/performance-report.
// start and end accept RFC3339 timestamps or YYYY-MM-DD business dates.
func (h *AnalyticsHandler) GetPerformanceReport(c *gin.Context) {
	start, err := parseTimeQuery(c, "start")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	end, err := parseTimeQuery(c, "end")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.PerformanceReport(
		c.Request.Context(),
		start,
		end,
		utils.ParseQueryInt(c, "limit", 0),
		c.DefaultQuery("period", biztime.PeriodDay),
	)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTopPerforming handles GET /analytics/top-performing
func (h *AnalyticsHandler) GetTopPerforming(c *gin.Context) {
	result, err := h.service.TopPerforming(
		c.Request.Context(),
		c.Query("metric"),
		c.DefaultQuery("timeframe", "7d"),
		utils.ParseQueryInt(c, "limit", 10),
	)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetUserSummary handles GET /analytics/users/:userId/summary
func (h *AnalyticsHandler) GetUserSummary(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.UserSummary(userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTrends handles GET /analytics/trends
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	result, err := h.service.Trends(
		c.DefaultQuery("period", biztime.PeriodDay),
		c.DefaultQuery("timeframe", "7d"),
	)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetDashboard handles GET /analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	result, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := biztime.ParseDateInBizTimezone(raw)
	if err != nil {
		return nil, errors.NewValidationError("invalid "+name+" time", raw)
	}
	return &t, nil
}
