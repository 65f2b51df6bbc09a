package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	announcementdto "github.com/rewardsboard/eventcast/internal/application/announcement/dto"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/utils"
)

type AnnouncementHandler struct {
	service announcementService
	logger  logger.Interface
}

func NewAnnouncementHandler(service announcementService, logger logger.Interface) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger,
	}
}

// CreateAnnouncement handles POST /announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req announcementdto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create announcement", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	req.CreatedBy = utils.CallerID(c)

	result, err := h.service.CreateAnnouncement(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Announcement created successfully")
}

// UpdateAnnouncement handles PUT /announcements/:id
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	announcementID, err := parseAnnouncementID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req announcementdto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update announcement",
			"announcement_id", announcementID,
			"error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.UpdateAnnouncement(c.Request.Context(), announcementID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Announcement updated successfully", result)
}

// GetAnnouncement handles GET /announcements/:id
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	announcementID, err := parseAnnouncementID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetAnnouncement(c.Request.Context(), announcementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPublished handles GET /announcements/published
func (h *AnnouncementHandler) ListPublished(c *gin.Context) {
	var req announcementdto.ListPublishedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ListPublished(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RecordEngagement returns the handler for POST /announcements/:id/<action>.
func (h *AnnouncementHandler) RecordEngagement(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		announcementID, err := parseAnnouncementID(c)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		result, err := h.service.RecordEngagement(c.Request.Context(), announcementID, utils.CallerID(c), action)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "Engagement recorded", result)
	}
}

func parseAnnouncementID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewValidationError("invalid announcement ID", raw)
	}
	return uint(n), nil
}
