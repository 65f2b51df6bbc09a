package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriberdto "github.com/rewardsboard/eventcast/internal/application/subscriber/dto"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/utils"
)

// AudienceHandler manages the segment memberships the dispatcher matches
// target audiences against.
type AudienceHandler struct {
	service segmentService
	logger  logger.Interface
}

func NewAudienceHandler(service segmentService, logger logger.Interface) *AudienceHandler {
	return &AudienceHandler{
		service: service,
		logger:  logger,
	}
}

// ListSegments handles GET /audience/users/:userId/segments
func (h *AudienceHandler) ListSegments(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ListSegments(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AssignSegment handles POST /audience/users/:userId/segments
func (h *AudienceHandler) AssignSegment(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req subscriberdto.SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.AssignSegment(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Segment assigned", result)
}

// RemoveSegment handles DELETE /audience/users/:userId/segments/:segment
func (h *AudienceHandler) RemoveSegment(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.RemoveSegment(c.Request.Context(), userID, c.Param("segment")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func userIDParam(c *gin.Context) (string, error) {
	userID := c.Param("userId")
	if userID == "" {
		return "", errors.NewValidationError("user ID is required")
	}
	return userID, nil
}
