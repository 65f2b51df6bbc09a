package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	templatedto "github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/shared/id"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/utils"
)

type TemplateHandler struct {
	service templateService
	logger  logger.Interface
}

func NewTemplateHandler(service templateService, logger logger.Interface) *TemplateHandler {
	return &TemplateHandler{
		service: service,
		logger:  logger,
	}
}

// CreateTemplate handles POST /templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req templatedto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create template", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req.CreatedBy = utils.CallerID(c)

	result, err := h.service.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Template created successfully")
}

// ListTemplates handles GET /templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var req templatedto.ListTemplatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ListTemplates(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTemplate handles GET /templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, err := utils.ParseSIDParam(c, "id", id.PrefixTemplate, "template")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTemplate handles PUT /templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := utils.ParseSIDParam(c, "id", id.PrefixTemplate, "template")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req templatedto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update template",
			"template_id", templateID,
			"error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.UpdateTemplate(c.Request.Context(), templateID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Template updated successfully", result)
}

// DeleteTemplate handles DELETE /templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID, err := utils.ParseSIDParam(c, "id", id.PrefixTemplate, "template")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// CloneTemplate handles POST /templates/:id/clone
func (h *TemplateHandler) CloneTemplate(c *gin.Context) {
	templateID, err := utils.ParseSIDParam(c, "id", id.PrefixTemplate, "template")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req templatedto.CloneTemplateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}
	req.UserID = utils.CallerID(c)

	result, err := h.service.CloneTemplate(c.Request.Context(), templateID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Template cloned successfully")
}

// PreviewTemplate handles POST /templates/preview
func (h *TemplateHandler) PreviewTemplate(c *gin.Context) {
	var req templatedto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.PreviewTemplate(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GenerateFromTemplate handles POST /templates/generate
func (h *TemplateHandler) GenerateFromTemplate(c *gin.Context) {
	var req templatedto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	req.UserID = utils.CallerID(c)

	result, err := h.service.GenerateFromTemplate(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Announcement generated from template", result)
}

// InitializeSystemTemplates handles POST /templates/system/initialize
func (h *TemplateHandler) InitializeSystemTemplates(c *gin.Context) {
	result, err := h.service.InitializeSystemTemplates(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "System templates initialized", result)
}
