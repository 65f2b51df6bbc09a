package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	subscriberdto "github.com/rewardsboard/eventcast/internal/application/subscriber/dto"
	"github.com/rewardsboard/eventcast/internal/infrastructure/realtime"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/utils"
)

type SubscriptionHandler struct {
	service  subscriptionService
	registry connectionRegistry
	upgrader *websocket.Upgrader
	// baseCtx outlives individual requests and is cancelled on shutdown so
	// hijacked websocket connections are closed too.
	baseCtx context.Context
	logger  logger.Interface
}

func NewSubscriptionHandler(
	baseCtx context.Context,
	service subscriptionService,
	registry connectionRegistry,
	upgrader *websocket.Upgrader,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:  service,
		registry: registry,
		upgrader: upgrader,
		baseCtx:  baseCtx,
		logger:   logger,
	}
}

// Subscribe handles POST /subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req subscriberdto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for subscribe", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Subscribe(c.Request.Context(), utils.CallerID(c), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscribed successfully")
}

// Unsubscribe handles DELETE /subscriptions
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	if err := h.service.Unsubscribe(c.Request.Context(), utils.CallerID(c)); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GetSubscription handles GET /subscriptions
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	result, err := h.service.GetSubscription(c.Request.Context(), utils.CallerID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdatePreferences handles PATCH /subscriptions/preferences. Without a
// subscription the call is a no-op and returns null data.
func (h *SubscriptionHandler) UpdatePreferences(c *gin.Context) {
	var req subscriberdto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.UpdatePreferences(c.Request.Context(), utils.CallerID(c), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result == nil {
		utils.SuccessResponse(c, http.StatusOK, "No subscription to update", nil)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Preferences updated successfully", result)
}

// Stats handles GET /subscriptions/stats
func (h *SubscriptionHandler) Stats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.service.Stats())
}

// Connect handles GET /ws. Browsers cannot set headers on a websocket
// handshake, so the user may also be given as the user_id query parameter.
func (h *SubscriptionHandler) Connect(c *gin.Context) {
	userID := utils.CallerID(c)
	if userID == "" {
		userID = c.Query("user_id")
	}
	if userID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user identity is required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.logger.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := realtime.NewClient(userID, conn, h.logger)
	if prev := h.registry.RegisterConnection(userID, client); prev != nil {
		if closer, ok := prev.(interface{ Close() }); ok {
			closer.Close()
		}
	}
	h.logger.Infow("realtime connection opened", "user_id", userID, "client_id", client.ID())

	defer func() {
		h.registry.RemoveConnectionIf(userID, client.ID())
		client.Close()
		h.logger.Infow("realtime connection closed", "user_id", userID, "client_id", client.ID())
	}()

	client.Run(h.baseCtx, func() { h.registry.Touch(userID) })
}
