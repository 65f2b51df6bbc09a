package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/shared/constants"
	"github.com/rewardsboard/eventcast/internal/shared/utils"
)

// Identity copies the X-User-ID header into the request context. The header
// is trusted as is; authentication happens in front of this service.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(constants.HeaderXUserID)); userID != "" {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// RequireUser rejects requests that carry no caller identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CallerID(c) == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "X-User-ID header is required")
			c.Abort()
			return
		}
		c.Next()
	}
}
