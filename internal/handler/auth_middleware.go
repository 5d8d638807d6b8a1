package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

const callerContextKey = "caller_id"

// AuthRequired resolves the caller identity from a Bearer token and aborts
// with 401 when the token is missing, invalid, or names a user that no
// longer exists. Handlers behind it can rely on callerID being set.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			respondError(c, http.StatusUnauthorized, "authorization header must be a Bearer token")
			c.Abort()
			return
		}

		userID, err := a.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if _, err := a.users.Get(userID); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				respondError(c, http.StatusUnauthorized, "invalid or expired token")
			} else {
				respondError(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
			return
		}

		c.Set(callerContextKey, userID)
		c.Next()
	}
}

func callerID(c *gin.Context) uint {
	value, exists := c.Get(callerContextKey)
	if !exists {
		return 0
	}
	id, ok := value.(uint)
	if !ok {
		return 0
	}
	return id
}
