package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/highhandantidote/community/internal/utils"
)

// Identity header names. The upstream auth provider terminates
// authentication and forwards the caller's identity in these headers;
// this service trusts them as-is.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleModerator = "moderator"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// Identity extracts the caller's identity headers into the request context
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(HeaderUserID); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Set(ctxUserID, id)
			}
		}
		if role := c.GetHeader(HeaderUserRole); role != "" {
			c.Set(ctxUserRole, role)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, or 0 when anonymous
func CurrentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// IsModerator reports whether the caller carries the moderator role
func IsModerator(c *gin.Context) bool {
	if v, ok := c.Get(ctxUserRole); ok {
		if role, ok := v.(string); ok {
			return role == RoleModerator
		}
	}
	return false
}

// RequireUser aborts anonymous requests
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			respondError(c, utils.Forbidden("authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireModerator aborts requests without moderation privilege
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 || !IsModerator(c) {
			respondError(c, utils.Forbidden("moderator privilege required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
