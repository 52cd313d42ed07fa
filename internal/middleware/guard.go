package middleware

import (
	"net/http"

	"skidqi-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireAuth aborts anonymous requests with 401. It expects Auth to have
// run on the wrapping http.Handler.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.GetUserIDFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the user holds role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := utils.GetUserIDFromContext(ctx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if utils.GetUserRoleFromContext(ctx) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
