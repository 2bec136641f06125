package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/recipebox/internal/session"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// RequireAuth rejects requests without a valid session with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := session.New(c).UserID()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized."})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the user id set by RequireAuth.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
