package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-storefront/internal/user/service"
)

const sessionUserKey = "userID"

// RequireSession accepts a bearer token only when it belongs to the user
// currently signed in on this storefront.
func RequireSession(issuer service.SessionIssuer, auth service.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		userID, err := issuer.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidSession.Error()})
			return
		}
		current := auth.CurrentUser()
		if current == nil || current.ID != userID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidSession.Error()})
			return
		}
		c.Set(sessionUserKey, userID)
		c.Next()
	}
}

// SessionUserID returns the id stored by RequireSession, or "" outside it.
func SessionUserID(c *gin.Context) string {
	return c.GetString(sessionUserKey)
}
