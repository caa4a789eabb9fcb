package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/ports"
	"github.com/pathmint/waypoint/service"
)

// AuthMiddleware validates bearer tokens. Two independent checks must
// both pass: the token's signature and expiry, and the liveness of the
// session it references. A validly signed token whose session has been
// logged out or expired is rejected.
func AuthMiddleware(authService *service.AuthService, tokenizer ports.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := tokenizer.TokenToSession(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			if errors.Is(err, core.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		session, err := authService.ValidateSession(c.Request.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, core.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			}
			return
		}

		c.Set("userAddress", session.Address)
		c.Set("sessionId", session.ID)

		c.Next()
	}
}
