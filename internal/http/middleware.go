package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clipstream/internal/token"
)

const userIDKey = "userID"

// bearerToken extracts the access token from the accessToken cookie or the
// Authorization header.
func bearerToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// requireAuth rejects requests without a valid access token and stores the
// authenticated user id on the context.
func requireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			respond(c, http.StatusUnauthorized, nil, "access token is required")
			c.Abort()
			return
		}
		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			respond(c, http.StatusUnauthorized, nil, "invalid access token")
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// optionalAuth resolves the requester identity when a valid token is
// present but lets anonymous requests through.
func optionalAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := tokens.VerifyAccess(raw); err == nil {
				c.Set(userIDKey, claims.Subject)
			}
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
