// Package middleware holds the gin middleware shared by the API routes.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/services"
)

const (
	ownerKey   = "owner"
	sessionKey = "session"
	tokenKey   = "token"
)

// Auth resolves the bearer token into a session and stores the owner on the context.
func Auth(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			return
		}

		SetSession(c, token, session)
		c.Next()
	}
}

func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func SetSession(c *gin.Context, token string, session *models.Session) {
	c.Set(tokenKey, token)
	c.Set(sessionKey, session)
	c.Set(ownerKey, session.Owner())
}

func Owner(c *gin.Context) models.Owner {
	if v, ok := c.Get(ownerKey); ok {
		if owner, ok := v.(models.Owner); ok {
			return owner
		}
	}
	return models.Owner{}
}

func Session(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}

func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}
