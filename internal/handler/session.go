package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/middleware"
)

// SessionCookie writes the access token cookie read by the auth middleware
type SessionCookie struct {
	name   string
	maxAge int
	secure bool
}

func NewSessionCookie(cfg *config.Config) SessionCookie {
	return SessionCookie{
		name:   cfg.SessionCookieName,
		maxAge: int(cfg.AccessTokenExpiration),
		secure: cfg.IsProduction(),
	}
}

func (s SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, token, s.maxAge, "/", "", s.secure, true)
}

func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}

// requireUserID reads the authenticated user, answering 401 when absent
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}
