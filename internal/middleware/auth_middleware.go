package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/database/service"
)

// UserIDKey is the gin context key holding the authenticated uuid.UUID
const UserIDKey = "userID"

// AuthMiddleware handles JWT validation
type AuthMiddleware struct {
	service    service.AuthService
	cookieName string
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, cookieName string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service:    service,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RequireAuth validates the JWT token and sets userID in context.
// The Authorization header wins; the session cookie is the fallback.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, message := m.authenticate(c)
		if message != "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", userID)

		c.Next()
	}
}

// RequireSession guards HTML pages: unauthenticated visitors are redirected to loginPath.
func (m *AuthMiddleware) RequireSession(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, message := m.authenticate(c)
		if message != "" {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets userID when valid credentials are present and never aborts
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if cookie, err := c.Cookie(m.cookieName); err != nil || cookie == "" {
				c.Next()
				return
			}
		}
		if userID, message := m.authenticate(c); message == "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (uuid.UUID, string) {
	tokenString := ""

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
			return uuid.Nil, "Invalid authorization header format"
		}
		tokenString = parts[1]
	} else if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		tokenString = cookie
	}

	if tokenString == "" {
		m.logger.Warn("⚠️ [Middleware] Missing credentials", "path", c.Request.URL.Path)
		return uuid.Nil, "Unauthorized"
	}

	userID, err := m.service.ValidateAccessToken(tokenString)
	if err != nil {
		m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
		return uuid.Nil, "Invalid or expired token"
	}
	return userID, ""
}

// GetUserID reads the authenticated user set by RequireAuth
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}
