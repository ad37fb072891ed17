package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
)

// AuthHandler starts, rotates and ends account sessions. Every issued access
// token is also written to the session cookie so the dashboard pages share it.
type AuthHandler struct {
	service service.AuthService
	cookie  SessionCookie
	logger  *slog.Logger
}

func NewAuthHandler(service service.AuthService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  NewSessionCookie(cfg),
		logger:  logger,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AccountSummary is the public view of the account a session belongs to
type AccountSummary struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	MemberSince time.Time `json:"created_at"`
}

// SessionResponse carries the token pair; Account is set when a session starts
type SessionResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	Account      *AccountSummary `json:"user,omitempty"`
}

// bindingMessages names the first failing field of a sign-up or sign-in form
var bindingMessages = map[string]string{
	"Email":        "A valid email address is required",
	"Name":         "Name is required (max 100 characters)",
	"Password":     "Password is required (min 6 characters)",
	"RefreshToken": "Refresh token required",
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req, "registration") {
		return
	}

	user, tokens, err := h.service.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.startSession(c, http.StatusCreated, user, tokens)
}

// Login signs an existing account in
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req, "login") {
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.startSession(c, http.StatusOK, user, tokens)
}

// RefreshToken exchanges a refresh token for a new pair; the old one stops working
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !h.bind(c, &req, "refresh") {
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.cookie.Clear(c)
		h.handleServiceError(c, err)
		return
	}

	h.startSession(c, http.StatusOK, nil, tokens)
}

// Logout revokes the refresh token and drops the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if !h.bind(c, &req, "logout") {
		return
	}

	h.cookie.Clear(c)
	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User, tokens *service.TokenPair) {
	h.cookie.Set(c, tokens.AccessToken)

	resp := SessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    tokens.ExpiresIn,
	}
	if user != nil {
		resp.Account = &AccountSummary{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			MemberSince: user.CreatedAt,
		}
	}
	c.JSON(status, resp)
}

// bind decodes the JSON body and answers 400 naming the first invalid field
func (h *AuthHandler) bind(c *gin.Context, req any, action string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	h.logger.Warn("⚠️ [AuthHandler] Invalid request", "action", action, "error", err)

	message := "Invalid request body"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if m, ok := bindingMessages[verrs[0].Field()]; ok {
			message = m
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
	return false
}

func (h *AuthHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, repository.ErrTokenNotFound),
		errors.Is(err, repository.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
	default:
		h.logger.Error("❌ [AuthHandler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
