package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
)

// UserHandler handles user API requests for profile and settings management
type UserHandler struct {
	userService     service.UserService
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, settingsService service.SettingsService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService:     userService,
		settingsService: settingsService,
		logger:          logger,
	}
}

type UpdateProfileRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email"`
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"omitempty,min=6"`
}

type UpdateSettingsRequest struct {
	NotificationPreferences *models.NotificationPreferences `json:"notification_preferences"`
	Theme                   string                          `json:"theme" binding:"omitempty,oneof=light dark system"`
	Language                string                          `json:"language" binding:"omitempty,min=2,max=10"`
}

// GetProfile handles GET /user/profile - returns the current user
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PUT /user/update
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [UserHandler] Invalid profile request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Name, email, and currentPassword required."})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.handleServiceError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetSettings handles GET /user/settings, creating defaults on first access
func (h *UserHandler) GetSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /user/settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [UserHandler] Invalid settings request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), userID, service.UpdateSettingsInput{
		NotificationPreferences: req.NotificationPreferences,
		Theme:                   req.Theme,
		Language:                req.Language,
	})
	if err != nil {
		h.handleServiceError(c, err, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *UserHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, service.ErrInvalidTheme):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme"})
	default:
		h.logger.Error("❌ [UserHandler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
