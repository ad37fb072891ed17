package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
)

// SettingsService defines the interface for user settings logic
type SettingsService interface {
	GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, input UpdateSettingsInput) (*models.UserSettings, error)
}

// UpdateSettingsInput replaces the stored settings; empty values fall back to defaults
type UpdateSettingsInput struct {
	NotificationPreferences *models.NotificationPreferences
	Theme                   string
	Language                string
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	logger       *slog.Logger
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(settingsRepo repository.SettingsRepository, logger *slog.Logger) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetSettings returns the stored settings, creating the default row on first access.
func (s *settingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.FindByUser(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrSettingsNotFound) {
		s.logger.Error("❌ [SettingsService] Database error", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("🆕 [SettingsService] Creating default settings", "user_id", userID)
	return s.settingsRepo.CreateDefault(ctx, userID)
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, input UpdateSettingsInput) (*models.UserSettings, error) {
	prefs := models.DefaultNotificationPreferences()
	if input.NotificationPreferences != nil {
		prefs = *input.NotificationPreferences
	}

	theme := input.Theme
	if theme == "" {
		theme = config.DefaultTheme
	}
	if !config.IsValidTheme(theme) {
		return nil, ErrInvalidTheme
	}

	language := input.Language
	if language == "" {
		language = config.DefaultLanguage
	}

	settings, err := s.settingsRepo.Upsert(ctx, &models.UserSettings{
		UserID:                  userID,
		NotificationPreferences: datatypes.NewJSONType(prefs),
		Theme:                   theme,
		Language:                language,
	})
	if err != nil {
		s.logger.Error("❌ [SettingsService] Failed to upsert settings", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [SettingsService] Settings saved", "user_id", userID, "theme", theme, "language", language)
	return settings, nil
}
