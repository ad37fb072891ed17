package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/models"
)

// SettingsRepository defines the interface for user settings operations
type SettingsRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	CreateDefault(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) (*models.UserSettings, error)
}

type settingsRepository struct {
	db database.Querier
}

// NewSettingsRepository creates a new settings repository instance
func NewSettingsRepository(db database.Querier) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	var settings []models.UserSettings
	if err := r.db.Query(ctx, &settings, `SELECT * FROM user_settings WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, ErrSettingsNotFound
	}
	return &settings[0], nil
}

// CreateDefault inserts the default row unless one already exists, then returns the stored row.
func (r *settingsRepository) CreateDefault(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	now := time.Now().UTC()
	prefs := datatypes.NewJSONType(models.DefaultNotificationPreferences())

	_, err := r.db.Exec(ctx,
		`INSERT INTO user_settings (user_id, notification_preferences, theme, language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, prefs, config.DefaultTheme, config.DefaultLanguage, now, now,
	)
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.UserSettings) (*models.UserSettings, error) {
	now := time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO user_settings (user_id, notification_preferences, theme, language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			notification_preferences = excluded.notification_preferences,
			theme = excluded.theme,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		s.UserID, s.NotificationPreferences, s.Theme, s.Language, now, now,
	)
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, s.UserID)
}

// Repository errors
var (
	ErrSettingsNotFound = errors.New("settings not found")
)
