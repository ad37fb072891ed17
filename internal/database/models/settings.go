package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationPreferences is stored as JSON on the settings row
type NotificationPreferences struct {
	Email     bool `json:"email"`
	Push      bool `json:"push"`
	Marketing bool `json:"marketing,omitempty"`
}

// DefaultNotificationPreferences is used when settings are created lazily
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, Push: true}
}

// UserSettings is one-to-one with User, keyed by user id
type UserSettings struct {
	UserID                  uuid.UUID                                   `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	NotificationPreferences datatypes.JSONType[NotificationPreferences] `gorm:"column:notification_preferences" json:"notification_preferences"`
	Theme                   string                                      `gorm:"column:theme;not null" json:"theme"`
	Language                string                                      `gorm:"column:language;not null" json:"language"`
	CreatedAt               time.Time                                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt               time.Time                                   `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name
func (UserSettings) TableName() string {
	return "user_settings"
}
