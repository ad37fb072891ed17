package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
	"github.com/estatehub/backend-go/internal/testutil"
)

func TestUserService_UpdateProfile(t *testing.T) {
	userID := uuid.New()
	current := &models.User{ID: userID, Email: "me@example.com", Name: "Me", Password: hashPassword(t, "secret1")}

	tests := []struct {
		name       string
		input      service.UpdateProfileInput
		setupMocks func(*testutil.MockUserRepository, *testutil.MockRefreshTokenRepository)
		wantErr    error
	}{
		{
			name:  "rename keeps password",
			input: service.UpdateProfileInput{Name: " New Name ", Email: "ME@example.com", CurrentPassword: "secret1"},
			setupMocks: func(repo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				repo.On("UpdateProfile", mock.Anything, userID, "New Name", "me@example.com", (*string)(nil)).
					Return(&models.User{ID: userID, Name: "New Name", Email: "me@example.com"}, nil)
			},
		},
		{
			name:  "new password is hashed",
			input: service.UpdateProfileInput{Name: "Me", Email: "me@example.com", CurrentPassword: "secret1", NewPassword: "secret2"},
			setupMocks: func(repo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				repo.On("UpdateProfile", mock.Anything, userID, "Me", "me@example.com", mock.MatchedBy(func(hash *string) bool {
					return hash != nil && bcrypt.CompareHashAndPassword([]byte(*hash), []byte("secret2")) == nil
				})).Return(&models.User{ID: userID}, nil)
				tokenRepo.On("RevokeAllUserTokens", mock.Anything, userID).Return(nil)
			},
		},
		{
			name:       "wrong current password",
			input:      service.UpdateProfileInput{Name: "Me", Email: "me@example.com", CurrentPassword: "nope"},
			setupMocks: func(repo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {},
			wantErr:    service.ErrIncorrectPassword,
		},
		{
			name:  "email taken by someone else",
			input: service.UpdateProfileInput{Name: "Me", Email: "taken@example.com", CurrentPassword: "secret1"},
			setupMocks: func(repo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				repo.On("FindByEmail", mock.Anything, "taken@example.com").
					Return(&models.User{ID: uuid.New(), Email: "taken@example.com"}, nil)
			},
			wantErr: service.ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			tokenRepo := new(testutil.MockRefreshTokenRepository)
			repo.On("FindByID", mock.Anything, userID).Return(current, nil)
			tt.setupMocks(repo, tokenRepo)

			user, err := service.NewUserService(repo, tokenRepo, testutil.TestLogger()).UpdateProfile(context.Background(), userID, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				tokenRepo.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
			tokenRepo.AssertExpectations(t)
			if tt.input.NewPassword == "" {
				tokenRepo.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSettingsService_GetSettingsCreatesDefaults(t *testing.T) {
	userID := uuid.New()
	defaults := &models.UserSettings{
		UserID:                  userID,
		NotificationPreferences: datatypes.NewJSONType(models.DefaultNotificationPreferences()),
		Theme:                   "system",
		Language:                "en",
	}

	repo := new(testutil.MockSettingsRepository)
	repo.On("FindByUser", mock.Anything, userID).Return(nil, repository.ErrSettingsNotFound)
	repo.On("CreateDefault", mock.Anything, userID).Return(defaults, nil)

	settings, err := service.NewSettingsService(repo, testutil.TestLogger()).GetSettings(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "system", settings.Theme)
	repo.AssertExpectations(t)
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	userID := uuid.New()

	t.Run("fills defaults", func(t *testing.T) {
		repo := new(testutil.MockSettingsRepository)
		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *models.UserSettings) bool {
			return s.UserID == userID &&
				s.Theme == "dark" &&
				s.Language == "en" &&
				s.NotificationPreferences.Data() == models.DefaultNotificationPreferences()
		})).Return(&models.UserSettings{UserID: userID, Theme: "dark", Language: "en"}, nil)

		settings, err := service.NewSettingsService(repo, testutil.TestLogger()).
			UpdateSettings(context.Background(), userID, service.UpdateSettingsInput{Theme: "dark"})
		require.NoError(t, err)
		assert.Equal(t, "dark", settings.Theme)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown theme", func(t *testing.T) {
		repo := new(testutil.MockSettingsRepository)

		_, err := service.NewSettingsService(repo, testutil.TestLogger()).
			UpdateSettings(context.Background(), userID, service.UpdateSettingsInput{Theme: "neon"})
		assert.ErrorIs(t, err, service.ErrInvalidTheme)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
