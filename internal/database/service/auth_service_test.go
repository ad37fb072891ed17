package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
	"github.com/estatehub/backend-go/internal/testutil"
)

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) service.AuthService {
	return service.NewAuthService(userRepo, tokenRepo, testutil.TestConfig(), testutil.TestLogger())
}

// ==================== AUTH SERVICE UNIT TESTS ====================

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		setupMocks  func(*testutil.MockUserRepository, *testutil.MockRefreshTokenRepository)
		wantErr     error
		checkTokens bool
	}{
		{
			name:  "success",
			email: "  Test@Example.com ",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, repository.ErrUserNotFound)
				userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
					user := args.Get(1).(*models.User)
					user.ID = uuid.New()
				}).Return(nil)
				tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)
			},
			checkTokens: true,
		},
		{
			name:  "email already exists",
			email: "existing@example.com",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&models.User{ID: uuid.New(), Email: "existing@example.com"}, nil)
			},
			wantErr: service.ErrEmailAlreadyExists,
		},
		{
			name:  "concurrent registration hits unique index",
			email: "race@example.com",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, repository.ErrUserNotFound)
				userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey)
			},
			wantErr: service.ErrEmailAlreadyExists,
		},
		{
			name:  "lookup failure",
			email: "broken@example.com",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "broken@example.com").Return(nil, errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(testutil.MockUserRepository)
			tokenRepo := new(testutil.MockRefreshTokenRepository)
			tt.setupMocks(userRepo, tokenRepo)

			user, tokens, err := newAuthService(userRepo, tokenRepo).Register(context.Background(), tt.email, "Test User", "password123")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "test@example.com", user.Email)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
				cost, err := bcrypt.Cost([]byte(user.Password))
				require.NoError(t, err)
				assert.Equal(t, service.PasswordCost, cost)
				if tt.checkTokens {
					assert.NotEmpty(t, tokens.AccessToken)
					assert.NotEmpty(t, tokens.RefreshToken)
				}
			}

			userRepo.AssertExpectations(t)
			tokenRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	validHash := hashPassword(t, "password")
	userID := uuid.New()

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(*testutil.MockUserRepository, *testutil.MockRefreshTokenRepository)
		wantErr    error
	}{
		{
			name:     "success",
			email:    "test@example.com",
			password: "password",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: userID, Email: "test@example.com", Password: validHash}, nil)
				tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)
			},
		},
		{
			name:     "user not found",
			email:    "nonexistent@example.com",
			password: "password",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "nonexistent@example.com").Return(nil, repository.ErrUserNotFound)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMocks: func(userRepo *testutil.MockUserRepository, tokenRepo *testutil.MockRefreshTokenRepository) {
				userRepo.On("FindByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: userID, Email: "test@example.com", Password: validHash}, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(testutil.MockUserRepository)
			tokenRepo := new(testutil.MockRefreshTokenRepository)
			tt.setupMocks(userRepo, tokenRepo)

			authService := newAuthService(userRepo, tokenRepo)
			user, tokens, err := authService.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, user.ID)

				validated, err := authService.ValidateAccessToken(tokens.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, userID, validated)
			}

			userRepo.AssertExpectations(t)
			tokenRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	userID := uuid.New()

	t.Run("rotates the token", func(t *testing.T) {
		userRepo := new(testutil.MockUserRepository)
		tokenRepo := new(testutil.MockRefreshTokenRepository)
		tokenRepo.On("FindByToken", mock.Anything, "old").Return(&models.RefreshToken{UserID: userID, Token: "old"}, nil)
		tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)
		tokenRepo.On("RevokeToken", mock.Anything, "old").Return(nil)

		tokens, err := newAuthService(userRepo, tokenRepo).RefreshToken(context.Background(), "old")
		require.NoError(t, err)
		assert.NotEqual(t, "old", tokens.RefreshToken)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("token consumed by a concurrent refresh", func(t *testing.T) {
		userRepo := new(testutil.MockUserRepository)
		tokenRepo := new(testutil.MockRefreshTokenRepository)
		tokenRepo.On("FindByToken", mock.Anything, "old").Return(&models.RefreshToken{UserID: userID, Token: "old"}, nil)
		tokenRepo.On("RevokeToken", mock.Anything, "old").Return(repository.ErrTokenNotFound)

		tokens, err := newAuthService(userRepo, tokenRepo).RefreshToken(context.Background(), "old")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
		assert.Nil(t, tokens)
		tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("revoke failure issues nothing", func(t *testing.T) {
		userRepo := new(testutil.MockUserRepository)
		tokenRepo := new(testutil.MockRefreshTokenRepository)
		tokenRepo.On("FindByToken", mock.Anything, "old").Return(&models.RefreshToken{UserID: userID, Token: "old"}, nil)
		tokenRepo.On("RevokeToken", mock.Anything, "old").Return(errors.New("connection reset"))

		tokens, err := newAuthService(userRepo, tokenRepo).RefreshToken(context.Background(), "old")
		assert.Error(t, err)
		assert.Nil(t, tokens)
		tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown token", func(t *testing.T) {
		userRepo := new(testutil.MockUserRepository)
		tokenRepo := new(testutil.MockRefreshTokenRepository)
		tokenRepo.On("FindByToken", mock.Anything, "bogus").Return(nil, repository.ErrTokenNotFound)

		_, err := newAuthService(userRepo, tokenRepo).RefreshToken(context.Background(), "bogus")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	userRepo := new(testutil.MockUserRepository)
	tokenRepo := new(testutil.MockRefreshTokenRepository)
	tokenRepo.On("RevokeToken", mock.Anything, "valid").Return(nil)
	tokenRepo.On("RevokeToken", mock.Anything, "gone").Return(repository.ErrTokenNotFound)

	authService := newAuthService(userRepo, tokenRepo)
	assert.NoError(t, authService.Logout(context.Background(), "valid"))
	assert.ErrorIs(t, authService.Logout(context.Background(), "gone"), repository.ErrTokenNotFound)
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(new(testutil.MockUserRepository), new(testutil.MockRefreshTokenRepository), cfg, testutil.TestLogger())
	userID := uuid.New()

	sign := func(claims jwt.MapClaims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:  "valid access token",
			token: sign(jwt.MapClaims{"user_id": userID.String(), "type": "access", "exp": future}, cfg.JWTSecret),
		},
		{
			name:    "wrong secret",
			token:   sign(jwt.MapClaims{"user_id": userID.String(), "type": "access", "exp": future}, "other-secret"),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   sign(jwt.MapClaims{"user_id": userID.String(), "type": "access", "exp": time.Now().Add(-time.Minute).Unix()}, cfg.JWTSecret),
			wantErr: true,
		},
		{
			name:    "not an access token",
			token:   sign(jwt.MapClaims{"user_id": userID.String(), "type": "refresh", "exp": future}, cfg.JWTSecret),
			wantErr: true,
		},
		{
			name:    "malformed user id",
			token:   sign(jwt.MapClaims{"user_id": "42", "type": "access", "exp": future}, cfg.JWTSecret),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not.a.jwt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := authService.ValidateAccessToken(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidToken)
				assert.Equal(t, uuid.Nil, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, got)
		})
	}
}
