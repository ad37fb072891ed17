package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
}

// UpdateProfileInput is a profile edit. CurrentPassword is always verified;
// NewPassword is optional.
type UpdateProfileInput struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	s.logger.Info("✏️ [UserService] Profile update attempt", "user_id", userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		s.logger.Warn("⚠️ [UserService] Current password mismatch", "user_id", userID)
		return nil, ErrIncorrectPassword
	}

	email := normalizeEmail(input.Email)
	if email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error("❌ [UserService] Database error", "error", err)
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			s.logger.Warn("⚠️ [UserService] Email already registered", "email", email)
			return nil, ErrEmailAlreadyExists
		}
	}

	var passwordHash *string
	if input.NewPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), PasswordCost)
		if err != nil {
			s.logger.Error("❌ [UserService] Failed to hash password", "error", err)
			return nil, err
		}
		h := string(hashed)
		passwordHash = &h
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(input.Name), email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		s.logger.Error("❌ [UserService] Failed to update profile", "user_id", userID, "error", err)
		return nil, err
	}

	// A new password ends every session issued under the old one
	if passwordHash != nil {
		if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Error("❌ [UserService] Failed to revoke sessions", "user_id", userID, "error", err)
			return nil, err
		}
	}

	s.logger.Info("✅ [UserService] Profile updated", "user_id", userID, "password_changed", passwordHash != nil)
	return updated, nil
}
