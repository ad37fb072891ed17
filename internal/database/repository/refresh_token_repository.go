package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/models"
)

// RefreshTokenRepository defines the interface for refresh token operations
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

type refreshTokenRepository struct {
	db database.Querier
}

// NewRefreshTokenRepository creates a new refresh token repository instance
func NewRefreshTokenRepository(db database.Querier) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.ExpiresAt = token.ExpiresAt.UTC()
	token.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at, is_revoked, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.IsRevoked, token.CreatedAt,
	)
	return err
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var tokens []models.RefreshToken
	err := r.db.Query(ctx, &tokens,
		`SELECT * FROM refresh_tokens WHERE token = ? AND is_revoked = ?`,
		token, false,
	)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrTokenNotFound
	}

	// Check if expired
	if time.Now().After(tokens[0].ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &tokens[0], nil
}

func (r *refreshTokenRepository) RevokeToken(ctx context.Context, token string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET is_revoked = ? WHERE token = ? AND is_revoked = ?`,
		true, token, false,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET is_revoked = ? WHERE user_id = ?`,
		true, userID,
	)
	return err
}

func (r *refreshTokenRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, time.Now().UTC())
}

// Repository errors
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)
