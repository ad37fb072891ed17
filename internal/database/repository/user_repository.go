package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string, passwordHash *string) (*models.User, error)
}

type userRepository struct {
	db database.Querier
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db database.Querier) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.Password, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE email = ?`, email)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string, passwordHash *string) (*models.User, error) {
	now := time.Now().UTC()

	var affected int64
	var err error
	if passwordHash != nil {
		affected, err = r.db.Exec(ctx,
			`UPDATE users SET name = ?, email = ?, password = ?, updated_at = ? WHERE id = ?`,
			name, email, *passwordHash, now, id,
		)
	} else {
		affected, err = r.db.Exec(ctx,
			`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
			name, email, now, id,
		)
	}
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var users []models.User
	if err := r.db.Query(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

// Repository errors
var (
	ErrUserNotFound = errors.New("user not found")
)
