package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service errors
var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrNoFiles            = errors.New("no files uploaded")
	ErrInvalidStatus      = errors.New("invalid listing status")
	ErrInvalidType        = errors.New("invalid property type")
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrTitleRequired      = errors.New("title is required")
	ErrPriceRequired      = errors.New("price is required")
	ErrInvalidCoordinates = errors.New("coordinates must be a [longitude, latitude] pair")
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint failure from either driver
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
