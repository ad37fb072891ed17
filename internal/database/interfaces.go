package database

import (
	"context"
)

// Querier runs single parameterized statements against the relational store.
// Repositories depend on this instead of *gorm.DB.
type Querier interface {
	// Query executes a statement and scans the row set into dest (a pointer to a slice or struct)
	Query(ctx context.Context, dest any, query string, args ...any) error

	// Exec executes a statement and returns the number of affected rows
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}
