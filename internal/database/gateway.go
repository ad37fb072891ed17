package database

import (
	"context"

	"gorm.io/gorm"
)

// Gateway is the persistence gateway: every call acquires one pooled connection,
// runs exactly one statement on it and releases it on all exit paths.
// Driver errors are returned unchanged. There is no retry and no statement cache.
type Gateway struct {
	db *gorm.DB
}

// NewGateway wraps an opened gorm handle
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) Query(ctx context.Context, dest any, query string, args ...any) error {
	return g.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Raw(query, args...).Scan(dest).Error
	})
}

func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := g.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		result := conn.Exec(query, args...)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

var _ Querier = (*Gateway)(nil)
