package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/models"
)

// NewTestDB opens a migrated in-memory SQLite database.
// The pool is pinned to one connection so every statement sees the same database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, database.Migrate(db, database.DriverSQLite))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// NewTestGateway wraps a fresh test database in the persistence gateway
func NewTestGateway(t testing.TB) (*database.Gateway, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return database.NewGateway(db), db
}

// InsertUser writes a user row directly, bypassing password hashing
func InsertUser(t testing.TB, gw database.Querier, email string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Name:     "Test User",
		Password: "not-a-real-hash",
	}
	_, err := gw.Exec(context.Background(),
		`INSERT INTO users (id, email, name, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		user.ID, user.Email, user.Name, user.Password,
	)
	require.NoError(t, err)
	return user
}

// CountRows returns the number of rows in table
func CountRows(t testing.TB, db *gorm.DB, table string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Table(table).Count(&count).Error)
	return count
}
