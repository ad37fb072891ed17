package testutil

import (
	"io"
	"log/slog"

	"github.com/estatehub/backend-go/internal/config"
)

// TestConfig returns a config suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		ApiServicePort:         "8080",
		CORSAllowedOrigin:      "*",
		ShutdownTimeout:        5,
		DBDriver:               "sqlite",
		SQLitePath:             ":memory:",
		JWTSecret:              "test-secret-key-for-testing-purposes",
		AccessTokenExpiration:  900,
		RefreshTokenExpiration: 604800,
		SessionCookieName:      "estate_session",
		RateLimitAuthPerMinute: 20,
		RateLimitUploadPerMin:  30,
		StorageDriver:          "local",
		UploadPublicPath:       "/uploads",
		MaxUploadMemory:        32 << 20,
	}
}

// TestLogger returns a silent logger for testing
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
