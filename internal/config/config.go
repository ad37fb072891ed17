package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv                 string
	LogLevel               slog.Level
	ApiServicePort         string
	CORSAllowedOrigin      string
	ShutdownTimeout        int64 // Graceful shutdown budget in seconds
	DBDriver               string
	DatabaseURL            string
	PostgreSQLHost         string
	PostgreSQLPort         int64
	PostgreSQLUser         string
	PostgreSQLPassword     string
	PostgreSQLDatabase     string
	PostgreSQLSSLMode      string
	SQLitePath             string
	DBMaxOpenConns         int64
	DBMaxIdleConns         int64
	JWTSecret              string
	AccessTokenExpiration  int64
	RefreshTokenExpiration int64
	SessionCookieName      string
	RedisHost              string
	RedisPort              int64
	RedisPassword          string
	RedisDatabase          int64
	RateLimitAuthPerMinute int64
	RateLimitUploadPerMin  int64
	StorageDriver          string
	UploadDir              string
	UploadPublicPath       string
	MaxUploadMemory        int64
	UploadOrphanTTL        int64 // Seconds; 0 keeps orphaned uploads forever
	UploadSweepInterval    int64 // Seconds between orphan sweeps
	S3Bucket               string
	S3Region               string
	S3Endpoint             string
	S3KeyPrefix            string
	S3PublicBaseURL        string
	AWSProfile             string
}

func LoadConfig() *Config {
	return &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),                   // Default development
		LogLevel:               getLogLevel(),                                      // Default INFO
		ApiServicePort:         getEnv("API_SERVICE_PORT", "8080"),                 // Default 8080
		CORSAllowedOrigin:      getEnv("CORS_ALLOWED_ORIGIN", "*"),                 // Default any origin
		ShutdownTimeout:        getEnvAsInt64("SHUTDOWN_TIMEOUT", 15),              // Default 15 seconds
		DBDriver:               strings.ToLower(getEnv("DB_DRIVER", "postgres")),   // Default postgres
		DatabaseURL:            getEnv("DATABASE_URL", ""),                         // Overrides the POSTGRESQL_* keys
		PostgreSQLHost:         getEnv("POSTGRESQL_HOST", "db"),                    // Default db
		PostgreSQLPort:         getEnvAsInt64("POSTGRESQL_PORT", 5432),             // Default 5432
		PostgreSQLUser:         getEnv("POSTGRESQL_USER", "estate_user"),           // Default user
		PostgreSQLPassword:     getEnv("POSTGRESQL_PASSWORD", "estate_password"),   // Default password
		PostgreSQLDatabase:     getEnv("POSTGRESQL_DATABASE", "estate_db"),         // Default database name
		PostgreSQLSSLMode:      getEnv("POSTGRESQL_SSLMODE", "disable"),            // Default disable
		SQLitePath:             getEnv("SQLITE_PATH", "data/estate.db"),            // Used when DB_DRIVER=sqlite
		DBMaxOpenConns:         getEnvAsInt64("DB_MAX_OPEN_CONNS", 10),             // Default 10
		DBMaxIdleConns:         getEnvAsInt64("DB_MAX_IDLE_CONNS", 5),              // Default 5
		JWTSecret:              getEnv("JWT_SECRET", "estate_secret"),              // Default secret key
		AccessTokenExpiration:  getEnvAsInt64("ACCESS_TOKEN_EXPIRATION", 3600),     // Default 1 hour
		RefreshTokenExpiration: getEnvAsInt64("REFRESH_TOKEN_EXPIRATION", 2592000), // Default 30 days
		SessionCookieName:      getEnv("SESSION_COOKIE_NAME", "estate_session"),    // Default estate_session
		RedisHost:              getEnv("REDIS_HOST", "redis"),                      // Default redis
		RedisPort:              getEnvAsInt64("REDIS_PORT", 6379),                  // Default 6379
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),                       // Default empty
		RedisDatabase:          getEnvAsInt64("REDIS_DATABASE", 0),                 // Default 0
		RateLimitAuthPerMinute: getEnvAsInt64("RATE_LIMIT_AUTH_PER_MINUTE", 20),    // Default 20
		RateLimitUploadPerMin:  getEnvAsInt64("RATE_LIMIT_UPLOAD_PER_MINUTE", 30),  // Default 30
		StorageDriver:          strings.ToLower(getEnv("STORAGE_DRIVER", "local")), // Default local
		UploadDir:              getEnv("UPLOAD_DIR", "public/uploads"),             // Default public/uploads
		UploadPublicPath:       getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),           // Default /uploads
		MaxUploadMemory:        getEnvAsInt64("MAX_UPLOAD_MEMORY", 32<<20),         // Default 32 MB
		UploadOrphanTTL:        getEnvAsInt64("UPLOAD_ORPHAN_TTL", 0),              // Default disabled
		UploadSweepInterval:    getEnvAsInt64("UPLOAD_SWEEP_INTERVAL", 3600),       // Default 1 hour
		S3Bucket:               getEnv("S3_BUCKET", ""),                            // Required for STORAGE_DRIVER=s3
		S3Region:               getEnv("S3_REGION", "us-east-1"),                   // Default us-east-1
		S3Endpoint:             getEnv("S3_ENDPOINT", ""),                          // Optional S3-compatible endpoint
		S3KeyPrefix:            getEnv("S3_KEY_PREFIX", "uploads"),                 // Default uploads
		S3PublicBaseURL:        getEnv("S3_PUBLIC_BASE_URL", ""),                   // Public URL root for stored photos
		AWSProfile:             getEnv("AWS_PROFILE", ""),                          // Optional shared config profile
	}
}

// PostgresDSN builds the connection string, preferring DATABASE_URL when set.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
		c.PostgreSQLSSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.AppEnv) == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
