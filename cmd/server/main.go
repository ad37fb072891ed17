package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/estatehub/backend-go/internal/api"
	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
	"github.com/estatehub/backend-go/internal/handler"
	"github.com/estatehub/backend-go/internal/logger"
	"github.com/estatehub/backend-go/internal/middleware"
	"github.com/estatehub/backend-go/internal/storage"
	"github.com/estatehub/backend-go/internal/web"
	"github.com/estatehub/backend-go/internal/worker"
)

const (
	tokenCleanupInterval = time.Hour
	tokenCleanupTimeout  = time.Minute
)

func main() {
	// 1. Environment (.env is optional)
	_ = godotenv.Load()

	// 2. Config
	cfg := config.LoadConfig()

	// 3. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting EstateHub...",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"storage_driver", cfg.StorageDriver,
	)

	// 4. Connect to Database
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	gateway := database.NewGateway(database.GetDatabase())

	// 5. Initialize Repositories
	userRepo := repository.NewUserRepository(gateway)
	refreshTokenRepo := repository.NewRefreshTokenRepository(gateway)
	propertyRepo := repository.NewPropertyRepository(gateway)
	settingsRepo := repository.NewSettingsRepository(gateway)

	// 6. Initialize Rate Limiter
	var rateLimiter middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		rateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	} else {
		rateLimiter = middleware.NewRateLimiter(redisClient, appLogger)
		defer redisClient.Close()
	}

	// 7. Photo storage
	store, err := storage.New(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to initialize photo storage", "error", err)
		os.Exit(1)
	}

	var uploads *api.StaticUploads
	if local, ok := store.(*storage.LocalStore); ok {
		uploads = &api.StaticUploads{PublicPath: local.PublicPath(), Dir: local.Dir()}
	}

	// 8. Initialize Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, appLogger)
	userService := service.NewUserService(userRepo, refreshTokenRepo, appLogger)
	settingsService := service.NewSettingsService(settingsRepo, appLogger)
	propertyService := service.NewPropertyService(propertyRepo, appLogger)
	uploadService := service.NewUploadService(store, appLogger)

	// 9. Background work
	pool := worker.NewPool(appLogger)
	sweeper := worker.NewOrphanSweeper(
		store,
		propertyRepo,
		time.Duration(cfg.UploadOrphanTTL)*time.Second,
		time.Duration(cfg.UploadSweepInterval)*time.Second,
		appLogger,
	)
	sweeper.Start(pool)
	purgeExpiredTokens := func(ctx context.Context) {
		removed, err := refreshTokenRepo.DeleteExpiredTokens(ctx)
		if err != nil {
			appLogger.Error("❌ [Auth] Failed to delete expired refresh tokens", "error", err)
			return
		}
		if removed > 0 {
			appLogger.Info("🧹 [Auth] Deleted expired refresh tokens", "count", removed)
		}
	}
	pool.SubmitWithTimeout(tokenCleanupTimeout, purgeExpiredTokens)
	pool.Every(tokenCleanupInterval, purgeExpiredTokens)

	// 10. Initialize Handlers & Middleware
	handlers := api.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg, appLogger),
		User:     handler.NewUserHandler(userService, settingsService, appLogger),
		Property: handler.NewPropertyHandler(propertyService, appLogger),
		Upload:   handler.NewUploadHandler(uploadService, appLogger),
		Listing:  handler.NewListingHandler(propertyService, appLogger),
		Page:     handler.NewPageHandler(propertyService, userService, authService, cfg, appLogger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.SessionCookieName, appLogger)

	templates, err := web.Templates()
	if err != nil {
		appLogger.Error("❌ Failed to parse page templates", "error", err)
		os.Exit(1)
	}

	r := api.SetupRouter(cfg, handlers, authMiddleware, rateLimiter, templates, uploads)

	// 11. Start HTTP Server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler: r,
	}

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	timeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	appLogger.Info("🛑 [Go] Shutting down...", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("❌ HTTP Server forced to shutdown", "error", err)
	}
	pool.Shutdown(timeout)

	appLogger.Info("👋 [Go] Server exited")
}
