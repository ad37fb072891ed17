package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/estatehub/backend-go/internal/api"
	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
	"github.com/estatehub/backend-go/internal/handler"
	"github.com/estatehub/backend-go/internal/middleware"
	"github.com/estatehub/backend-go/internal/storage"
	"github.com/estatehub/backend-go/internal/web"
)

// TestPassword is the password used by Register
const TestPassword = "password123"

// TestApp is the full router backed by SQLite and a temporary upload directory
type TestApp struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Gateway *database.Gateway
	Store   *storage.LocalStore
	Config  *config.Config
	Auth    service.AuthService
}

// NewTestApp wires the real repositories, services and handlers.
// Rate limiting is disabled.
func NewTestApp(t testing.TB) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	logger := TestLogger()
	gateway, db := NewTestGateway(t)

	store, err := storage.NewLocalStore(t.TempDir(), cfg.UploadPublicPath)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(gateway)
	tokenRepo := repository.NewRefreshTokenRepository(gateway)
	propertyRepo := repository.NewPropertyRepository(gateway)
	settingsRepo := repository.NewSettingsRepository(gateway)

	authService := service.NewAuthService(userRepo, tokenRepo, cfg, logger)
	userService := service.NewUserService(userRepo, tokenRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	propertyService := service.NewPropertyService(propertyRepo, logger)
	uploadService := service.NewUploadService(store, logger)

	templates, err := web.Templates()
	require.NoError(t, err)

	router := api.SetupRouter(
		cfg,
		api.Handlers{
			Auth:     handler.NewAuthHandler(authService, cfg, logger),
			User:     handler.NewUserHandler(userService, settingsService, logger),
			Property: handler.NewPropertyHandler(propertyService, logger),
			Upload:   handler.NewUploadHandler(uploadService, logger),
			Listing:  handler.NewListingHandler(propertyService, logger),
			Page:     handler.NewPageHandler(propertyService, userService, authService, cfg, logger),
		},
		middleware.NewAuthMiddleware(authService, cfg.SessionCookieName, logger),
		middleware.NewNoOpRateLimiter(logger),
		templates,
		&api.StaticUploads{PublicPath: store.PublicPath(), Dir: store.Dir()},
	)

	return &TestApp{
		Router:  router,
		DB:      db,
		Gateway: gateway,
		Store:   store,
		Config:  cfg,
		Auth:    authService,
	}
}

// Register creates an account with TestPassword and returns its id and access token
func (a *TestApp) Register(t testing.TB, email string) (uuid.UUID, string) {
	t.Helper()

	user, tokens, err := a.Auth.Register(context.Background(), email, "Test User", TestPassword)
	require.NoError(t, err)
	return user.ID, tokens.AccessToken
}

// Do sends body as JSON (when non-nil) with an optional bearer token
func (a *TestApp) Do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.Send(req, token)
}

// Send serves a prepared request with an optional bearer token
func (a *TestApp) Send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}
