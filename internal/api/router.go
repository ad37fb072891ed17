package api

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/handler"
	"github.com/estatehub/backend-go/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Property *handler.PropertyHandler
	Upload   *handler.UploadHandler
	Listing  *handler.ListingHandler
	Page     *handler.PageHandler
}

// StaticUploads is set when photos are served from the local upload directory
type StaticUploads struct {
	PublicPath string
	Dir        string
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.RateLimiter,
	templates *template.Template,
	uploads *StaticUploads,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.MaxMultipartMemory = cfg.MaxUploadMemory
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes (Public)
	authGroup := r.Group("/api/v1/auth")
	authGroup.Use(limiter.Limit("auth", cfg.RateLimitAuthPerMinute, time.Minute))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Public listings
	listings := r.Group("/api/v1/listings")
	{
		listings.GET("", h.Listing.Browse)
		listings.GET("/:id", h.Listing.Get)
	}

	// Protected API routes
	api := r.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/user/profile", h.User.GetProfile)
		api.PUT("/user/update", h.User.UpdateProfile)
		api.GET("/user/settings", h.User.GetSettings)
		api.PUT("/user/settings", h.User.UpdateSettings)

		api.GET("/properties", h.Property.List)
		api.POST("/properties", h.Property.Create)
		api.POST("/properties/upload",
			limiter.Limit("upload", cfg.RateLimitUploadPerMin, time.Minute),
			h.Upload.Upload,
		)
		api.GET("/properties/:id", h.Property.Get)
		api.PUT("/properties/:id", h.Property.Update)
		api.DELETE("/properties/:id", h.Property.Delete)
	}

	if uploads != nil {
		r.Static(uploads.PublicPath, uploads.Dir)
	}

	// Server-rendered pages
	if templates != nil && h.Page != nil {
		r.SetHTMLTemplate(templates)

		pages := r.Group("/")
		pages.Use(authMiddleware.OptionalAuth())
		{
			pages.GET("/", h.Page.Home)
			pages.GET("/properties", h.Page.Browse)
			pages.GET("/properties/:id", h.Page.Detail)
			pages.GET("/login", h.Page.LoginForm)
			pages.POST("/login", limiter.Limit("auth", cfg.RateLimitAuthPerMinute, time.Minute), h.Page.Login)
			pages.POST("/logout", h.Page.Logout)
		}

		dashboard := r.Group("/dashboard")
		dashboard.Use(authMiddleware.RequireSession("/login"))
		{
			dashboard.GET("", h.Page.Dashboard)
			dashboard.GET("/properties", h.Page.DashboardProperties)
		}
	}

	return r
}
