package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
	"github.com/estatehub/backend-go/internal/listing"
	"github.com/estatehub/backend-go/internal/middleware"
)

// LatestListingsCount is how many listings the home page shows
const LatestListingsCount = 6

// PageHandler renders the server-side HTML pages
type PageHandler struct {
	properties service.PropertyService
	users      service.UserService
	auth       service.AuthService
	cookie     SessionCookie
	logger     *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	properties service.PropertyService,
	users service.UserService,
	auth service.AuthService,
	cfg *config.Config,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		properties: properties,
		users:      users,
		auth:       auth,
		cookie:     NewSessionCookie(cfg),
		logger:     logger,
	}
}

type pageData struct {
	Title    string
	SignedIn bool
}

func newPage(c *gin.Context, title string) pageData {
	_, signedIn := middleware.GetUserID(c)
	return pageData{Title: title, SignedIn: signedIn}
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	properties, err := h.properties.Latest(c.Request.Context(), LatestListingsCount)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "home.html", struct {
		pageData
		Properties []models.Property
	}{newPage(c, "Home"), properties})
}

// Browse handles GET /properties
func (h *PageHandler) Browse(c *gin.Context) {
	filter := listing.ParseFilter(c.Request.URL.Query())

	properties, err := h.properties.Browse(c.Request.Context(), filter)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "browse.html", struct {
		pageData
		Filter        listing.Filter
		PropertyTypes []config.PropertyType
		Properties    []models.Property
	}{newPage(c, "Properties"), filter, config.PropertyTypes, properties})
}

// Detail handles GET /properties/:id
func (h *PageHandler) Detail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	property, err := h.properties.GetPublic(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			h.notFound(c)
			return
		}
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "detail.html", struct {
		pageData
		Property *models.Property
	}{newPage(c, property.Title), property})
}

// LoginForm handles GET /login
func (h *PageHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", "", c.Query("next"))
}

// Login handles POST /login from the sign-in form
func (h *PageHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	next := c.PostForm("next")

	_, tokens, err := h.auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(c, http.StatusUnauthorized, "Invalid email or password", email, next)
			return
		}
		h.renderError(c, err)
		return
	}

	h.cookie.Set(c, tokens.AccessToken)
	c.Redirect(http.StatusFound, safeRedirect(next, "/dashboard"))
}

// Logout handles POST /logout
func (h *PageHandler) Logout(c *gin.Context) {
	h.cookie.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

// Dashboard handles GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	properties, err := h.properties.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	var forSale, forRent int
	for i := range properties {
		switch properties[i].StatusValue() {
		case string(config.StatusForSale):
			forSale++
		case string(config.StatusForRent):
			forRent++
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", struct {
		pageData
		User    *models.User
		Total   int
		ForSale int
		ForRent int
	}{newPage(c, "Dashboard"), user, len(properties), forSale, forRent})
}

// DashboardProperties handles GET /dashboard/properties
func (h *PageHandler) DashboardProperties(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	properties, err := h.properties.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard_properties.html", struct {
		pageData
		Properties []models.Property
	}{newPage(c, "My properties"), properties})
}

func (h *PageHandler) renderLogin(c *gin.Context, status int, message, email, next string) {
	c.HTML(status, "login.html", struct {
		pageData
		Error string
		Email string
		Next  string
	}{newPage(c, "Sign in"), message, email, next})
}

func (h *PageHandler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", newPage(c, "Not found"))
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	h.logger.Error("❌ [PageHandler] Failed to render page", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, "Something went wrong")
}

// safeRedirect only follows local absolute paths
func safeRedirect(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
