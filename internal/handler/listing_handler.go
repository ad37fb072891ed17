package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
	"github.com/estatehub/backend-go/internal/listing"
)

// ListingHandler serves the public browse endpoints
type ListingHandler struct {
	service service.PropertyService
	logger  *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service service.PropertyService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		logger:  logger,
	}
}

// Browse handles GET /listings with the browse filters as query parameters
func (h *ListingHandler) Browse(c *gin.Context) {
	filter := listing.ParseFilter(c.Request.URL.Query())

	properties, err := h.service.Browse(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("❌ [ListingHandler] Failed to browse listings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// Get handles GET /listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	property, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		h.logger.Error("❌ [ListingHandler] Failed to fetch listing", "property_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch property"})
		return
	}

	c.JSON(http.StatusOK, property)
}
