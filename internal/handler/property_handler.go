package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/database/service"
)

// PropertyHandler handles the owner-scoped property endpoints
type PropertyHandler struct {
	service service.PropertyService
	logger  *slog.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(service service.PropertyService, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		logger:  logger,
	}
}

// CreatePropertyRequest is the composer payload
type CreatePropertyRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  *string   `json:"description"`
	Price        float64   `json:"price" binding:"gte=0"`
	Bedrooms     *int      `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *float64  `json:"bathrooms" binding:"omitempty,gte=0"`
	PropertyType *string   `json:"propertyType"`
	Status       *string   `json:"status"`
	Location     *string   `json:"location"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	ZipCode      *string   `json:"zipCode"`
	Area         *float64  `json:"area" binding:"omitempty,gte=0"`
	YearBuilt    *int      `json:"yearBuilt"`
	LotSize      *string   `json:"lotSize"`
	Garage       *int      `json:"garage" binding:"omitempty,gte=0"`
	Amenities    []string  `json:"amenities"`
	Images       []string  `json:"images"`
	Coordinates  []float64 `json:"coordinates"`
}

// UpdatePropertyRequest carries the allow-listed columns; unknown keys are ignored
type UpdatePropertyRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	BedroomCount  *int     `json:"bedroom_count"`
	BathroomCount *float64 `json:"bathroom_count"`
	PropertyType  *string  `json:"property_type"`
	Status        *string  `json:"status"`
	Location      *string  `json:"location"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	ZipCode       *string  `json:"zip_code"`
	SquareFeet    *float64 `json:"square_feet"`
	YearBuilt     *int     `json:"year_built"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
}

// List handles GET /properties - the caller's listings, newest first
func (h *PropertyHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	properties, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to fetch properties")
		return
	}

	c.JSON(http.StatusOK, properties)
}

// Create handles POST /properties
func (h *PropertyHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [PropertyHandler] Invalid create request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Title is required."})
		return
	}

	property, err := h.service.Create(c.Request.Context(), userID, service.CreatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		PropertyType: req.PropertyType,
		Status:       req.Status,
		Location:     req.Location,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Area:         req.Area,
		YearBuilt:    req.YearBuilt,
		LotSize:      req.LotSize,
		Garage:       req.Garage,
		Amenities:    req.Amenities,
		Images:       req.Images,
		Coordinates:  req.Coordinates,
	})
	if err != nil {
		h.handleServiceError(c, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, property)
}

// Get handles GET /properties/:id for the owner
func (h *PropertyHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := propertyID(c)
	if !ok {
		return
	}

	property, err := h.service.GetMine(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to fetch property")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Update handles PUT /properties/:id. Absent fields are written as null.
func (h *PropertyHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := propertyID(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [PropertyHandler] Invalid update request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}

	property, err := h.service.Update(c.Request.Context(), id, userID, repository.PropertyUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		BedroomCount:  req.BedroomCount,
		BathroomCount: req.BathroomCount,
		PropertyType:  req.PropertyType,
		Status:        req.Status,
		Location:      req.Location,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		SquareFeet:    req.SquareFeet,
		YearBuilt:     req.YearBuilt,
		Features:      req.Features,
		Images:        req.Images,
	})
	if err != nil {
		h.handleServiceError(c, err, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := propertyID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err, "Failed to delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleServiceError maps service errors to HTTP responses
func (h *PropertyHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found or unauthorized"})
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrPriceRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidType),
		errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("❌ [PropertyHandler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// propertyID parses :id; a malformed id is reported like a missing row
func propertyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found or unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}
