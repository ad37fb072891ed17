package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
	"github.com/estatehub/backend-go/internal/database/repository"
	"github.com/estatehub/backend-go/internal/listing"
)

// PropertyService defines the interface for property business logic
type PropertyService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreatePropertyInput) (*models.Property, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Property, error)
	GetMine(ctx context.Context, id, userID uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, id, userID uuid.UUID, update repository.PropertyUpdate) (*models.Property, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Browse(ctx context.Context, filter listing.Filter) ([]models.Property, error)
	Latest(ctx context.Context, n int) ([]models.Property, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// CreatePropertyInput is a new listing as submitted by the composer
type CreatePropertyInput struct {
	Title        string
	Description  *string
	Price        float64
	Bedrooms     *int
	Bathrooms    *float64
	PropertyType *string
	Status       *string
	Location     *string
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Area         *float64
	YearBuilt    *int
	LotSize      *string
	Garage       *int
	Amenities    []string
	Images       []string
	Coordinates  []float64 // [longitude, latitude]
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	logger       *slog.Logger
}

// NewPropertyService creates a new property service instance
func NewPropertyService(propertyRepo repository.PropertyRepository, logger *slog.Logger) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

func (s *propertyService) Create(ctx context.Context, userID uuid.UUID, input CreatePropertyInput) (*models.Property, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := validateCatalog(input.Status, input.PropertyType); err != nil {
		return nil, err
	}
	if len(input.Coordinates) != 0 && len(input.Coordinates) != 2 {
		return nil, ErrInvalidCoordinates
	}

	property := &models.Property{
		UserID:        userID,
		Title:         title,
		Description:   input.Description,
		Price:         input.Price,
		BedroomCount:  input.Bedrooms,
		BathroomCount: input.Bathrooms,
		PropertyType:  input.PropertyType,
		Status:        input.Status,
		Location:      input.Location,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		SquareFeet:    input.Area,
		YearBuilt:     input.YearBuilt,
		LotSize:       input.LotSize,
		GarageSpaces:  input.Garage,
		Features:      pq.StringArray(nonNil(input.Amenities)),
		Images:        pq.StringArray(nonNil(input.Images)),
	}
	if len(input.Coordinates) == 2 {
		lng, lat := input.Coordinates[0], input.Coordinates[1]
		property.Longitude = &lng
		property.Latitude = &lat
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		s.logger.Error("❌ [PropertyService] Failed to create property", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [PropertyService] Property created",
		"user_id", userID,
		"property_id", property.ID,
		"images", len(property.Images),
	)
	return property, nil
}

func (s *propertyService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	return s.propertyRepo.ListByUser(ctx, userID)
}

func (s *propertyService) GetMine(ctx context.Context, id, userID uuid.UUID) (*models.Property, error) {
	return s.propertyRepo.FindByIDAndUser(ctx, id, userID)
}

func (s *propertyService) Update(ctx context.Context, id, userID uuid.UUID, update repository.PropertyUpdate) (*models.Property, error) {
	if update.Title == nil || strings.TrimSpace(*update.Title) == "" {
		return nil, ErrTitleRequired
	}
	if update.Price == nil {
		return nil, ErrPriceRequired
	}
	if err := validateCatalog(update.Status, update.PropertyType); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.UpdateOwned(ctx, id, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			s.logger.Warn("⚠️ [PropertyService] Update rejected", "property_id", id, "user_id", userID)
		} else {
			s.logger.Error("❌ [PropertyService] Failed to update property", "property_id", id, "error", err)
		}
		return nil, err
	}

	s.logger.Info("✅ [PropertyService] Property updated", "property_id", id, "user_id", userID)
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.propertyRepo.DeleteOwned(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			s.logger.Warn("⚠️ [PropertyService] Delete rejected", "property_id", id, "user_id", userID)
		} else {
			s.logger.Error("❌ [PropertyService] Failed to delete property", "property_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("🗑️ [PropertyService] Property deleted", "property_id", id, "user_id", userID)
	return nil
}

// Browse filters every listing in memory. There is no pagination.
func (s *propertyService) Browse(ctx context.Context, filter listing.Filter) ([]models.Property, error) {
	properties, err := s.propertyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(properties), nil
}

// Latest returns up to n of the newest listings
func (s *propertyService) Latest(ctx context.Context, n int) ([]models.Property, error) {
	properties, err := s.propertyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(properties) > n {
		properties = properties[:n]
	}
	return properties, nil
}

func (s *propertyService) GetPublic(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return s.propertyRepo.FindByID(ctx, id)
}

func validateCatalog(status, propertyType *string) error {
	if status != nil && !config.IsValidStatus(*status) {
		return ErrInvalidStatus
	}
	if propertyType != nil && !config.IsValidPropertyType(*propertyType) {
		return ErrInvalidType
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
