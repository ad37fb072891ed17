package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/estatehub/backend-go/internal/database"
	"github.com/estatehub/backend-go/internal/database/models"
)

// PropertyUpdate carries the allow-listed columns of an owner edit.
// A nil field is written as NULL; there are no partial-update semantics.
type PropertyUpdate struct {
	Title         *string
	Description   *string
	Price         *float64
	BedroomCount  *int
	BathroomCount *float64
	PropertyType  *string
	Status        *string
	Location      *string
	Address       *string
	City          *string
	State         *string
	ZipCode       *string
	SquareFeet    *float64
	YearBuilt     *int
	Features      []string
	Images        []string
}

// PropertyRepository defines the interface for property data operations
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Property, error)
	ListAll(ctx context.Context) ([]models.Property, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Property, error)
	UpdateOwned(ctx context.Context, id, userID uuid.UUID, update PropertyUpdate) (*models.Property, error)
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) error
	ListImageURLs(ctx context.Context) ([]string, error)
}

type propertyRepository struct {
	db database.Querier
}

// NewPropertyRepository creates a new property repository instance
func NewPropertyRepository(db database.Querier) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO properties (
			id, user_id, title, description, price, bedroom_count, bathroom_count,
			property_type, status, location, longitude, latitude, address, city, state,
			zip_code, square_feet, year_built, lot_size, garage_spaces, features, images,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Title, p.Description, p.Price, p.BedroomCount, p.BathroomCount,
		p.PropertyType, p.Status, p.Location, p.Longitude, p.Latitude, p.Address, p.City, p.State,
		p.ZipCode, p.SquareFeet, p.YearBuilt, p.LotSize, p.GarageSpaces, p.Features, p.Images,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *propertyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	properties := []models.Property{}
	err := r.db.Query(ctx, &properties,
		`SELECT * FROM properties WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) ListAll(ctx context.Context) ([]models.Property, error) {
	properties := []models.Property{}
	if err := r.db.Query(ctx, &properties, `SELECT * FROM properties ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.findOne(ctx, `SELECT * FROM properties WHERE id = ?`, id)
}

func (r *propertyRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Property, error) {
	return r.findOne(ctx, `SELECT * FROM properties WHERE id = ? AND user_id = ?`, id, userID)
}

// UpdateOwned checks ownership and writes in the same statement.
func (r *propertyRepository) UpdateOwned(ctx context.Context, id, userID uuid.UUID, u PropertyUpdate) (*models.Property, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE properties SET
			title = ?, description = ?, price = ?, bedroom_count = ?, bathroom_count = ?,
			property_type = ?, status = ?, location = ?, address = ?, city = ?, state = ?,
			zip_code = ?, square_feet = ?, year_built = ?, features = ?, images = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		u.Title, u.Description, u.Price, u.BedroomCount, u.BathroomCount,
		u.PropertyType, u.Status, u.Location, u.Address, u.City, u.State,
		u.ZipCode, u.SquareFeet, u.YearBuilt, stringArray(u.Features), stringArray(u.Images),
		time.Now().UTC(),
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPropertyNotFound
	}

	return r.FindByIDAndUser(ctx, id, userID)
}

func (r *propertyRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *propertyRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	var rows []struct {
		Images pq.StringArray `gorm:"column:images"`
	}
	if err := r.db.Query(ctx, &rows, `SELECT images FROM properties WHERE images IS NOT NULL`); err != nil {
		return nil, err
	}

	urls := []string{}
	for _, row := range rows {
		urls = append(urls, row.Images...)
	}
	return urls, nil
}

func (r *propertyRepository) findOne(ctx context.Context, query string, args ...any) (*models.Property, error) {
	var properties []models.Property
	if err := r.db.Query(ctx, &properties, query, args...); err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrPropertyNotFound
	}
	return &properties[0], nil
}

// stringArray keeps an absent list as NULL rather than an empty array
func stringArray(values []string) pq.StringArray {
	if values == nil {
		return nil
	}
	return pq.StringArray(values)
}

// Repository errors
var (
	ErrPropertyNotFound = errors.New("property not found")
)
