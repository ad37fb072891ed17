package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Property is a real-estate listing owned by exactly one user.
// Nullable columns are pointers so that an update can write NULL.
type Property struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Description   *string        `gorm:"column:description" json:"description"`
	Price         float64        `gorm:"column:price;not null" json:"price"`
	BedroomCount  *int           `gorm:"column:bedroom_count" json:"bedroom_count"`
	BathroomCount *float64       `gorm:"column:bathroom_count" json:"bathroom_count"`
	PropertyType  *string        `gorm:"column:property_type" json:"property_type"`
	Status        *string        `gorm:"column:status" json:"status"`
	Location      *string        `gorm:"column:location" json:"location"`
	Longitude     *float64       `gorm:"column:longitude" json:"longitude"`
	Latitude      *float64       `gorm:"column:latitude" json:"latitude"`
	Address       *string        `gorm:"column:address" json:"address"`
	City          *string        `gorm:"column:city" json:"city"`
	State         *string        `gorm:"column:state" json:"state"`
	ZipCode       *string        `gorm:"column:zip_code" json:"zip_code"`
	SquareFeet    *float64       `gorm:"column:square_feet" json:"square_feet"`
	YearBuilt     *int           `gorm:"column:year_built" json:"year_built"`
	LotSize       *string        `gorm:"column:lot_size" json:"lot_size"`
	GarageSpaces  *int           `gorm:"column:garage_spaces" json:"garage_spaces"`
	Features      pq.StringArray `gorm:"column:features;type:text[]" json:"features"`
	Images        pq.StringArray `gorm:"column:images;type:text[]" json:"images"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name
func (Property) TableName() string {
	return "properties"
}

// Coordinates returns the [longitude, latitude] pair, or nil when no point is stored
func (p Property) Coordinates() []float64 {
	if p.Longitude == nil || p.Latitude == nil {
		return nil
	}
	return []float64{*p.Longitude, *p.Latitude}
}

// StatusValue returns the listing status or "" when unset
func (p Property) StatusValue() string {
	if p.Status == nil {
		return ""
	}
	return *p.Status
}

// TypeValue returns the property type or "" when unset
func (p Property) TypeValue() string {
	if p.PropertyType == nil {
		return ""
	}
	return *p.PropertyType
}

// CoverImage returns the first image URL or "" when the listing has none
func (p Property) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
