package config

import "slices"

// PropertyType is the kind of real-estate unit a listing describes
type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyCondo      PropertyType = "condo"
	PropertyTownhouse  PropertyType = "townhouse"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

// ListingStatus marks a listing as for sale or for rent
type ListingStatus string

const (
	StatusForSale ListingStatus = "for-sale"
	StatusForRent ListingStatus = "for-rent"
)

// PropertyTypes lists every type accepted by the create and update endpoints
var PropertyTypes = []PropertyType{
	PropertyHouse,
	PropertyApartment,
	PropertyCondo,
	PropertyTownhouse,
	PropertyLand,
	PropertyCommercial,
}

// ListingStatuses lists every accepted listing status
var ListingStatuses = []ListingStatus{StatusForSale, StatusForRent}

// ==================== Photo Limits ====================

// MaxPhotoSize is the per-photo soft limit enforced by the composer (5 MB).
// The server does not enforce it.
const MaxPhotoSize int64 = 5 * 1024 * 1024

// MaxPhotos is how many photos the composer stages for one listing
const MaxPhotos = 10

// AllowedPhotoTypes are the content types the composer accepts for staging
var AllowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp"}

// ==================== Settings Defaults ====================

const (
	DefaultTheme    = "system"
	DefaultLanguage = "en"
)

// Themes accepted by the settings endpoint
var Themes = []string{"light", "dark", "system"}

func IsValidPropertyType(t string) bool {
	return slices.Contains(PropertyTypes, PropertyType(t))
}

func IsValidStatus(s string) bool {
	return slices.Contains(ListingStatuses, ListingStatus(s))
}

func IsAllowedPhotoType(contentType string) bool {
	return slices.Contains(AllowedPhotoTypes, contentType)
}

func IsValidTheme(theme string) bool {
	return slices.Contains(Themes, theme)
}
