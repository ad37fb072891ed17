package composer

import (
	"regexp"
	"strconv"
	"strings"
)

// Form holds the raw composer input as typed by the user.
// `step` tags gate Next on presence; `validate` tags run on Submit.
type Form struct {
	// Basic info
	Title        string `step:"required" validate:"required,min=5"`
	Description  string `step:"required" validate:"required,min=20"`
	PropertyType string `step:"required" validate:"required"`
	Status       string `step:"required" validate:"required"`

	// Location
	Address  string `step:"required" validate:"required,min=5"`
	City     string `step:"required" validate:"required,min=2"`
	State    string `step:"required" validate:"required,min=2"`
	ZipCode  string `step:"required" validate:"required,min=5"`
	Location string

	// Details
	Price     string `step:"required" validate:"required"`
	Bedrooms  string
	Bathrooms string
	Area      string `step:"required" validate:"required"`
	YearBuilt string
	LotSize   string
	Garage    string

	// Photos and review
	Amenities   []string
	AcceptTerms bool `validate:"required"`
}

// DefaultForm is the form a new composer starts with
func DefaultForm() Form {
	return Form{
		Status:    "for-sale",
		Bedrooms:  "0",
		Bathrooms: "1",
		Garage:    "0",
	}
}

// fieldMessages are shown when a field fails validation
var fieldMessages = map[string]string{
	"Title":        "Title must be at least 5 characters.",
	"Description":  "Description must be at least 20 characters.",
	"PropertyType": "Please select a property type.",
	"Status":       "Please select a listing status.",
	"Address":      "Address must be at least 5 characters.",
	"City":         "City is required.",
	"State":        "State is required.",
	"ZipCode":      "Zip code is required.",
	"Price":        "Price is required.",
	"Area":         "Area is required.",
	"AcceptTerms":  "You must accept the terms and conditions to continue.",
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	nonPrice     = regexp.MustCompile(`[^0-9.]`)
)

// parseLeadingInt reads the integer prefix of s, ignoring leading whitespace
func parseLeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

// parseLeadingFloat reads the decimal prefix of s, ignoring leading whitespace
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	return f, err == nil
}

// intOr returns the parsed value, or fallback when it is missing or zero
func intOr(s string, fallback int) int {
	if n, ok := parseLeadingInt(s); ok && n != 0 {
		return n
	}
	return fallback
}

// floatOr returns the parsed value, or fallback when it is missing or zero
func floatOr(s string, fallback float64) float64 {
	if f, ok := parseLeadingFloat(s); ok && f != 0 {
		return f
	}
	return fallback
}

// normalizedPrice drops everything but digits and dots before parsing
func normalizedPrice(s string) float64 {
	return floatOr(nonPrice.ReplaceAllString(s, ""), 0)
}

// normalizedYear is nil for an empty or unparsable year
func normalizedYear(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, ok := parseLeadingInt(s)
	if !ok {
		return nil
	}
	return &n
}
