// Package listing filters and sorts listings in memory for the browse views.
package listing

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
)

const (
	StatusAll  = "all"
	StatusSale = "sale"
	StatusRent = "rent"

	TypeAll = "all"

	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Filter holds the browse criteria. Zero values match everything;
// MaxPrice 0 means no upper bound.
type Filter struct {
	Search    string
	Status    string
	Type      string
	MinPrice  float64
	MaxPrice  float64
	Bedrooms  int
	Bathrooms float64
	Sort      string
}

// ParseFilter reads a Filter from query parameters. Malformed numbers are ignored.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.ToLower(q.Get("status")),
		Type:   strings.ToLower(q.Get("type")),
		Sort:   strings.ToLower(q.Get("sort")),
	}
	if f.Status == "" {
		f.Status = StatusAll
	}
	if f.Type == "" {
		f.Type = TypeAll
	}
	if f.Sort == "" {
		f.Sort = SortNewest
	}

	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil && v > 0 {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil && v > 0 {
		f.MaxPrice = v
	}
	if v, err := strconv.Atoi(q.Get("bedrooms")); err == nil && v > 0 {
		f.Bedrooms = v
	}
	if v, err := strconv.ParseFloat(q.Get("bathrooms"), 64); err == nil && v > 0 {
		f.Bathrooms = v
	}
	return f
}

// Query renders the filter back into query parameters, omitting defaults.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" && f.Status != StatusAll {
		q.Set("status", f.Status)
	}
	if f.Type != "" && f.Type != TypeAll {
		q.Set("type", f.Type)
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Bedrooms > 0 {
		q.Set("bedrooms", strconv.Itoa(f.Bedrooms))
	}
	if f.Bathrooms > 0 {
		q.Set("bathrooms", strconv.FormatFloat(f.Bathrooms, 'f', -1, 64))
	}
	if f.Sort != "" && f.Sort != SortNewest {
		q.Set("sort", f.Sort)
	}
	return q
}

// Match evaluates every predicate against one property.
func (f Filter) Match(p *models.Property) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		address := ""
		if p.Address != nil {
			address = *p.Address
		}
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(address), term) {
			return false
		}
	}

	switch f.Status {
	case StatusSale:
		if p.StatusValue() != string(config.StatusForSale) {
			return false
		}
	case StatusRent:
		if p.StatusValue() != string(config.StatusForRent) {
			return false
		}
	}

	if f.Type != "" && f.Type != TypeAll && !strings.EqualFold(p.TypeValue(), f.Type) {
		return false
	}

	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}

	if f.Bedrooms > 0 && (p.BedroomCount == nil || *p.BedroomCount < f.Bedrooms) {
		return false
	}
	if f.Bathrooms > 0 && (p.BathroomCount == nil || *p.BathroomCount < f.Bathrooms) {
		return false
	}

	return true
}

// Apply returns the matching properties in the requested order.
// The input slice is not modified and the result is never nil.
func (f Filter) Apply(properties []models.Property) []models.Property {
	out := make([]models.Property, 0, len(properties))
	for i := range properties {
		if f.Match(&properties[i]) {
			out = append(out, properties[i])
		}
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b models.Property) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Property) int {
			return cmp.Compare(b.Price, a.Price)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Property) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}
