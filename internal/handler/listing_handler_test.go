package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/backend-go/internal/testutil"
)

func seedListings(t *testing.T, app *testutil.TestApp, token string) {
	t.Helper()

	listings := []map[string]any{
		{"title": "Downtown studio", "price": 1800, "status": "for-rent", "propertyType": "apartment", "bedrooms": 0, "address": "1 Main St"},
		{"title": "Suburban family home", "price": 640000, "status": "for-sale", "propertyType": "house", "bedrooms": 4, "address": "9 Elm Ave"},
		{"title": "Lakeside condo", "price": 420000, "status": "for-sale", "propertyType": "condo", "bedrooms": 2, "address": "5 Shore Rd"},
	}
	for _, body := range listings {
		w := app.Do(http.MethodPost, testutil.PropertiesEndpoint, token, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestBrowseListings(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")

	w := app.Do(http.MethodGet, testutil.ListingsEndpoint, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	seedListings(t, app, token)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"everything newest first", "", []string{"Lakeside condo", "Suburban family home", "Downtown studio"}},
		{"for sale by price", "?status=sale&sort=price-asc", []string{"Lakeside condo", "Suburban family home"}},
		{"rentals", "?status=rent", []string{"Downtown studio"}},
		{"search matches address", "?search=elm", []string{"Suburban family home"}},
		{"min bedrooms", "?bedrooms=2&sort=price-desc", []string{"Suburban family home", "Lakeside condo"}},
		{"price window", "?minPrice=100000&maxPrice=500000", []string{"Lakeside condo"}},
		{"type", "?type=CONDO", []string{"Lakeside condo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.Do(http.MethodGet, testutil.ListingsEndpoint+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)

			var listings []propertyJSON
			decode(t, w.Body.Bytes(), &listings)

			titles := make([]string, 0, len(listings))
			for _, l := range listings {
				titles = append(titles, l.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestGetListing(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")
	property := createProperty(t, app, token, "Public listing")

	w := app.Do(http.MethodGet, testutil.ListingEndpoint+property.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing propertyJSON
	decode(t, w.Body.Bytes(), &listing)
	assert.Equal(t, "Public listing", listing.Title)

	w = app.Do(http.MethodGet, testutil.ListingEndpoint+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.Do(http.MethodGet, testutil.ListingEndpoint+"garbage", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
