package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/backend-go/internal/testutil"
)

type propertyJSON struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	BedroomCount  *int     `json:"bedroom_count"`
	BathroomCount *float64 `json:"bathroom_count"`
	PropertyType  *string  `json:"property_type"`
	Status        *string  `json:"status"`
	Longitude     *float64 `json:"longitude"`
	Latitude      *float64 `json:"latitude"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	SquareFeet    *float64 `json:"square_feet"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
}

func createProperty(t *testing.T, app *testutil.TestApp, token, title string) propertyJSON {
	t.Helper()

	w := app.Do(http.MethodPost, testutil.PropertiesEndpoint, token, map[string]any{
		"title":        title,
		"description":  "A lovely place to live with plenty of light",
		"price":        350000,
		"bedrooms":     3,
		"bathrooms":    2,
		"propertyType": "house",
		"status":       "for-sale",
		"address":      "12 Oak Street",
		"city":         "Portland",
		"state":        "OR",
		"zipCode":      "97201",
		"area":         1500,
		"yearBuilt":    1998,
		"garage":       2,
		"amenities":    []string{"Garden"},
		"images":       []string{"/uploads/1-front.jpg"},
		"coordinates":  []float64{-122.68, 45.52},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var property propertyJSON
	decode(t, w.Body.Bytes(), &property)
	return property
}

func TestCreateProperty(t *testing.T) {
	app := testutil.NewTestApp(t)
	userID, token := app.Register(t, "owner@example.com")

	property := createProperty(t, app, token, "Craftsman bungalow")

	assert.Equal(t, userID.String(), property.UserID)
	assert.Equal(t, "Craftsman bungalow", property.Title)
	assert.Equal(t, 350000.0, property.Price)
	assert.Equal(t, 1500.0, *property.SquareFeet)
	assert.Equal(t, -122.68, *property.Longitude)
	assert.Equal(t, 45.52, *property.Latitude)
	assert.Equal(t, []string{"Garden"}, property.Features)
	assert.Equal(t, []string{"/uploads/1-front.jpg"}, property.Images)
}

func TestCreateProperty_Validation(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"price": 1}},
		{"unknown status", map[string]any{"title": "A", "price": 1, "status": "sold"}},
		{"unknown type", map[string]any{"title": "A", "price": 1, "propertyType": "castle"}},
		{"negative price", map[string]any{"title": "A", "price": -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.Do(http.MethodPost, testutil.PropertiesEndpoint, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, testutil.CountRows(t, app.DB, "properties"))
}

func TestPropertyEndpoints_RequireAuth(t *testing.T) {
	app := testutil.NewTestApp(t)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, testutil.PropertiesEndpoint},
		{http.MethodPost, testutil.PropertiesEndpoint},
		{http.MethodPost, testutil.UploadEndpoint},
		{http.MethodPut, testutil.PropertyEndpoint + uuid.NewString()},
		{http.MethodDelete, testutil.PropertyEndpoint + uuid.NewString()},
	} {
		w := app.Do(req.method, req.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", req.method, req.path)
	}

	w := app.Do(http.MethodGet, testutil.PropertiesEndpoint, "invalid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListProperties(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")
	_, otherToken := app.Register(t, "other@example.com")

	w := app.Do(http.MethodGet, testutil.PropertiesEndpoint, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	createProperty(t, app, token, "First")
	createProperty(t, app, token, "Second")
	createProperty(t, app, otherToken, "Someone else's")

	w = app.Do(http.MethodGet, testutil.PropertiesEndpoint, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var properties []propertyJSON
	decode(t, w.Body.Bytes(), &properties)
	require.Len(t, properties, 2)
	assert.Equal(t, "Second", properties[0].Title)
	assert.Equal(t, "First", properties[1].Title)
}

func TestGetProperty(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")
	_, otherToken := app.Register(t, "other@example.com")
	property := createProperty(t, app, token, "Mine")

	w := app.Do(http.MethodGet, testutil.PropertyEndpoint+property.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.Do(http.MethodGet, testutil.PropertyEndpoint+property.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.Do(http.MethodGet, testutil.PropertyEndpoint+"not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProperty_WritesOmittedFieldsAsNull(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")
	property := createProperty(t, app, token, "Old Title")

	w := app.Do(http.MethodPut, testutil.PropertyEndpoint+property.ID, token, map[string]any{
		"title":   "New Title",
		"price":   500000,
		"user_id": uuid.NewString(),
		"bogus":   true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated propertyJSON
	decode(t, w.Body.Bytes(), &updated)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, 500000.0, updated.Price)
	assert.Equal(t, property.UserID, updated.UserID)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.BedroomCount)
	assert.Nil(t, updated.BathroomCount)
	assert.Nil(t, updated.PropertyType)
	assert.Nil(t, updated.Status)
	assert.Nil(t, updated.Address)
	assert.Nil(t, updated.City)
	assert.Nil(t, updated.SquareFeet)
	assert.Nil(t, updated.Features)
	assert.Nil(t, updated.Images)
}

func TestUpdateProperty_NonOwner(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")
	_, otherToken := app.Register(t, "other@example.com")
	property := createProperty(t, app, token, "Mine")

	w := app.Do(http.MethodPut, testutil.PropertyEndpoint+property.ID, otherToken, map[string]any{
		"title": "Hijacked",
		"price": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Property not found or unauthorized"}`, w.Body.String())

	w = app.Do(http.MethodGet, testutil.PropertyEndpoint+property.ID, token, nil)
	var current propertyJSON
	decode(t, w.Body.Bytes(), &current)
	assert.Equal(t, "Mine", current.Title)
}

func TestDeleteProperty(t *testing.T) {
	app := testutil.NewTestApp(t)
	_, token := app.Register(t, "owner@example.com")
	_, otherToken := app.Register(t, "other@example.com")
	property := createProperty(t, app, token, "Mine")

	w := app.Do(http.MethodDelete, testutil.PropertyEndpoint+property.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(1), testutil.CountRows(t, app.DB, "properties"))

	w = app.Do(http.MethodDelete, testutil.PropertyEndpoint+property.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Zero(t, testutil.CountRows(t, app.DB, "properties"))

	w = app.Do(http.MethodDelete, testutil.PropertyEndpoint+property.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
