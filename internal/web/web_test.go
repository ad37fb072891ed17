package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/backend-go/internal/database/models"
)

func strPtr(s string) *string { return &s }

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		p    models.Property
		want string
	}{
		{"sale", models.Property{Price: 1234567, Status: strPtr("for-sale")}, "$1,234,567"},
		{"rent", models.Property{Price: 1800, Status: strPtr("for-rent")}, "$1,800/mo"},
		{"rounded", models.Property{Price: 999.6}, "$1,000"},
		{"small", models.Property{Price: 0}, "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.p))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "For Sale", StatusLabel("for-sale"))
	assert.Equal(t, "For Rent", StatusLabel("for-rent"))
	assert.Equal(t, "-", StatusLabel(""))
	assert.Equal(t, "sold", StatusLabel("sold"))

	assert.Equal(t, "Townhouse", TypeLabel("townhouse"))
	assert.Equal(t, "-", TypeLabel(""))
}

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "browse.html", "detail.html", "login.html",
		"dashboard.html", "dashboard_properties.html", "not_found.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "dashboard_properties.html", struct {
		Title      string
		SignedIn   bool
		Properties []models.Property
	}{Title: "My properties", SignedIn: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), EmptyPropertiesMessage)
	assert.Contains(t, buf.String(), "Sign out")
}
