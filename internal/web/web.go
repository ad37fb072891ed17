// Package web holds the server-rendered pages and their template helpers.
package web

import (
	"embed"
	"html/template"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmptyPropertiesMessage is shown on the dashboard table when the user has no listings
const EmptyPropertiesMessage = "No properties found. Add your first property to get started."

var printer = message.NewPrinter(language.English)

// Templates parses every page template with the shared helpers
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Funcs are the helpers available to page templates
func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":       FormatPrice,
		"statusLabel": StatusLabel,
		"typeLabel":   TypeLabel,
		"str":         deref[string],
		"int":         deref[int],
		"float":       deref[float64],
		"emptyMessage": func() string {
			return EmptyPropertiesMessage
		},
	}
}

// FormatPrice renders a whole-dollar amount with thousands separators.
// Rentals get a monthly suffix.
func FormatPrice(p models.Property) string {
	amount := printer.Sprintf("$%d", int64(math.Round(p.Price)))
	if p.StatusValue() == string(config.StatusForRent) {
		return amount + "/mo"
	}
	return amount
}

// StatusLabel turns "for-sale" into "For Sale"
func StatusLabel(status string) string {
	switch status {
	case string(config.StatusForSale):
		return "For Sale"
	case string(config.StatusForRent):
		return "For Rent"
	case "":
		return "-"
	}
	return status
}

func TypeLabel(t string) string {
	if t == "" {
		return "-"
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
