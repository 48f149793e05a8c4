package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the live state of a menu product as the backend reports it.
type Product struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	ImageURL            string          `json:"image_url"`
	Stock               int             `json:"stock"`
	IsActive            bool            `json:"is_active"`
	AllowsCustomization bool            `json:"allows_customization"`
}

// DeliveryArea prices delivery to one neighborhood of a city.
type DeliveryArea struct {
	City         string          `json:"city"`
	Neighborhood string          `json:"neighborhood"`
	Price        decimal.Decimal `json:"price"`
}

// Address is a saved customer delivery address.
type Address struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

// Locatable reports whether the address has enough detail to price delivery.
func (a Address) Locatable() bool {
	return strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Neighborhood) != ""
}

// PaymentMethod is one entry of the keyed payment configuration.
type PaymentMethod struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// NormalizePlace folds a city or neighborhood name for area matching.
func NormalizePlace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
