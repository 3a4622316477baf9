package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups menu products.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is a menu entry. Image holds only the stored filename;
// ImageURL is filled per response and never persisted.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Available   bool            `json:"available"`
	CategoryID  int64           `json:"categoryId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Category    *Category       `json:"Category,omitempty"` // joined
}

// ProductFilters narrows product listings.
type ProductFilters struct {
	CategoryID *int64
	Available  *bool
}
