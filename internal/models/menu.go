package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry. Read-mostly; staff CRUD invalidates the
// client-side catalog cache.
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	IsBest      bool            `json:"isBest"`
	IsVeg       bool            `json:"isVeg"`
	IsSpicy     bool            `json:"isSpicy"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// MenuItemRequest is the body of POST /menuitems and PUT /menuitems/{id}.
type MenuItemRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	IsBest      bool            `json:"isBest"`
	IsVeg       bool            `json:"isVeg"`
	IsSpicy     bool            `json:"isSpicy"`
}

// Validate checks the request before it touches the database.
func (req *MenuItemRequest) Validate() error {
	if req.Name == "" {
		return ValidationError{Field: "name", Message: "item name is required"}
	}
	if req.Category == "" {
		return ValidationError{Field: "category", Message: "category is required"}
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		return ValidationError{Field: "price", Message: "price must be positive"}
	}
	return nil
}

// MenuFilter narrows GET /menuitems results.
type MenuFilter struct {
	Category      string
	AvailableOnly bool
}
