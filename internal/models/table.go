package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TableStatus is a projection over a table's orders, never stored.
type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableOccupied  TableStatus = "Occupied"
)

// Table is a physical seating unit. Status is recomputed from Orders on
// every read; client code must not set it directly.
type Table struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	TableCode string      `json:"tableCode"`
	Seats     int         `json:"seats"`
	Status    TableStatus `json:"status"`
	Orders    []Order     `json:"orders,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
}

// ProjectTableStatus derives occupancy from a table's orders: Occupied iff
// at least one order is outside the terminal set {Paid, Cancelled}.
func ProjectTableStatus(orders []Order) TableStatus {
	for _, o := range orders {
		if o.OrderStatus.IsActive() {
			return TableOccupied
		}
	}
	return TableAvailable
}

// TableRequest is the body of POST /tables and PUT /tables/{id}.
type TableRequest struct {
	Name      string `json:"name"`
	TableCode string `json:"tableCode"`
	Seats     int    `json:"seats"`
}

// Validate checks the request before it touches the database.
func (req *TableRequest) Validate() error {
	if req.Name == "" {
		return ValidationError{Field: "name", Message: "table name is required"}
	}
	if req.TableCode == "" {
		return ValidationError{Field: "tableCode", Message: "table code is required"}
	}
	if req.Seats < 1 {
		return ValidationError{Field: "seats", Message: "seats must be at least 1"}
	}
	return nil
}

// CheckoutOrderSummary is the per-order line of a checkout summary.
type CheckoutOrderSummary struct {
	OrderID  int             `json:"orderId"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// CheckoutSummary is returned by POST /tables/{id}/checkout after all of the
// table's active orders have been settled in one transaction.
type CheckoutSummary struct {
	TableID     int                    `json:"tableId"`
	TableCode   string                 `json:"tableCode"`
	OrdersCount int                    `json:"ordersCount"`
	Orders      []CheckoutOrderSummary `json:"orders"`
	Total       decimal.Decimal        `json:"total"`
	CheckedOut  time.Time              `json:"checkedOutAt"`
}

// TableVerification is returned by GET /tables/verify?code=.
type TableVerification struct {
	TableCode string `json:"tableCode"`
	TableName string `json:"tableName"`
	Seats     int    `json:"seats"`
}
