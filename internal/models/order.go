package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType represents the channel an order was placed through.
type OrderType string

const (
	DineIn   OrderType = "Dine In"
	TakeAway OrderType = "Take Away"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusServed    OrderStatus = "Served"
	StatusPaid      OrderStatus = "Paid"
	StatusCancelled OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known lifecycle states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusServed, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// IsActive reports whether an order in this state keeps its table occupied.
func (s OrderStatus) IsActive() bool {
	return !s.IsTerminal()
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
// Forward moves go one step at a time (Pending, Preparing, Served, Paid);
// Cancelled is reachable from any non-terminal state. Arbitrary jumps such as
// Pending straight to Paid are rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusPreparing
	case StatusPreparing:
		return next == StatusServed
	case StatusServed:
		return next == StatusPaid
	}
	return false
}

// OrderItem is a persisted line item of an order, with the unit price
// snapshotted at creation time.
type OrderItem struct {
	ID         int             `json:"id"`
	MenuItemID int             `json:"menuItemId"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note,omitempty"`
}

// Order is the server-authoritative order record.
type Order struct {
	ID             int             `json:"id"`
	TableCode      *string         `json:"tableCode,omitempty"`
	OrderType      OrderType       `json:"orderType"`
	NumberOfPeople int             `json:"numberOfPeople,omitempty"`
	BuyerName      string          `json:"buyerName"`
	BuyerEmail     string          `json:"buyerEmail,omitempty"`
	BuyerNote      string          `json:"buyerNote,omitempty"`
	OrderDate      time.Time       `json:"orderDate"`
	Items          []OrderItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	OrderTotal     decimal.Decimal `json:"orderTotal"`
	OrderStatus    OrderStatus     `json:"orderStatus"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt,omitempty"`
}

// CreateOrderItem is one requested line of a create-order call.
type CreateOrderItem struct {
	MenuItemID int    `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	TableCode      string            `json:"tableCode,omitempty"`
	OrderType      OrderType         `json:"orderType"`
	NumberOfPeople int               `json:"numberOfPeople,omitempty"`
	BuyerName      string            `json:"buyerName"`
	BuyerEmail     string            `json:"buyerEmail,omitempty"`
	BuyerNote      string            `json:"buyerNote,omitempty"`
	Discount       *decimal.Decimal  `json:"discount,omitempty"`
	Items          []CreateOrderItem `json:"items"`
}

// Validate checks the request before it touches the database.
func (req *CreateOrderRequest) Validate() error {
	if req.BuyerName == "" {
		return ValidationError{Field: "buyerName", Message: "buyer name is required"}
	}
	if len(req.BuyerName) > 100 {
		return ValidationError{Field: "buyerName", Message: "buyer name must be less than 100 characters"}
	}
	if req.OrderType != DineIn && req.OrderType != TakeAway {
		return ValidationError{Field: "orderType", Message: "order type must be Dine In or Take Away"}
	}
	if req.OrderType == DineIn && req.TableCode == "" {
		return ValidationError{Field: "tableCode", Message: "table code is required for dine-in orders"}
	}
	if req.OrderType == TakeAway && req.TableCode != "" {
		return ValidationError{Field: "tableCode", Message: "table code must not be present for take-away orders"}
	}
	if len(req.Items) == 0 {
		return ValidationError{Field: "items", Message: "order must contain at least one item"}
	}
	for i, item := range req.Items {
		if item.MenuItemID <= 0 {
			return ValidationError{Field: "items", Message: indexed(i, "menuItemId is required")}
		}
		if item.Quantity < 1 {
			return ValidationError{Field: "items", Message: indexed(i, "quantity must be at least 1")}
		}
	}
	if req.Discount != nil && req.Discount.IsNegative() {
		return ValidationError{Field: "discount", Message: "discount cannot be negative"}
	}
	return nil
}

// UpdateOrderStatusRequest is the body of PUT /orders/update-status.
type UpdateOrderStatusRequest struct {
	OrderID int         `json:"orderId"`
	Status  OrderStatus `json:"status"`
}

// Validate checks the request fields, not transition legality; legality is
// decided against the stored order inside the update transaction.
func (req *UpdateOrderStatusRequest) Validate() error {
	if req.OrderID <= 0 {
		return ValidationError{Field: "orderId", Message: "order id is required"}
	}
	if !ValidOrderStatus(req.Status) {
		return ValidationError{Field: "status", Message: "unknown order status"}
	}
	return nil
}

// OrderStatusHistory is one entry of an order's status audit log.
type OrderStatusHistory struct {
	Status    OrderStatus `json:"status"`
	ChangedBy string      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
	Notes     string      `json:"notes,omitempty"`
}

// OrderListFilter narrows GET /orders results.
type OrderListFilter struct {
	Page      int
	PageSize  int
	TableCode string
	Status    OrderStatus
}

func indexed(i int, msg string) string {
	return fmt.Sprintf("items[%d]: %s", i, msg)
}
