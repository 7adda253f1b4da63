package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event routing keys published to the orders topic exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventTableCheckedOut    = "table.checked_out"
)

// OrderEvent is the message published when an order is created or moves
// through its lifecycle.
type OrderEvent struct {
	EventType  string          `json:"eventType"`
	OrderID    int             `json:"orderId"`
	TableCode  string          `json:"tableCode,omitempty"`
	OrderType  OrderType       `json:"orderType"`
	BuyerName  string          `json:"buyerName"`
	OldStatus  OrderStatus     `json:"oldStatus,omitempty"`
	NewStatus  OrderStatus     `json:"newStatus"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// CheckoutEvent is the message published when a table is checked out and all
// of its active orders settle at once.
type CheckoutEvent struct {
	EventType   string          `json:"eventType"`
	TableID     int             `json:"tableId"`
	TableCode   string          `json:"tableCode"`
	OrdersCount int             `json:"ordersCount"`
	Total       decimal.Decimal `json:"total"`
	OccurredAt  time.Time       `json:"occurredAt"`
}
