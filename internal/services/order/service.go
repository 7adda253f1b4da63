package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Catalog supplies menu items so order lines snapshot name and price at
// creation time.
type Catalog interface {
	GetMenuItem(ctx context.Context, id int) (*models.MenuItem, error)
}

// Tables resolves table codes for dine-in orders.
type Tables interface {
	GetTableByCode(ctx context.Context, code string) (*models.Table, error)
}

// EventPublisher publishes lifecycle events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, event any) error
}

// Service owns order creation and lifecycle transitions.
type Service struct {
	repo      Repository
	catalog   Catalog
	tables    Tables
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates an order service.
func NewService(repo Repository, catalog Catalog, tables Tables, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		tables:    tables,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// CreateOrder validates the request, snapshots menu prices into order lines,
// computes subtotal/discount/total and persists the order as Pending.
// The persisted total is always subtotal minus discount; guest-facing tax or
// fee figures are display-only and never reach this path.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var tableCode *string
	if req.OrderType == models.DineIn {
		table, err := s.tables.GetTableByCode(ctx, req.TableCode)
		if err != nil {
			if err == models.ErrNotFound {
				return nil, models.ValidationError{Field: "tableCode", Message: "unknown table code"}
			}
			return nil, fmt.Errorf("failed to resolve table code: %w", err)
		}
		tableCode = &table.TableCode
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, line := range req.Items {
		menuItem, err := s.catalog.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if err == models.ErrNotFound {
				return nil, models.ValidationError{
					Field:   "items",
					Message: fmt.Sprintf("menu item %d does not exist", line.MenuItemID),
				}
			}
			return nil, fmt.Errorf("failed to load menu item %d: %w", line.MenuItemID, err)
		}
		if !menuItem.IsAvailable {
			return nil, models.ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("%s is currently unavailable", menuItem.Name),
			}
		}

		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			ImageURL:   menuItem.ImageURL,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
			Note:       line.Note,
		})
		subtotal = subtotal.Add(menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}
	if discount.GreaterThan(subtotal) {
		return nil, models.ValidationError{Field: "discount", Message: "discount cannot exceed subtotal"}
	}

	order := &models.Order{
		TableCode:      tableCode,
		OrderType:      req.OrderType,
		NumberOfPeople: req.NumberOfPeople,
		BuyerName:      req.BuyerName,
		BuyerEmail:     req.BuyerEmail,
		BuyerNote:      req.BuyerNote,
		OrderDate:      s.now().UTC(),
		Items:          items,
		Subtotal:       subtotal,
		Discount:       discount,
		OrderTotal:     subtotal.Sub(discount),
		OrderStatus:    models.StatusPending,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.EventOrderCreated, models.OrderEvent{
		EventType:  models.EventOrderCreated,
		OrderID:    order.ID,
		TableCode:  req.TableCode,
		OrderType:  order.OrderType,
		BuyerName:  order.BuyerName,
		NewStatus:  order.OrderStatus,
		OrderTotal: order.OrderTotal,
		OccurredAt: order.OrderDate,
	}, requestID)

	s.logger.Info("order_created", fmt.Sprintf("Order #%d created", order.ID), requestID, map[string]any{
		"order_type":  string(order.OrderType),
		"order_total": order.OrderTotal.StringFixed(2),
		"items":       len(order.Items),
	})

	return order, nil
}

// UpdateStatus requests a lifecycle transition. Legality is decided by the
// repository against the stored status; an illegal jump or a terminal order
// comes back as ErrInvalidTransition with nothing changed.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateOrderStatusRequest, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	oldStatus, err := s.repo.UpdateStatus(ctx, req.OrderID, req.Status, "dashboard")
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	tableCode := ""
	if order.TableCode != nil {
		tableCode = *order.TableCode
	}
	s.publishEvent(ctx, models.EventOrderStatusChanged, models.OrderEvent{
		EventType:  models.EventOrderStatusChanged,
		OrderID:    order.ID,
		TableCode:  tableCode,
		OrderType:  order.OrderType,
		BuyerName:  order.BuyerName,
		OldStatus:  oldStatus,
		NewStatus:  order.OrderStatus,
		OrderTotal: order.OrderTotal,
		OccurredAt: s.now().UTC(),
	}, requestID)

	s.logger.Info("order_status_changed",
		fmt.Sprintf("Order #%d moved %s -> %s", order.ID, oldStatus, order.OrderStatus),
		requestID, nil)

	return order, nil
}

// GetOrder loads one order.
func (s *Service) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// ListOrders returns a page of orders matching the filter.
func (s *Service) ListOrders(ctx context.Context, filter models.OrderListFilter) (models.Page[models.Order], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	orders, totalCount, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return models.Page[models.Order]{}, err
	}

	return models.NewPage(orders, filter.Page, filter.PageSize, totalCount), nil
}

// GetStatusHistory returns the audit trail of an order.
func (s *Service) GetStatusHistory(ctx context.Context, id int) ([]models.OrderStatusHistory, error) {
	return s.repo.GetStatusHistory(ctx, id)
}

// publishEvent logs and swallows publish failures: the order state is already
// committed, and the event stream is not allowed to fail the request.
func (s *Service) publishEvent(ctx context.Context, routingKey string, event any, requestID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, routingKey, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish lifecycle event", requestID, err, map[string]any{
			"routing_key": routingKey,
		})
	}
}
