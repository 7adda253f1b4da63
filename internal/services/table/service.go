package table

import (
	"context"
	"fmt"
	"time"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// EventPublisher publishes lifecycle events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, event any) error
}

// Service owns table CRUD, guest code verification and checkout. Occupancy
// is always projected from the table's orders on the way out; nothing here
// ever stores a status.
type Service struct {
	repo      Repository
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates a table service.
func NewService(repo Repository, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// CreateTable validates and persists a table.
func (s *Service) CreateTable(ctx context.Context, req *models.TableRequest, requestID string) (*models.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	table := &models.Table{
		Name:      req.Name,
		TableCode: req.TableCode,
		Seats:     req.Seats,
		Status:    models.TableAvailable,
	}

	if err := s.repo.CreateTable(ctx, table); err != nil {
		return nil, err
	}

	s.logger.Info("table_created", fmt.Sprintf("Table %q created", table.Name), requestID, map[string]any{
		"table_id":   table.ID,
		"table_code": table.TableCode,
	})

	return table, nil
}

// UpdateTable validates and replaces a table.
func (s *Service) UpdateTable(ctx context.Context, id int, req *models.TableRequest, requestID string) (*models.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	table := &models.Table{
		ID:        id,
		Name:      req.Name,
		TableCode: req.TableCode,
		Seats:     req.Seats,
	}

	if err := s.repo.UpdateTable(ctx, table); err != nil {
		return nil, err
	}

	if err := s.project(ctx, table); err != nil {
		return nil, err
	}

	s.logger.Info("table_updated", fmt.Sprintf("Table %q updated", table.Name), requestID, nil)
	return table, nil
}

// DeleteTable removes a table.
func (s *Service) DeleteTable(ctx context.Context, id int, requestID string) error {
	if err := s.repo.DeleteTable(ctx, id); err != nil {
		return err
	}

	s.logger.Info("table_deleted", fmt.Sprintf("Table %d deleted", id), requestID, nil)
	return nil
}

// GetTable loads one table with its orders and projected status.
func (s *Service) GetTable(ctx context.Context, id int) (*models.Table, error) {
	table, err := s.repo.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.project(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// GetTableByCode resolves a table code for dine-in order creation.
func (s *Service) GetTableByCode(ctx context.Context, code string) (*models.Table, error) {
	return s.repo.GetTableByCode(ctx, code)
}

// ListTables returns all tables with orders and projected status.
func (s *Service) ListTables(ctx context.Context) ([]models.Table, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tables {
		if err := s.project(ctx, &tables[i]); err != nil {
			return nil, err
		}
	}

	return tables, nil
}

// Verify resolves a guest-entered table code.
func (s *Service) Verify(ctx context.Context, code string) (*models.TableVerification, error) {
	if code == "" {
		return nil, models.ValidationError{Field: "code", Message: "table code is required"}
	}

	table, err := s.repo.GetTableByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return &models.TableVerification{
		TableCode: table.TableCode,
		TableName: table.Name,
		Seats:     table.Seats,
	}, nil
}

// Checkout settles all active orders of a table at once and reports the
// settlement summary. Afterwards the occupancy projection returns Available.
func (s *Service) Checkout(ctx context.Context, tableID int, requestID string) (*models.CheckoutSummary, error) {
	summary, err := s.repo.Checkout(ctx, tableID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := models.CheckoutEvent{
			EventType:   models.EventTableCheckedOut,
			TableID:     summary.TableID,
			TableCode:   summary.TableCode,
			OrdersCount: summary.OrdersCount,
			Total:       summary.Total,
			OccurredAt:  time.Now().UTC(),
		}
		if err := s.publisher.PublishEvent(ctx, models.EventTableCheckedOut, event); err != nil {
			s.logger.Error("event_publish_failed", "Failed to publish checkout event", requestID, err, map[string]any{
				"table_id": summary.TableID,
			})
		}
	}

	s.logger.Info("table_checked_out",
		fmt.Sprintf("Table %s checked out, %d orders settled", summary.TableCode, summary.OrdersCount),
		requestID, map[string]any{
			"total": summary.Total.StringFixed(2),
		})

	return summary, nil
}

// project attaches the table's orders and derives its status from them.
func (s *Service) project(ctx context.Context, table *models.Table) error {
	orders, err := s.repo.OrdersForTable(ctx, table.TableCode)
	if err != nil {
		return err
	}
	table.Orders = orders
	table.Status = models.ProjectTableStatus(orders)
	return nil
}
