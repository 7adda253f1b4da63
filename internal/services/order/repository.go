package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableside/internal/database"
	"tableside/internal/models"
)

// Repository persists orders and enforces transition legality inside the
// update transaction.
type Repository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderListFilter) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id int, next models.OrderStatus, changedBy string) (models.OrderStatus, error)
	GetStatusHistory(ctx context.Context, id int) ([]models.OrderStatusHistory, error)
}

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	db *database.DB
}

// NewRepository creates a Postgres order repository.
func NewRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrder inserts the order, its items and the initial status log entry
// in one transaction, filling in the generated ids and timestamps.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.TableCode, order.OrderType, order.NumberOfPeople, order.BuyerName,
		order.BuyerEmail, order.BuyerNote, order.OrderDate,
		order.Subtotal, order.Discount, order.OrderTotal, order.OrderStatus,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRow(ctx, database.InsertOrderItemSQL,
			order.ID, item.MenuItemID, item.Name, item.ImageURL, item.Price, item.Quantity, item.Note,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		order.ID, order.OrderStatus, "order-service", "order created")
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	return tx.Commit(ctx)
}

// GetOrder loads one order with its items.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.GetOrderSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns one page of orders matching the filter plus the total
// matching count.
func (r *PostgresRepository) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]models.Order, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var totalCount int
	err := r.db.QueryRow(ctx, database.CountOrdersSQL, filter.TableCode, string(filter.Status)).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.db.Query(ctx, database.ListOrdersSQL,
		filter.TableCode, string(filter.Status), pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}

	return orders, totalCount, nil
}

// UpdateStatus applies a lifecycle transition, locking the row so legality is
// checked against the current stored status. Returns the prior status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, next models.OrderStatus, changedBy string) (models.OrderStatus, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current models.OrderStatus
	err = tx.QueryRow(ctx, database.GetOrderForUpdateSQL, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock order: %w", err)
	}

	if !current.CanTransitionTo(next) {
		return current, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current, next)
	}

	if _, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, next, id); err != nil {
		return current, fmt.Errorf("failed to update status: %w", err)
	}

	if _, err := tx.Exec(ctx, database.InsertOrderStatusLogSQL, id, next, changedBy, ""); err != nil {
		return current, fmt.Errorf("failed to insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return current, fmt.Errorf("failed to commit: %w", err)
	}

	return current, nil
}

// GetStatusHistory returns the audit trail of an order.
func (r *PostgresRepository) GetStatusHistory(ctx context.Context, id int) ([]models.OrderStatusHistory, error) {
	rows, err := r.db.Query(ctx, database.GetOrderStatusHistorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var entry models.OrderStatusHistory
		if err := rows.Scan(&entry.Status, &entry.ChangedBy, &entry.ChangedAt, &entry.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, entry)
	}

	return history, rows.Err()
}

func (r *PostgresRepository) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := r.db.Query(ctx, database.ListOrderItemsSQL, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.Name, &item.ImageURL,
			&item.Price, &item.Quantity, &item.Note); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.TableCode,
		&order.OrderType,
		&order.NumberOfPeople,
		&order.BuyerName,
		&order.BuyerEmail,
		&order.BuyerNote,
		&order.OrderDate,
		&order.Subtotal,
		&order.Discount,
		&order.OrderTotal,
		&order.OrderStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
