package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"tableside/internal/database"
	"tableside/internal/models"
)

// Repository persists tables and runs the compound checkout transaction.
type Repository interface {
	CreateTable(ctx context.Context, table *models.Table) error
	UpdateTable(ctx context.Context, table *models.Table) error
	DeleteTable(ctx context.Context, id int) error
	GetTable(ctx context.Context, id int) (*models.Table, error)
	GetTableByCode(ctx context.Context, code string) (*models.Table, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	OrdersForTable(ctx context.Context, tableCode string) ([]models.Order, error)
	Checkout(ctx context.Context, tableID int) (*models.CheckoutSummary, error)
}

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	db *database.DB
}

// NewRepository creates a Postgres table repository.
func NewRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTable(ctx context.Context, table *models.Table) error {
	if err := r.checkDuplicateCode(ctx, table.TableCode, 0); err != nil {
		return err
	}

	err := r.db.QueryRow(ctx, database.InsertTableSQL,
		table.Name, table.TableCode, table.Seats,
	).Scan(&table.ID, &table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateTable(ctx context.Context, table *models.Table) error {
	if err := r.checkDuplicateCode(ctx, table.TableCode, table.ID); err != nil {
		return err
	}

	err := r.db.QueryRow(ctx, database.UpdateTableSQL,
		table.Name, table.TableCode, table.Seats, table.ID,
	).Scan(&table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteTable(ctx context.Context, id int) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteTableSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetTable(ctx context.Context, id int) (*models.Table, error) {
	table, err := scanTable(r.db.QueryRow(ctx, database.GetTableSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	return table, nil
}

func (r *PostgresRepository) GetTableByCode(ctx context.Context, code string) (*models.Table, error) {
	table, err := scanTable(r.db.QueryRow(ctx, database.GetTableByCodeSQL, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query table by code: %w", err)
	}
	return table, nil
}

func (r *PostgresRepository) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := r.db.Query(ctx, database.ListTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, *table)
	}

	return tables, rows.Err()
}

// OrdersForTable returns all orders associated with a table code, newest
// first. Items are not loaded; occupancy projection needs statuses only.
func (r *PostgresRepository) OrdersForTable(ctx context.Context, tableCode string) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, database.ListOrdersByTableCodeSQL, tableCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query table orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.TableCode, &o.OrderType, &o.NumberOfPeople,
			&o.BuyerName, &o.BuyerEmail, &o.BuyerNote, &o.OrderDate,
			&o.Subtotal, &o.Discount, &o.OrderTotal, &o.OrderStatus,
			&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// Checkout settles all of a table's active orders to Paid in one transaction
// and returns the per-order and aggregate totals. The row locks keep a
// concurrent status update from slipping an order out of the active set
// mid-settlement.
func (r *PostgresRepository) Checkout(ctx context.Context, tableID int) (*models.CheckoutSummary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var table models.Table
	err = tx.QueryRow(ctx, database.GetTableSQL, tableID).Scan(
		&table.ID, &table.Name, &table.TableCode, &table.Seats, &table.CreatedAt, &table.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query table: %w", err)
	}

	rows, err := tx.Query(ctx, database.ListActiveOrdersForUpdateSQL, table.TableCode)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active orders: %w", err)
	}

	var summaries []models.CheckoutOrderSummary
	total := decimal.Zero
	for rows.Next() {
		var s models.CheckoutOrderSummary
		if err := rows.Scan(&s.OrderID, &s.Subtotal, &s.Discount, &s.Total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan active order: %w", err)
		}
		summaries = append(summaries, s)
		total = total.Add(s.Total)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active orders: %w", err)
	}

	if len(summaries) == 0 {
		return nil, models.ErrNoActiveOrders
	}

	for _, s := range summaries {
		if _, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, models.StatusPaid, s.OrderID); err != nil {
			return nil, fmt.Errorf("failed to settle order %d: %w", s.OrderID, err)
		}
		if _, err := tx.Exec(ctx, database.InsertOrderStatusLogSQL,
			s.OrderID, models.StatusPaid, "table-checkout", "settled by table checkout"); err != nil {
			return nil, fmt.Errorf("failed to log settlement of order %d: %w", s.OrderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return &models.CheckoutSummary{
		TableID:     table.ID,
		TableCode:   table.TableCode,
		OrdersCount: len(summaries),
		Orders:      summaries,
		Total:       total,
		CheckedOut:  time.Now().UTC(),
	}, nil
}

func (r *PostgresRepository) checkDuplicateCode(ctx context.Context, code string, excludeID int) error {
	var count int
	if err := r.db.QueryRow(ctx, database.CountTableCodeSQL, code, excludeID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check table code: %w", err)
	}
	if count > 0 {
		return models.ErrDuplicateCode
	}
	return nil
}

func scanTable(row pgx.Row) (*models.Table, error) {
	var table models.Table
	err := row.Scan(
		&table.ID,
		&table.Name,
		&table.TableCode,
		&table.Seats,
		&table.CreatedAt,
		&table.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &table, nil
}
