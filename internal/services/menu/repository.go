package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableside/internal/database"
	"tableside/internal/models"
)

// Repository persists the menu catalog.
type Repository interface {
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int) error
	GetMenuItem(ctx context.Context, id int) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	db *database.DB
}

// NewRepository creates a Postgres menu repository.
func NewRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.Name, item.Category, item.Price, item.Description, item.ImageURL,
		item.IsAvailable, item.IsBest, item.IsVeg, item.IsSpicy,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.UpdateMenuItemSQL,
		item.Name, item.Category, item.Price, item.Description, item.ImageURL,
		item.IsAvailable, item.IsBest, item.IsVeg, item.IsSpicy, item.ID,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRow(ctx, database.GetMenuItemSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL, filter.Category, filter.AvailableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, database.ListMenuCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var item models.MenuItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Price,
		&item.Description,
		&item.ImageURL,
		&item.IsAvailable,
		&item.IsBest,
		&item.IsVeg,
		&item.IsSpicy,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
