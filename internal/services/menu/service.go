package menu

import (
	"context"
	"fmt"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Service owns the menu catalog CRUD surface.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a menu service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// CreateMenuItem validates and persists a catalog entry.
func (s *Service) CreateMenuItem(ctx context.Context, req *models.MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
		IsBest:      req.IsBest,
		IsVeg:       req.IsVeg,
		IsSpicy:     req.IsSpicy,
	}

	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %q created", item.Name), requestID, map[string]any{
		"menu_item_id": item.ID,
		"category":     item.Category,
	})

	return item, nil
}

// UpdateMenuItem validates and replaces a catalog entry.
func (s *Service) UpdateMenuItem(ctx context.Context, id int, req *models.MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
		IsBest:      req.IsBest,
		IsVeg:       req.IsVeg,
		IsSpicy:     req.IsSpicy,
	}

	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_updated", fmt.Sprintf("Menu item %q updated", item.Name), requestID, map[string]any{
		"menu_item_id": item.ID,
	})

	return item, nil
}

// DeleteMenuItem removes a catalog entry.
func (s *Service) DeleteMenuItem(ctx context.Context, id int, requestID string) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}

	s.logger.Info("menu_item_deleted", fmt.Sprintf("Menu item %d deleted", id), requestID, nil)
	return nil
}

// GetMenuItem loads one catalog entry.
func (s *Service) GetMenuItem(ctx context.Context, id int) (*models.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

// ListMenuItems returns catalog entries matching the filter.
func (s *Service) ListMenuItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, filter)
}

// ListCategories returns the distinct catalog categories.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}
