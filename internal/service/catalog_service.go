package service

import (
	"context"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

// CatalogService serves the read-side queries the POS grid and the admin
// sales screens need.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	orders     repository.OrderRepository
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	orders repository.OrderRepository,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		orders:     orders,
	}
}

// GetProducts returns the catalog, optionally filtered by category.
func (s *CatalogService) GetProducts(ctx context.Context, categoryID string) ([]entity.Product, error) {
	return s.products.FindAll(ctx, categoryID)
}

// GetCategories returns all categories for the POS tab bar.
func (s *CatalogService) GetCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categories.FindAll(ctx)
}

// GetRecentOrders returns the latest orders.
func (s *CatalogService) GetRecentOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.orders.FindRecent(ctx, limit)
}
